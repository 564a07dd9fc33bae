// Package licensegate is a client for the licensegate licensing
// server. A host application uses it to prove that it is entitled to
// run on a given machine.
//
// # Overview
//
// The package exposes two remote operations and one policy helper:
//
//	- Client.ValidateLicense: read-only entitlement check
//	- Client.ActivateLicense: bind a license seat to this machine
//	- Client.Enforce: validate and terminate the process on failure
//
// Business outcomes the server reports (expired, not found, rate
// limited, activation failure) are folded into the returned Result, so
// callers branch on Result.Valid without error handling:
//
//	cfg, err := licensegate.LoadConfig("")
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := licensegate.NewClient(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := client.ValidateLicense(ctx, key, licensegate.GenerateMachineID(), "")
//	if err != nil {
//		// configuration or transport failure
//	}
//	if !result.Valid {
//		// result.ErrorCode / result.RetryAfter carry the detail
//	}
//
// # Machine identity
//
// GenerateMachineID derives a short, stable, non-reversible digest
// from hostname, physical MAC addresses, and best-effort hardware
// serials. GenerateFingerprint adds environmental detail (platform,
// runtime, local IP, memory, disks, selected environment variables)
// for duplicate-seat detection. Every hardware probe fails soft:
// identity generation never blocks on a sandboxed or containerized
// host, it just uses fewer inputs.
//
// # Resilience
//
// The client performs no automatic retries. A license check usually
// sits on a hot path the caller controls, typically startup, and a
// hidden retry loop there risks unbounded latency. Callers needing
// resilience wrap the calls themselves; rate-limited results carry
// RetryAfter for that purpose.
package licensegate

// Version is the client library version reported in the default
// User-Agent.
const Version = "1.0.0"
