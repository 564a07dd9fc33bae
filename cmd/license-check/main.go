// Command license-check validates (or activates) a license key against
// the configured license server and exits non-zero when the machine is
// not entitled. It is the enforcement companion to the licensegate
// library, suitable for wrapper scripts and container entrypoints.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/licensegate/licensegate"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML configuration file")
		key        = flag.String("key", "", "license key (overrides configuration)")
		activate   = flag.Bool("activate", false, "activate the license on this machine instead of validating")
		exitStatus = flag.Int("exit-status", 1, "exit status on validation failure")
		verbose    = flag.Bool("verbose", false, "enable debug logging")
		asJSON     = flag.Bool("json", false, "print the full result as JSON")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := licensegate.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "license-check: %v\n", err)
		os.Exit(2)
	}

	licenseKey := *key
	if licenseKey == "" {
		licenseKey = cfg.LicenseKey
	}
	if licenseKey == "" {
		fmt.Fprintln(os.Stderr, "license-check: no license key given (use -key or LICENSEGATE_LICENSE_KEY)")
		os.Exit(2)
	}

	client, err := licensegate.NewClient(cfg, licensegate.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "license-check: %v\n", err)
		os.Exit(2)
	}

	ctx := context.Background()

	if *activate {
		machineID := cfg.MachineID
		if machineID == "" {
			machineID = licensegate.GenerateMachineID()
		}
		result, err := client.ActivateLicense(ctx, licenseKey, machineID, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "license-check: activation failed: %v\n", err)
			os.Exit(*exitStatus)
		}
		if !result.Success && !result.Valid {
			fmt.Fprintf(os.Stderr, "license-check: activation rejected: %s\n", result.ErrorMessage)
			os.Exit(*exitStatus)
		}
		report(result, *asJSON)
		return
	}

	result := client.Enforce(ctx, licenseKey, &licensegate.EnforceOptions{
		ExitStatus: *exitStatus,
	})
	report(result, *asJSON)
}

func report(result *licensegate.Result, asJSON bool) {
	if asJSON {
		json.NewEncoder(os.Stdout).Encode(result)
		return
	}
	fmt.Println("license ok")
	if result != nil && result.ExpiresAt != nil {
		fmt.Printf("expires at %s\n", result.ExpiresAt.Format("2006-01-02"))
	}
}
