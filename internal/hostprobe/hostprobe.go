// Package hostprobe collects best-effort hardware attributes used for
// machine identity. Probes are platform-specific, frequently
// unavailable on sandboxed or containerized hosts, and sometimes slow;
// every probe therefore runs under a hard deadline and reports
// "absent" instead of failing.
package hostprobe

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// commandTimeout bounds every subprocess invocation so identity
// generation cannot hang process startup.
const commandTimeout = 2 * time.Second

// Probe reports hardware attributes of the local host. Each method
// returns ok=false when the attribute cannot be determined; callers
// must treat that as "no data", never as an error.
type Probe interface {
	CPUModel(ctx context.Context) (string, bool)
	BoardSerial(ctx context.Context) (string, bool)
	DiskSerial(ctx context.Context) (string, bool)
	MemorySize(ctx context.Context) (string, bool)
	DiskSummary(ctx context.Context) (string, bool)
}

// New returns the probe implementation for the current platform.
func New() Probe {
	return newPlatformProbe()
}

// runCommand executes one probe command under the shared deadline and
// returns its trimmed stdout. Any failure, including the deadline
// firing, yields ok=false.
func runCommand(ctx context.Context, name string, args ...string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", false
	}
	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

// firstLine returns the first non-empty line of s.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
