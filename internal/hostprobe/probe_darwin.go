//go:build darwin

package hostprobe

import (
	"context"
	"strings"
)

type darwinProbe struct{}

func newPlatformProbe() Probe {
	return darwinProbe{}
}

func (darwinProbe) CPUModel(ctx context.Context) (string, bool) {
	return runCommand(ctx, "sysctl", "-n", "machdep.cpu.brand_string")
}

// BoardSerial reads IOPlatformSerialNumber from the IOKit registry.
func (darwinProbe) BoardSerial(ctx context.Context) (string, bool) {
	out, ok := runCommand(ctx, "ioreg", "-rd1", "-c", "IOPlatformExpertDevice")
	if !ok {
		return "", false
	}
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "IOPlatformSerialNumber") {
			continue
		}
		if _, value, found := strings.Cut(line, "="); found {
			serial := strings.Trim(strings.TrimSpace(value), `"`)
			if serial != "" {
				return serial, true
			}
		}
	}
	return "", false
}

// DiskSerial uses the boot disk's partition UUID; macOS does not expose
// a raw drive serial without elevated entitlements.
func (darwinProbe) DiskSerial(ctx context.Context) (string, bool) {
	out, ok := runCommand(ctx, "diskutil", "info", "disk0")
	if !ok {
		return "", false
	}
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "Disk / Partition UUID") {
			continue
		}
		if _, value, found := strings.Cut(line, ":"); found {
			if uuid := strings.TrimSpace(value); uuid != "" {
				return uuid, true
			}
		}
	}
	return "", false
}

func (darwinProbe) MemorySize(ctx context.Context) (string, bool) {
	return runCommand(ctx, "sysctl", "-n", "hw.memsize")
}

func (darwinProbe) DiskSummary(ctx context.Context) (string, bool) {
	out, ok := runCommand(ctx, "df", "-k", "/")
	if !ok {
		return "", false
	}
	lines := strings.Split(out, "\n")
	if len(lines) < 2 {
		return "", false
	}
	return strings.Join(strings.Fields(lines[1]), " "), true
}
