//go:build windows

package hostprobe

import (
	"context"
	"strings"
)

type windowsProbe struct{}

func newPlatformProbe() Probe {
	return windowsProbe{}
}

func (windowsProbe) CPUModel(ctx context.Context) (string, bool) {
	return wmicValue(ctx, "Name", "cpu", "get", "name", "/value")
}

func (windowsProbe) BoardSerial(ctx context.Context) (string, bool) {
	return wmicValue(ctx, "SerialNumber", "baseboard", "get", "serialnumber", "/value")
}

func (windowsProbe) DiskSerial(ctx context.Context) (string, bool) {
	return wmicValue(ctx, "SerialNumber", "diskdrive", "get", "serialnumber", "/value")
}

func (windowsProbe) MemorySize(ctx context.Context) (string, bool) {
	return wmicValue(ctx, "TotalPhysicalMemory", "computersystem", "get", "totalphysicalmemory", "/value")
}

func (windowsProbe) DiskSummary(ctx context.Context) (string, bool) {
	out, ok := runCommand(ctx, "wmic", "logicaldisk", "get", "size", "/value")
	if !ok {
		return "", false
	}
	var sizes []string
	for _, line := range strings.Split(out, "\n") {
		if _, value, found := strings.Cut(strings.TrimSpace(line), "="); found && value != "" {
			sizes = append(sizes, value)
		}
	}
	if len(sizes) == 0 {
		return "", false
	}
	return strings.Join(sizes, " "), true
}

// wmicValue runs a wmic query in key=value mode and returns the first
// non-empty value for key.
func wmicValue(ctx context.Context, key string, args ...string) (string, bool) {
	out, ok := runCommand(ctx, "wmic", args...)
	if !ok {
		return "", false
	}
	prefix := key + "="
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		if value := strings.TrimSpace(strings.TrimPrefix(line, prefix)); value != "" {
			return value, true
		}
	}
	return "", false
}
