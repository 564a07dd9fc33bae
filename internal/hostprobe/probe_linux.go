//go:build linux

package hostprobe

import (
	"context"
	"os"
	"strings"
)

type linuxProbe struct{}

func newPlatformProbe() Probe {
	return linuxProbe{}
}

// CPUModel reads the model name from /proc/cpuinfo.
func (linuxProbe) CPUModel(ctx context.Context) (string, bool) {
	data, err := os.ReadFile("/proc/cpuinfo")
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "model name") {
			continue
		}
		if _, value, found := strings.Cut(line, ":"); found {
			if model := strings.TrimSpace(value); model != "" {
				return model, true
			}
		}
	}
	return "", false
}

// BoardSerial reads the DMI board serial. Usually requires root; on
// unprivileged or virtualized hosts this is simply absent.
func (linuxProbe) BoardSerial(ctx context.Context) (string, bool) {
	data, err := os.ReadFile("/sys/class/dmi/id/board_serial")
	if err != nil {
		return "", false
	}
	serial := strings.TrimSpace(string(data))
	if serial == "" || serial == "None" {
		return "", false
	}
	return serial, true
}

func (linuxProbe) DiskSerial(ctx context.Context) (string, bool) {
	out, ok := runCommand(ctx, "lsblk", "-dno", "SERIAL")
	if !ok {
		return "", false
	}
	serial := firstLine(out)
	if serial == "" {
		return "", false
	}
	return serial, true
}

// MemorySize reports MemTotal in kB from /proc/meminfo.
func (linuxProbe) MemorySize(ctx context.Context) (string, bool) {
	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			return fields[1], true
		}
	}
	return "", false
}

func (linuxProbe) DiskSummary(ctx context.Context) (string, bool) {
	out, ok := runCommand(ctx, "lsblk", "-dnbo", "NAME,SIZE")
	if !ok {
		return "", false
	}
	return strings.Join(strings.Fields(out), " "), true
}
