//go:build !linux && !darwin && !windows

package hostprobe

import "context"

// fallbackProbe reports every attribute as absent. Identity generation
// degrades to hostname, MAC addresses, and runtime attributes on
// platforms without a dedicated probe.
type fallbackProbe struct{}

func newPlatformProbe() Probe {
	return fallbackProbe{}
}

func (fallbackProbe) CPUModel(ctx context.Context) (string, bool)    { return "", false }
func (fallbackProbe) BoardSerial(ctx context.Context) (string, bool) { return "", false }
func (fallbackProbe) DiskSerial(ctx context.Context) (string, bool)  { return "", false }
func (fallbackProbe) MemorySize(ctx context.Context) (string, bool)  { return "", false }
func (fallbackProbe) DiskSummary(ctx context.Context) (string, bool) { return "", false }
