package hostprobe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Probes report live host attributes, so these tests only pin the
// fail-soft contract: a probe either returns data or reports absent,
// and it never panics or hangs.
func TestPlatformProbeFailsSoft(t *testing.T) {
	probe := New()
	require.NotNil(t, probe)
	ctx := context.Background()

	checks := []struct {
		name  string
		probe func(context.Context) (string, bool)
	}{
		{"cpu model", probe.CPUModel},
		{"board serial", probe.BoardSerial},
		{"disk serial", probe.DiskSerial},
		{"memory size", probe.MemorySize},
		{"disk summary", probe.DiskSummary},
	}

	for _, check := range checks {
		t.Run(check.name, func(t *testing.T) {
			value, ok := check.probe(ctx)
			if ok {
				assert.NotEmpty(t, value, "ok=true must carry data")
			} else {
				assert.Empty(t, value, "ok=false must carry no data")
			}
		})
	}
}

func TestRunCommandMissingBinary(t *testing.T) {
	value, ok := runCommand(context.Background(), "definitely-not-a-real-command-xyz")
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestRunCommandRespectsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := runCommand(ctx, "hostname")
	assert.False(t, ok)
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "single line", in: "sda-serial", want: "sda-serial"},
		{name: "leading blank lines", in: "\n\n  value  \nrest", want: "value"},
		{name: "all blank", in: "\n  \n", want: ""},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstLine(tt.in))
		})
	}
}
