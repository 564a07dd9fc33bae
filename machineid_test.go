package licensegate

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexPattern = regexp.MustCompile(`^[0-9a-f]+$`)

// fakeProbe returns fixed hardware attributes, or nothing at all when
// available is false.
type fakeProbe struct {
	available bool
	cpu       string
	board     string
	disk      string
	memory    string
	disks     string
}

func (p fakeProbe) CPUModel(ctx context.Context) (string, bool)    { return p.cpu, p.available }
func (p fakeProbe) BoardSerial(ctx context.Context) (string, bool) { return p.board, p.available }
func (p fakeProbe) DiskSerial(ctx context.Context) (string, bool)  { return p.disk, p.available }
func (p fakeProbe) MemorySize(ctx context.Context) (string, bool)  { return p.memory, p.available }
func (p fakeProbe) DiskSummary(ctx context.Context) (string, bool) { return p.disks, p.available }

func fullFakeProbe() fakeProbe {
	return fakeProbe{
		available: true,
		cpu:       "Example CPU @ 3.00GHz",
		board:     "BOARD-SERIAL-1",
		disk:      "DISK-SERIAL-1",
		memory:    "16384000",
		disks:     "sda 512110190592",
	}
}

func TestMachineIDDeterminism(t *testing.T) {
	g := NewGeneratorWithProbe(fullFakeProbe())
	ctx := context.Background()

	first := g.MachineID(ctx)
	second := g.MachineID(ctx)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second, "same host must always produce the same machine id")
	assert.Len(t, first, 32)
	assert.Regexp(t, hexPattern, first)
}

func TestMachineIDComponentOrder(t *testing.T) {
	g := NewGeneratorWithProbe(fullFakeProbe())
	ctx := context.Background()

	components := []string{g.hostname()}
	components = append(components, physicalMACs()...)
	components = append(components, "Example CPU @ 3.00GHz", "BOARD-SERIAL-1", "DISK-SERIAL-1")
	want := digest(components)[:32]

	assert.Equal(t, want, g.MachineID(ctx))
}

func TestMachineIDSkipsAbsentProbes(t *testing.T) {
	g := NewGeneratorWithProbe(fakeProbe{})
	ctx := context.Background()

	id := g.MachineID(ctx)
	require.NotEmpty(t, id, "identity generation must degrade, never fail")
	assert.Len(t, id, 32)
	assert.Equal(t, id, g.MachineID(ctx))

	withHardware := NewGeneratorWithProbe(fullFakeProbe()).MachineID(ctx)
	assert.NotEqual(t, withHardware, id, "hardware attributes must contribute to the id")
}

func TestFingerprint(t *testing.T) {
	g := NewGeneratorWithProbe(fullFakeProbe())
	ctx := context.Background()

	fp := g.Fingerprint(ctx)
	assert.Len(t, fp, 64)
	assert.Regexp(t, hexPattern, fp)
	assert.Equal(t, fp, g.Fingerprint(ctx))

	id := g.MachineID(ctx)
	assert.NotEqual(t, id, fp[:32], "fingerprint covers a superset of the machine id inputs")
}

func TestIsVirtualMAC(t *testing.T) {
	tests := []struct {
		mac  string
		want bool
	}{
		{"00:00:00:00:00:00", true},
		{"00:00:00:aa:bb:cc", true},
		{"02:00:00:00:00:00", true},
		{"", true},
		{"aa:bb:cc:dd:ee:ff", false},
		{"02:42:ac:11:00:02", false},
	}

	for _, tt := range tests {
		t.Run(tt.mac, func(t *testing.T) {
			assert.Equal(t, tt.want, isVirtualMAC(tt.mac))
		})
	}
}

func TestPhysicalMACsExcludeVirtual(t *testing.T) {
	for _, mac := range physicalMACs() {
		assert.False(t, isVirtualMAC(mac), "virtual MAC %s leaked into identity input", mac)
	}
}

func TestEnvDigest(t *testing.T) {
	t.Setenv("USER", "tester")

	first := envDigest()
	assert.Len(t, first, 16)
	assert.Regexp(t, hexPattern, first)
	assert.Equal(t, first, envDigest())

	t.Setenv("USER", "someone-else")
	assert.NotEqual(t, first, envDigest(), "allow-listed variables must contribute to the digest")
}

func TestHostnameNeverEmpty(t *testing.T) {
	g := NewGeneratorWithProbe(fakeProbe{})
	assert.NotEmpty(t, g.hostname())
}

func TestGenerateMachineIDPackageLevel(t *testing.T) {
	first := GenerateMachineID()
	require.NotEmpty(t, first)
	assert.Len(t, first, 32)
	assert.Equal(t, first, GenerateMachineID())

	fp := GenerateFingerprint()
	assert.Len(t, fp, 64)
	assert.Equal(t, fp, GenerateFingerprint())
}

func TestConcurrentGeneration(t *testing.T) {
	g := NewGeneratorWithProbe(fullFakeProbe())
	ctx := context.Background()
	base := g.MachineID(ctx)

	const goroutines = 10
	results := make(chan string, goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			results <- g.MachineID(ctx)
		}()
	}
	for i := 0; i < goroutines; i++ {
		assert.Equal(t, base, <-results)
	}
}
