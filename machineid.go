package licensegate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"os"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/licensegate/licensegate/internal/hostprobe"
)

const (
	// unknownHostSentinel stands in when even the hostname probe fails.
	unknownHostSentinel = "unknown-host"

	// nullMAC is the well-known virtual-adapter address excluded from
	// identity input alongside any 00:00:00-prefixed address.
	nullMAC       = "02:00:00:00:00:00"
	virtualPrefix = "00:00:00:"

	componentSeparator = "|"
)

// fingerprintEnvVars is the fixed allow-list of environment variables
// folded into the fingerprint. Changing this list changes everybody's
// fingerprint and is a breaking change.
var fingerprintEnvVars = []string{
	"USER",
	"USERNAME",
	"HOME",
	"HOMEPATH",
	"HOSTNAME",
	"COMPUTERNAME",
	"PROCESSOR_IDENTIFIER",
	"PROCESSOR_ARCHITECTURE",
	"NUMBER_OF_PROCESSORS",
}

// Generator derives machine identity digests from live host state.
// Nothing is cached: every call re-probes the host, so a hardware
// change is reflected immediately. Concurrent callers asking for the
// same digest share one probe pass via singleflight.
type Generator struct {
	probe  hostprobe.Probe
	logger *slog.Logger
	group  singleflight.Group
}

// NewGenerator returns a Generator backed by the platform probe.
func NewGenerator() *Generator {
	return NewGeneratorWithProbe(hostprobe.New())
}

// NewGeneratorWithProbe returns a Generator backed by a caller-supplied
// probe. Tests inject deterministic probes this way.
func NewGeneratorWithProbe(probe hostprobe.Probe) *Generator {
	return &Generator{
		probe:  probe,
		logger: slog.Default(),
	}
}

// MachineID returns the short machine identifier: the first 32 hex
// characters of a SHA-256 over the stable hardware components. The
// component set and order (hostname, MAC addresses, CPU model, board
// serial, disk serial) are a compatibility contract; changing either
// changes every machine id in the field.
func (g *Generator) MachineID(ctx context.Context) string {
	v, _, _ := g.group.Do("machine_id", func() (interface{}, error) {
		components := g.machineIDComponents(ctx)
		return digest(components)[:32], nil
	})
	return v.(string)
}

// Fingerprint returns the long-form identity digest: the full 64-hex
// SHA-256 over the machine id components plus platform, runtime
// version, local IP, memory, disk summary, and the environment digest.
func (g *Generator) Fingerprint(ctx context.Context) string {
	v, _, _ := g.group.Do("fingerprint", func() (interface{}, error) {
		components := g.machineIDComponents(ctx)
		components = append(components,
			runtime.GOOS+"-"+runtime.GOARCH,
			runtime.Version(),
		)
		if ip := localIPv4(); ip != "" {
			components = append(components, ip)
		}
		if mem, ok := g.probe.MemorySize(ctx); ok {
			components = append(components, mem)
		}
		if disks, ok := g.probe.DiskSummary(ctx); ok {
			components = append(components, disks)
		}
		components = append(components, envDigest())
		return digest(components), nil
	})
	return v.(string)
}

// machineIDComponents gathers the stable component set in its fixed
// order. Absent probes are skipped, never substituted, so that a host
// where a probe is unavailable still produces a stable id.
func (g *Generator) machineIDComponents(ctx context.Context) []string {
	components := []string{g.hostname()}
	components = append(components, physicalMACs()...)

	if cpu, ok := g.probe.CPUModel(ctx); ok {
		components = append(components, cpu)
	}
	if board, ok := g.probe.BoardSerial(ctx); ok {
		components = append(components, board)
	}
	if disk, ok := g.probe.DiskSerial(ctx); ok {
		components = append(components, disk)
	}
	return components
}

func (g *Generator) hostname() string {
	hostname, err := os.Hostname()
	if err != nil || strings.TrimSpace(hostname) == "" {
		g.logger.Warn("failed to get hostname, using fallback",
			slog.String("fallback", unknownHostSentinel),
		)
		return unknownHostSentinel
	}
	return strings.ToLower(strings.TrimSpace(hostname))
}

// physicalMACs returns the sorted MAC addresses of all non-virtual
// interfaces. Sorting keeps the digest independent of interface
// enumeration order.
func physicalMACs() []string {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	var macs []string
	for _, iface := range interfaces {
		if len(iface.HardwareAddr) == 0 {
			continue
		}
		mac := iface.HardwareAddr.String()
		if isVirtualMAC(mac) {
			continue
		}
		macs = append(macs, mac)
	}
	sort.Strings(macs)
	return macs
}

// isVirtualMAC reports whether mac is a virtual-adapter artifact that
// must not contribute to machine identity.
func isVirtualMAC(mac string) bool {
	return mac == "" || mac == nullMAC || strings.HasPrefix(mac, virtualPrefix)
}

// localIPv4 returns the first private IPv4 address of the host, or ""
// when none exists.
func localIPv4() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipNet.IP.To4()
		if ip == nil || !ip.IsPrivate() {
			continue
		}
		return ip.String()
	}
	return ""
}

// envDigest hashes the allow-listed environment variables that are set,
// as sorted NAME=VALUE pairs, and returns the first 16 hex characters.
func envDigest() string {
	var pairs []string
	for _, name := range fingerprintEnvVars {
		if value, ok := os.LookupEnv(name); ok {
			pairs = append(pairs, fmt.Sprintf("%s=%s", name, value))
		}
	}
	sort.Strings(pairs)
	sum := sha256.Sum256([]byte(strings.Join(pairs, ";")))
	return hex.EncodeToString(sum[:])[:16]
}

func digest(components []string) string {
	sum := sha256.Sum256([]byte(strings.Join(components, componentSeparator)))
	return hex.EncodeToString(sum[:])
}

// defaultGenerator backs the package-level convenience functions.
var defaultGenerator = NewGenerator()

// GenerateMachineID returns the short machine id for the current host.
func GenerateMachineID() string {
	return defaultGenerator.MachineID(context.Background())
}

// GenerateFingerprint returns the long-form fingerprint for the
// current host.
func GenerateFingerprint() string {
	return defaultGenerator.Fingerprint(context.Background())
}
