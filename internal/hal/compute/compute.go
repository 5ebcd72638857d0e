// Package compute defines the compute enumeration capability: descriptors
// for the devices a host exposes (CPU, GPU, NPU) and a service interface for
// listing them. The reference implementation serves a static inventory,
// either declared in configuration or derived from the host.
package compute

import (
	"fmt"
	"runtime"
	"strings"
)

// Kind classifies a compute device.
type Kind int

const (
	KindCPU Kind = iota
	KindGPU
	KindNPU
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindCPU:
		return "cpu"
	case KindGPU:
		return "gpu"
	case KindNPU:
		return "npu"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a configuration string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "cpu":
		return KindCPU, nil
	case "gpu":
		return KindGPU, nil
	case "npu":
		return KindNPU, nil
	default:
		return 0, fmt.Errorf("unknown device kind %q", s)
	}
}

// Descriptor describes one enumerated device. Descriptors are immutable once
// enumerated.
type Descriptor struct {
	Name         string
	Kind         Kind
	Capabilities []string
}

// Service is the compute enumeration capability. Implementations own no
// shared mutable state and may be called from concurrent callers without
// synchronization. An empty result is not an error: it means no devices are
// configured.
type Service interface {
	ListDevices() []Descriptor
}

// StaticService serves a fixed inventory of devices.
type StaticService struct {
	devices []Descriptor
}

// NewStaticService creates a service over the given inventory.
func NewStaticService(devices ...Descriptor) *StaticService {
	return &StaticService{devices: devices}
}

// HostDescriptor derives a descriptor for the CPU the process is running on.
// It is the inventory used when configuration declares no devices.
func HostDescriptor() Descriptor {
	return Descriptor{
		Name: "host-cpu",
		Kind: KindCPU,
		Capabilities: []string{
			"arch:" + runtime.GOARCH,
			fmt.Sprintf("cores:%d", runtime.NumCPU()),
		},
	}
}

// ListDevices returns a snapshot of the inventory. Each descriptor is copied
// so callers cannot mutate the service's view.
func (s *StaticService) ListDevices() []Descriptor {
	out := make([]Descriptor, len(s.devices))
	for i, d := range s.devices {
		out[i] = Descriptor{
			Name:         d.Name,
			Kind:         d.Kind,
			Capabilities: append([]string(nil), d.Capabilities...),
		}
	}
	return out
}
