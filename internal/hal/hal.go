// Package hal is the hardware abstraction layer: a service locator owning
// one instance of each capability implementation. Capabilities are exposed
// behind interface types so alternative backends can be substituted without
// touching callers.
//
// The locator is constructed once at startup and handed to every consumer;
// it never re-creates services per call. Compute, tensor, and emotion
// services are stateless and shared freely; the celestial store synchronizes
// its own access internally (see the celestial package).
package hal

import (
	"context"
	"fmt"

	"github.com/mantisos/aios/internal/config"
	"github.com/mantisos/aios/internal/ctxlog"
	"github.com/mantisos/aios/internal/hal/celestial"
	"github.com/mantisos/aios/internal/hal/compute"
	"github.com/mantisos/aios/internal/hal/emotion"
	"github.com/mantisos/aios/internal/hal/tensor"
)

// Locator provides process-wide access to the HAL capabilities.
type Locator struct {
	Compute   compute.Service
	Tensor    tensor.Ops
	Emotion   emotion.Analyzer
	Celestial celestial.Store
}

// New constructs a locator with the reference implementation of each
// capability. The compute inventory comes from the configured device blocks;
// with none declared, the host CPU is enumerated.
func New(ctx context.Context, devices []config.Device) (*Locator, error) {
	logger := ctxlog.FromContext(ctx)

	descriptors := make([]compute.Descriptor, 0, len(devices))
	for _, dev := range devices {
		kind, err := compute.ParseKind(dev.Kind)
		if err != nil {
			return nil, fmt.Errorf("device %q: %w", dev.Name, err)
		}
		descriptors = append(descriptors, compute.Descriptor{
			Name:         dev.Name,
			Kind:         kind,
			Capabilities: dev.Capabilities,
		})
	}
	if len(descriptors) == 0 {
		descriptors = append(descriptors, compute.HostDescriptor())
	}
	logger.Debug("HAL services initialized.", "devices", len(descriptors))

	return &Locator{
		Compute:   compute.NewStaticService(descriptors...),
		Tensor:    tensor.NewCPU(),
		Emotion:   emotion.NewLexiconAnalyzer(),
		Celestial: celestial.NewMemoryStore(),
	}, nil
}
