package sniffer

import (
	"context"

	"github.com/lcalzada-xor/probesentinel/internal/core/ports"
)

// MockSource replays a fixed slice of RawFrames, in order, for local
// testing and demos without a monitor-mode radio.
type MockSource struct {
	Fixtures []ports.RawFrame
}

func (m *MockSource) Frames(ctx context.Context) (<-chan ports.RawFrame, error) {
	out := make(chan ports.RawFrame, len(m.Fixtures))
	go func() {
		defer close(out)
		for _, f := range m.Fixtures {
			select {
			case out <- f:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (m *MockSource) Close() error { return nil }
