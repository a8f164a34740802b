package sniffer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/probesentinel/internal/core/ports"
)

func TestMockSource_ReplaysFixturesInOrder(t *testing.T) {
	src := &MockSource{Fixtures: []ports.RawFrame{
		{ChannelFrequency: 2412},
		{ChannelFrequency: 2437},
	}}

	frames, err := src.Frames(context.Background())
	require.NoError(t, err)

	first := <-frames
	second := <-frames
	_, open := <-frames

	require.Equal(t, 2412, first.ChannelFrequency)
	require.Equal(t, 2437, second.ChannelFrequency)
	require.False(t, open)
}
