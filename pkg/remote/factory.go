package remote

import (
	"context"
	"fmt"
	"sort"
)

// ChannelConstructor is a function that opens a channel
type ChannelConstructor func(ctx context.Context, cfg Config) (Channel, error)

var channelRegistry = make(map[string]ChannelConstructor)

// RegisterChannel registers a channel constructor
func RegisterChannel(channelType string, constructor ChannelConstructor) {
	channelRegistry[channelType] = constructor
}

// RegisteredTypes returns the registered transport types in sorted order
func RegisteredTypes() []string {
	types := make([]string, 0, len(channelRegistry))
	for t := range channelRegistry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Factory opens channels from configuration
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create opens a channel from config
func (f *Factory) Create(ctx context.Context, cfg Config) (Channel, error) {
	constructor, ok := channelRegistry[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unknown transport type %q (available: %v): %w", cfg.Type, RegisteredTypes(), ErrInvalidConfig)
	}

	return constructor(ctx, cfg)
}
