package priority

import "github.com/rs/zerolog"

// DefaultMaximumStreams is the safety ceiling applied by DefaultTreeConfig.
// It bounds memory against a peer that opens streams without ever closing
// them.
const DefaultMaximumStreams = 1000

// MinWeight and MaxWeight bound the legal range for a stream's weight.
const (
	MinWeight = 1
	MaxWeight = 256

	// DefaultWeight is applied when StreamOptions.Weight is left nil.
	DefaultWeight = 16
)

// TreeConfig configures a Tree at construction time.
type TreeConfig struct {
	// MaximumStreams is the hard upper bound on user-stream count.
	// Insertion fails with ErrTooManyStreams once the cap would be
	// exceeded. Must be a positive integer.
	MaximumStreams int

	// Logger, if set, receives Debug()-level events for every mutation
	// (insert, reprioritize, remove, block, unblock, splice, deadlock).
	// Nil by default: this package performs no logging unless a caller
	// opts in.
	Logger *zerolog.Logger
}

// DefaultTreeConfig returns a configuration with a cap of 1000 user
// streams and no logger. Pass this to NewTree directly, or copy and
// adjust MaximumStreams/Logger as needed.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{MaximumStreams: DefaultMaximumStreams}
}

// Validate checks that the configuration is usable, returning
// ErrBadTreeConfig if not.
func (c TreeConfig) Validate() error {
	if c.MaximumStreams <= 0 {
		return newError(ErrBadTreeConfig, 0)
	}
	return nil
}

func (c TreeConfig) logger() *zerolog.Logger {
	if c.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return c.Logger
}

// StreamOptions are the per-stream knobs recognized by InsertStream and
// Reprioritize.
type StreamOptions struct {
	// DependsOn is the parent stream id. Nil (or, for InsertStream only,
	// an id absent from the tree) is treated as the root.
	DependsOn *uint32

	// Weight is the relative share among siblings, in [1,256]. Nil means
	// unset and resolves to DefaultWeight; an explicit value, including
	// an explicit zero, is validated as given and rejected if out of range.
	Weight *int

	// Exclusive reparents the designated parent's existing children
	// under the new/reprioritized stream before attachment.
	Exclusive bool
}

func (o StreamOptions) weightOrDefault() int {
	if o.Weight == nil {
		return DefaultWeight
	}
	return *o.Weight
}

func (o StreamOptions) dependsOnOrRoot() uint32 {
	if o.DependsOn == nil {
		return 0
	}
	return *o.DependsOn
}
