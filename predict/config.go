package predict

import "github.com/oomph-ac/pmove/oerror"

// Config tunes prediction and reconciliation.
type Config struct {
	// Capacity is the most unacknowledged commands prediction will replay.
	Capacity int
	// TeleportThreshold is the prediction error, in units, above which a
	// correction is applied immediately instead of blended.
	TeleportThreshold float32
	// DecayMillis is how long a blended correction takes to fade out.
	DecayMillis uint32
}

func DefaultConfig() Config {
	return Config{
		Capacity:          64,
		TeleportThreshold: 256,
		DecayMillis:       100,
	}
}

func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return oerror.New("predict: capacity must be positive, got %d", c.Capacity)
	}
	if c.TeleportThreshold <= 0 {
		return oerror.New("predict: teleport threshold must be positive, got %v", c.TeleportThreshold)
	}
	return nil
}
