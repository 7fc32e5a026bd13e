package food

import "fmt"

// Strategy selects how the food field is produced.
type Strategy uint8

const (
	// Clusters places soft gaussian blobs at random.
	Clusters Strategy = iota
	// Rings places concentric gaussian rings around one random center.
	Rings
	// Gradient is a linear ramp along a random direction.
	Gradient
	// Lattice places jittered blobs on a roughly even grid ("grid" in config).
	Lattice
	// Mixed sums two or three of Clusters, Rings, Gradient and Lattice.
	Mixed
	// Noise is fractal simplex noise.
	Noise
	// Veins is ridged Perlin turbulence.
	Veins
	// Image uses a caller-supplied field.
	Image

	numStrategies
)

var strategyNames = [numStrategies]string{
	Clusters: "clusters",
	Rings:    "rings",
	Gradient: "gradient",
	Lattice:  "grid",
	Mixed:    "mixed",
	Noise:    "noise",
	Veins:    "veins",
	Image:    "image",
}

// Strategies returns every strategy in declaration order.
func Strategies() []Strategy {
	out := make([]Strategy, numStrategies)
	for i := range out {
		out[i] = Strategy(i)
	}
	return out
}

// ParseStrategy converts a config name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

func (s Strategy) String() string {
	if s < numStrategies {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

// Procedural reports whether the strategy generates its own field.
func (s Strategy) Procedural() bool {
	return s < numStrategies && s != Image
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if s >= numStrategies {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, uint8(s))
	}
	return []byte(strategyNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	v, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
