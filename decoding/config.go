// Package decoding implements the map-matching logic that turns an
// already-decoded OpenLR location reference into a location on a concrete
// target map: candidate generation, scoring, the recursive tail matcher,
// and the line/point-along-line/POI assemblers.
package decoding

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/beetlebugorg/openlr"
)

// DefaultFOWStandInScore is the default FOW-comparison stand-in matrix,
// indexed [lrp fow][candidate fow]. Values are adopted from the OpenLR
// Java reference implementation, as the original Python decoder this
// package is derived from also notes.
var DefaultFOWStandInScore = [8][8]float64{
	{0.50, 0.50, 0.50, 0.50, 0.50, 0.50, 0.50, 0.50}, // Undefined
	{0.50, 1.00, 0.75, 0.00, 0.00, 0.00, 0.00, 0.00}, // Motorway
	{0.50, 0.75, 1.00, 0.75, 0.50, 0.00, 0.00, 0.00}, // MultipleCarriageway
	{0.50, 0.00, 0.75, 1.00, 0.50, 0.50, 0.00, 0.00}, // SingleCarriageway
	{0.50, 0.00, 0.50, 0.50, 1.00, 0.50, 0.00, 0.00}, // Roundabout
	{0.50, 0.00, 0.00, 0.50, 0.50, 1.00, 0.00, 0.00}, // TrafficSquare
	{0.50, 0.00, 0.00, 0.00, 0.00, 0.00, 1.00, 0.00}, // Sliproad
	{0.50, 0.00, 0.00, 0.00, 0.00, 0.00, 0.00, 1.00}, // Other
}

// Config carries every tunable of the decoding process. It is read-only
// once passed into Decode.
type Config struct {
	// SearchRadius is the spatial-query radius per LRP, in meters, and the
	// denominator of the geo score.
	SearchRadius float64 `mapstructure:"search_radius" validate:"gt=0"`
	// MaxDNPDeviation is the relative tolerance on segment length versus
	// the expected distance to next point.
	MaxDNPDeviation float64 `mapstructure:"max_dnp_deviation" validate:"gte=0"`
	// ToleratedDNPDev is an additional absolute tolerance, in meters, on
	// segment length versus DNP.
	ToleratedDNPDev float64 `mapstructure:"tolerated_dnp_dev" validate:"gte=0"`
	// MinScore is the minimum candidate score to be considered.
	MinScore float64 `mapstructure:"min_score" validate:"gte=0,lte=1"`
	// ToleratedLFRC maps an LRP's LowestFRCToNextPoint to the lowest
	// allowed edge FRC on the route to the next point.
	ToleratedLFRC map[openlr.FRC]openlr.FRC `mapstructure:"-"`
	// CandidateThreshold is the junction-snap distance, in meters.
	CandidateThreshold float64 `mapstructure:"candidate_threshold" validate:"gte=0"`
	// MaxBearDeviation is the bearing pre-filter threshold, in degrees.
	MaxBearDeviation float64 `mapstructure:"max_bear_deviation" validate:"gte=0,lte=180"`

	// FOWWeight, FRCWeight, GeoWeight, BearWeight are the score weights;
	// they must sum to 1.
	FOWWeight  float64 `mapstructure:"fow_weight" validate:"gte=0,lte=1"`
	FRCWeight  float64 `mapstructure:"frc_weight" validate:"gte=0,lte=1"`
	GeoWeight  float64 `mapstructure:"geo_weight" validate:"gte=0,lte=1"`
	BearWeight float64 `mapstructure:"bear_weight" validate:"gte=0,lte=1"`

	// FOWStandInScore is the stand-in matrix for FOW comparison, indexed
	// [lrp.FOW][candidate.FOW].
	FOWStandInScore [8][8]float64 `mapstructure:"-"`
	// BearDist is the span, in meters, over which a candidate's bearing
	// is measured.
	BearDist float64 `mapstructure:"bear_dist" validate:"gt=0"`

	// EqualArea selects the equal-area planar kernel instead of the
	// default WGS-84 geodesic kernel.
	EqualArea bool `mapstructure:"equal_area"`
	// Timeout is the decode wall-clock budget, in seconds. Zero means a
	// decode must complete essentially immediately — any non-trivial
	// decode will fail with ErrTimeout.
	Timeout float64 `mapstructure:"timeout" validate:"gte=0"`
}

// DefaultConfig returns the package's recommended settings.
func DefaultConfig() Config {
	lfrc := make(map[openlr.FRC]openlr.FRC, 8)
	for f := openlr.FRC0; f <= openlr.FRC7; f++ {
		lfrc[f] = f
	}
	return Config{
		SearchRadius:       100.0,
		MaxDNPDeviation:    0.3,
		ToleratedDNPDev:    30.0,
		MinScore:           0.3,
		ToleratedLFRC:      lfrc,
		CandidateThreshold: 20.0,
		MaxBearDeviation:   90.0,
		FOWWeight:          0.25,
		FRCWeight:          0.25,
		GeoWeight:          0.25,
		BearWeight:         0.25,
		FOWStandInScore:    DefaultFOWStandInScore,
		BearDist:           20.0,
		EqualArea:          false,
		Timeout:            30.0,
	}
}

// Validate checks field-level sanity beyond what struct tags express:
// that the four score weights sum to 1.
func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	sum := c.FOWWeight + c.FRCWeight + c.GeoWeight + c.BearWeight
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("invalid config: score weights must sum to 1, got %v", sum)
	}
	return nil
}

// Load reads a Config from a textual key=value/YAML file at path, starting
// from DefaultConfig and overriding whatever keys are present.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config from %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as a flat key=value dictionary to path. ToleratedLFRC and
// FOWStandInScore are not round-tripped through this format — a caller
// relying on non-default values for either should keep constructing Config
// in code rather than via Load/Save.
func Save(cfg Config, path string) error {
	v := viper.New()
	v.Set("search_radius", cfg.SearchRadius)
	v.Set("max_dnp_deviation", cfg.MaxDNPDeviation)
	v.Set("tolerated_dnp_dev", cfg.ToleratedDNPDev)
	v.Set("min_score", cfg.MinScore)
	v.Set("candidate_threshold", cfg.CandidateThreshold)
	v.Set("max_bear_deviation", cfg.MaxBearDeviation)
	v.Set("fow_weight", cfg.FOWWeight)
	v.Set("frc_weight", cfg.FRCWeight)
	v.Set("geo_weight", cfg.GeoWeight)
	v.Set("bear_weight", cfg.BearWeight)
	v.Set("bear_dist", cfg.BearDist)
	v.Set("equal_area", cfg.EqualArea)
	v.Set("timeout", cfg.Timeout)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("saving config to %s: %w", path, err)
	}
	return nil
}
