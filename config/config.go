// Package config loads the bot and self-play settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brensch/overdrive/executor/search"
	"github.com/brensch/overdrive/rules"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Track    Track    `yaml:"track"`
	Search   Search   `yaml:"search"`
	Weights  Weights  `yaml:"weights"`
	Ensemble Ensemble `yaml:"ensemble"`
	Rules    Rules    `yaml:"rules"`
	Log      Log      `yaml:"log"`
	SelfPlay SelfPlay `yaml:"selfplay"`
}

type Track struct {
	Length int `yaml:"length"`
	Lanes  int `yaml:"lanes"`
}

// Tier applies to speeds strictly below BelowSpeed.
type Tier struct {
	BelowSpeed int `yaml:"below_speed"`
	Depth      int `yaml:"depth"`
	OppDepth   int `yaml:"opp_depth"`
}

type Search struct {
	Tiers           []Tier `yaml:"tiers"`
	DefaultDepth    int    `yaml:"default_depth"`
	DefaultOppDepth int    `yaml:"default_opp_depth"`
}

// Weights holds weight file paths. Empty paths use search.DefaultWeights,
// and an empty Opponent reuses Self.
type Weights struct {
	Self     string `yaml:"self"`
	Opponent string `yaml:"opponent"`
}

type Ensemble struct {
	Enabled bool      `yaml:"enabled"`
	Grid    []float64 `yaml:"grid"`
}

type Rules struct {
	LizardTie string `yaml:"lizard_tie"`
}

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type SelfPlay struct {
	Matches    int    `yaml:"matches"`
	Workers    int    `yaml:"workers"`
	MaxRounds  int    `yaml:"max_rounds"`
	Seed       int64  `yaml:"seed"`
	OutDir     string `yaml:"out_dir"`
	ViewBehind int    `yaml:"view_behind"`
	ViewAhead  int    `yaml:"view_ahead"`
	FlipLanes  bool   `yaml:"flip_lanes"`
}

func Default() Config {
	return Config{
		Track: Track{Length: 1500, Lanes: 4},
		Search: Search{
			Tiers: []Tier{
				{BelowSpeed: 5, Depth: 4, OppDepth: 0},
				{BelowSpeed: 8, Depth: 3, OppDepth: 2},
			},
			DefaultDepth:    3,
			DefaultOppDepth: 3,
		},
		Ensemble: Ensemble{Enabled: true, Grid: append([]float64(nil), search.DefaultGrid...)},
		Rules:    Rules{LizardTie: rules.TieMerge.String()},
		Log:      Log{Level: "info"},
		SelfPlay: SelfPlay{
			Matches:    16,
			Workers:    4,
			MaxRounds:  800,
			Seed:       1,
			OutDir:     "selfplay",
			ViewBehind: 5,
			ViewAhead:  20,
			FlipLanes:  true,
		},
	}
}

// Load reads path on top of Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalid, field, fmt.Sprintf(format, args...))
}

func (c Config) Validate() error {
	if c.Track.Length < 1 {
		return invalid("track.length", "must be positive, got %d", c.Track.Length)
	}
	if c.Track.Lanes < 1 {
		return invalid("track.lanes", "must be positive, got %d", c.Track.Lanes)
	}
	prev := -1
	for i, t := range c.Search.Tiers {
		if t.BelowSpeed <= prev {
			return invalid(fmt.Sprintf("search.tiers[%d]", i), "below_speed must increase")
		}
		if t.Depth < 1 || t.OppDepth < 0 {
			return invalid(fmt.Sprintf("search.tiers[%d]", i), "depth %d, opp_depth %d", t.Depth, t.OppDepth)
		}
		prev = t.BelowSpeed
	}
	if c.Search.DefaultDepth < 1 || c.Search.DefaultOppDepth < 0 {
		return invalid("search.default_depth", "depth %d, opp_depth %d", c.Search.DefaultDepth, c.Search.DefaultOppDepth)
	}
	if c.Ensemble.Enabled && len(c.Ensemble.Grid) == 0 {
		return invalid("ensemble.grid", "empty")
	}
	if _, err := rules.ParseLizardTie(c.Rules.LizardTie); err != nil {
		return invalid("rules.lizard_tie", "%v", err)
	}
	if c.SelfPlay.Workers < 1 {
		return invalid("selfplay.workers", "must be positive, got %d", c.SelfPlay.Workers)
	}
	if c.SelfPlay.MaxRounds < 1 {
		return invalid("selfplay.max_rounds", "must be positive, got %d", c.SelfPlay.MaxRounds)
	}
	return nil
}

// Depths picks the search depth for our speed and the opponent's
// predictor depth.
func (s Search) Depths(speed int) (depth, oppDepth int) {
	for _, t := range s.Tiers {
		if speed < t.BelowSpeed {
			return t.Depth, t.OppDepth
		}
	}
	return s.DefaultDepth, s.DefaultOppDepth
}

// RuleSettings converts the rules section. Validate has already checked it.
func (c Config) RuleSettings() rules.Settings {
	tie, err := rules.ParseLizardTie(c.Rules.LizardTie)
	if err != nil {
		return rules.DefaultSettings
	}
	return rules.Settings{LizardTie: tie}
}

// LoadWeights resolves the self and opponent weight vectors.
func (c Config) LoadWeights() (self, opp search.Weights, err error) {
	self = search.DefaultWeights
	if c.Weights.Self != "" {
		if self, err = search.LoadWeights(c.Weights.Self); err != nil {
			return self, opp, err
		}
	}
	opp = self
	if c.Weights.Opponent != "" {
		if opp, err = search.LoadWeights(c.Weights.Opponent); err != nil {
			return self, opp, err
		}
	}
	return self, opp, nil
}
