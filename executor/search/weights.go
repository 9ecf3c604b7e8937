package search

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brensch/overdrive/game"
)

// Weights are the linear coefficients of the state score. Damage is
// subtracted, so a positive Damage weight penalizes taking damage.
type Weights struct {
	Pos       float64 `yaml:"pos" json:"pos"`
	Speed     float64 `yaml:"speed" json:"speed"`
	Boosts    float64 `yaml:"boosts" json:"boosts"`
	Oils      float64 `yaml:"oils" json:"oils"`
	Lizards   float64 `yaml:"lizards" json:"lizards"`
	Tweets    float64 `yaml:"tweets" json:"tweets"`
	EMPs      float64 `yaml:"emps" json:"emps"`
	Damage    float64 `yaml:"damage" json:"damage"`
	Score     float64 `yaml:"score" json:"score"`
	NextState float64 `yaml:"next_state" json:"next_state"`
}

// DefaultWeights favour distance and speed and avoid damage.
var DefaultWeights = Weights{
	Pos:       1,
	Speed:     1,
	Boosts:    4,
	Oils:      0.5,
	Lizards:   2,
	Tweets:    1,
	EMPs:      1,
	Damage:    3,
	Score:     0.1,
	NextState: 0.5,
}

// Rate rates the move from one player state to another.
func (w Weights) Rate(from, to game.Player) float64 {
	return w.Pos*float64(to.X-from.X) +
		w.Speed*float64(to.Speed) +
		w.Boosts*float64(to.Boosts-from.Boosts) +
		w.Oils*float64(to.Oils-from.Oils) +
		w.Lizards*float64(to.Lizards-from.Lizards) +
		w.Tweets*float64(to.Tweets-from.Tweets) +
		w.EMPs*float64(to.EMPs-from.EMPs) -
		w.Damage*float64(to.Damage-from.Damage) +
		w.Score*float64(to.Score-from.Score)
}

// LoadWeights reads a weights file. YAML and JSON are both accepted.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, fmt.Errorf("read weights %s: %w", path, err)
	}
	var w Weights
	if err := yaml.Unmarshal(data, &w); err != nil {
		return Weights{}, fmt.Errorf("parse weights %s: %w", path, err)
	}
	return w, nil
}
