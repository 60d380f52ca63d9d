package loadtest

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/scoring"
	"github.com/okian/matchday/internal/domain/types"
)

// Generator produces random rosters. The same seed yields the same rosters,
// participant IDs included.
type Generator struct {
	src   *rand.ChaCha8
	rng   *rand.Rand
	attrs []string
}

// NewGenerator creates a generator. Seed 0 derives one from the clock.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	var key [32]byte
	for i := 0; i < len(key); i += 8 {
		binary.LittleEndian.PutUint64(key[i:], seed+uint64(i))
	}
	src := rand.NewChaCha8(key)

	attrs := make([]string, 0, len(scoring.DefaultWeights()))
	for attr := range scoring.DefaultWeights() {
		attrs = append(attrs, attr)
	}
	// map order is random; fix it so the seed alone decides the output
	slices.Sort(attrs)

	return &Generator{src: src, rng: rand.New(src), attrs: attrs}
}

// Roster returns size participants. Each is inactive with probability
// inactivePct percent and rated on a random subset of the default
// attributes around a per-participant skill level.
func (g *Generator) Roster(size, inactivePct int) ([]model.Participant, error) {
	ps := make([]model.Participant, size)
	for i := range ps {
		id, err := uuid.NewRandomFromReader(g.src)
		if err != nil {
			return nil, fmt.Errorf("participant id: %w", err)
		}

		level := minRating + g.rng.Float64()*(maxRating-minRating)
		attrs := make(map[string]float64, len(g.attrs))
		for _, attr := range g.attrs {
			// leave some attributes unrated so the default value is exercised
			if g.rng.IntN(5) == 0 {
				continue
			}
			v := level + g.rng.NormFloat64()*1.5
			attrs[attr] = math.Round(clamp(v, minRating, maxRating)*10) / 10
		}

		ps[i] = model.Participant{
			ID:         id.String(),
			Name:       fmt.Sprintf("player-%d", i+1),
			Attributes: attrs,
			Active:     g.rng.IntN(percentageMultiplier) >= inactivePct,
		}
	}
	return ps, nil
}

// Requests builds cfg.Rosters plan requests with distinct seeds.
func (g *Generator) Requests(cfg *Config) ([]types.PlanRequest, error) {
	reqs := make([]types.PlanRequest, cfg.Rosters)
	for i := range reqs {
		ps, err := g.Roster(cfg.RosterSize, cfg.InactivePct)
		if err != nil {
			return nil, err
		}
		reqs[i] = types.PlanRequest{
			GroupSize:    cfg.GroupSize,
			Seed:         int64(g.rng.Uint64() >> 1),
			Participants: ps,
		}
	}
	return reqs, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
