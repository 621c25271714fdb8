package customizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/lintang-b-s/cityroute/pkg"
	da "github.com/lintang-b-s/cityroute/pkg/datastructure"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

var (
	ErrNonPositiveLength  = errors.New("edge length must be positive")
	ErrInvalidFactorRange = errors.New("invalid randomization factor range")
)

// WeightRandomizer perturbs every edge cost by a factor drawn uniformly from [minFactor, maxFactor].
type WeightRandomizer struct {
	rng                  *rand.Rand
	minFactor, maxFactor float64
	log                  *zap.Logger
}

type RandomizationStats struct {
	NumberOfEdges int
	MinFactor     float64
	MaxFactor     float64
	MeanFactor    float64
}

func NewWeightRandomizer(src rand.Source, minFactor, maxFactor float64, log *zap.Logger) (*WeightRandomizer, error) {
	if minFactor <= 0 || maxFactor < minFactor {
		return nil, fmt.Errorf("%w: [%v, %v]", ErrInvalidFactorRange, minFactor, maxFactor)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &WeightRandomizer{
		rng:       rand.New(src),
		minFactor: minFactor,
		maxFactor: maxFactor,
		log:       log,
	}, nil
}

// NewDefaultWeightRandomizer uses [0.8, 1.2]. seed == 0 seeds from the clock, so weights differ every start.
func NewDefaultWeightRandomizer(seed uint64, log *zap.Logger) (*WeightRandomizer, error) {
	return NewWeightRandomizer(NewSource(seed), pkg.MIN_RANDOM_FACTOR, pkg.MAX_RANDOM_FACTOR, log)
}

func NewSource(seed uint64) rand.Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.NewSource(seed)
}

func (wr *WeightRandomizer) drawFactor() float64 {
	return wr.minFactor + wr.rng.Float64()*(wr.maxFactor-wr.minFactor)
}

// Randomize sets weight = originalLength * factor on every edge, once per loaded graph.
func (wr *WeightRandomizer) Randomize(g *da.Graph) (RandomizationStats, error) {
	stats := RandomizationStats{
		MinFactor: wr.maxFactor,
		MaxFactor: wr.minFactor,
	}
	sum := 0.0

	err := g.Customize(func(e *da.Edge) (float64, float64, error) {
		length := e.GetLength()
		if length <= 0 {
			return 0, 0, fmt.Errorf("%w: edge %d (%d->%d) has length %v", ErrNonPositiveLength,
				e.GetEdgeId(), e.GetTail(), e.GetHead(), length)
		}
		factor := wr.drawFactor()
		stats.MinFactor = min(stats.MinFactor, factor)
		stats.MaxFactor = max(stats.MaxFactor, factor)
		sum += factor
		stats.NumberOfEdges++
		return length * factor, factor, nil
	})
	if err != nil {
		return RandomizationStats{}, err
	}

	if stats.NumberOfEdges > 0 {
		stats.MeanFactor = sum / float64(stats.NumberOfEdges)
	}

	wr.log.Info("edge weights randomized",
		zap.Int("edges", stats.NumberOfEdges),
		zap.Float64("min_factor", stats.MinFactor),
		zap.Float64("max_factor", stats.MaxFactor),
		zap.Float64("mean_factor", stats.MeanFactor))
	return stats, nil
}
