package testkit

import (
	"math/rand/v2"
	"strconv"

	"paperkit/domain/table"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sample column names
const (
	ColumnGroup        = "group"
	ColumnMeasurement1 = "measurement_1"
	ColumnMeasurement2 = "measurement_2"
	ColumnTimePoint    = "time_point"
)

// SampleConfig configures the synthetic measurement generator
type SampleConfig struct {
	Size   int      `json:"size"`
	Seed   uint64   `json:"seed"`
	Groups []string `json:"groups"`

	// measurement_1 ~ N(Mean, StdDev)
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`

	// measurement_2 ~ LogNormal(LogMean, LogSigma)
	LogMean  float64 `json:"log_mean"`
	LogSigma float64 `json:"log_sigma"`
}

// DefaultSampleConfig returns the defaults used by the CLI and demo workflow
func DefaultSampleConfig() SampleConfig {
	return SampleConfig{
		Size:     100,
		Seed:     42,
		Groups:   []string{"A", "B", "C"},
		Mean:     10,
		StdDev:   2,
		LogMean:  2,
		LogSigma: 0.5,
	}
}

// SampleGenerator produces reproducible sample tables
type SampleGenerator struct {
	config SampleConfig
	rng    *rand.Rand
}

// NewSampleGenerator creates a generator seeded from config.Seed
func NewSampleGenerator(config SampleConfig) *SampleGenerator {
	if len(config.Groups) == 0 {
		config.Groups = DefaultSampleConfig().Groups
	}
	return &SampleGenerator{
		config: config,
		rng:    rand.New(rand.NewPCG(config.Seed, config.Seed)),
	}
}

// Generate draws config.Size rows of group, measurement_1, measurement_2
// and time_point
func (g *SampleGenerator) Generate() *table.Table {
	normal := distuv.Normal{Mu: g.config.Mean, Sigma: g.config.StdDev, Src: g.rng}
	lognormal := distuv.LogNormal{Mu: g.config.LogMean, Sigma: g.config.LogSigma, Src: g.rng}

	size := g.config.Size
	if size < 0 {
		size = 0
	}
	rows := make([][]string, size)
	for i := range rows {
		rows[i] = []string{
			g.config.Groups[g.rng.IntN(len(g.config.Groups))],
			formatFloat(normal.Rand()),
			formatFloat(lognormal.Rand()),
			strconv.Itoa(i),
		}
	}
	return table.New([]string{ColumnGroup, ColumnMeasurement1, ColumnMeasurement2, ColumnTimePoint}, rows)
}

// SampleData generates size rows with the default distributions
func SampleData(size int, seed uint64) *table.Table {
	cfg := DefaultSampleConfig()
	cfg.Size = size
	cfg.Seed = seed
	return NewSampleGenerator(cfg).Generate()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
