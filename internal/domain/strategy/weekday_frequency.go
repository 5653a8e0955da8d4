package strategy

import (
	"sort"

	"github.com/alejandrodnm/bbfs/internal/domain"
)

// NameWeekdayFrequency identifica la estrategia WeekdayFrequency.
const NameWeekdayFrequency = "weekday_frequency"

// DefaultSize es la cantidad de dígitos elegidos si no se configura.
const DefaultSize = 7

// Bonus de score sobre el peso del día. Cada bonus supera cualquier peso de
// la tabla, así los dígitos del input, sus pares de índice y la suma quedan
// siempre por encima de los que ordena solo la tabla.
const (
	inputBonus   = 1.0
	partnerBonus = 0.6
	sumBonus     = 0.4
)

// WeekdayFrequencyConfig configura la estrategia.
type WeekdayFrequencyConfig struct {
	Size    int
	Weights WeightTable
}

// WeekdayFrequency ordena los diez dígitos por
//
//	score(d) = weight[weekday][d]
//	         + 1.0 × apariciones de d en el input
//	         + 0.6 × apariciones de d como par de índice ((x+5) mod 10) de un dígito del input
//	         + 0.4 × [d == (a+b) mod 10]
//
// y se queda con los Size primeros. En empate gana el dígito menor.
type WeekdayFrequency struct {
	size    int
	weights WeightTable
}

// NewWeekdayFrequency construye la estrategia. Size 0 significa DefaultSize.
func NewWeekdayFrequency(cfg WeekdayFrequencyConfig) (*WeekdayFrequency, error) {
	if cfg.Size == 0 {
		cfg.Size = DefaultSize
	}
	if err := validateSize(cfg.Size); err != nil {
		return nil, err
	}
	return &WeekdayFrequency{size: cfg.Size, weights: cfg.Weights}, nil
}

func (s *WeekdayFrequency) Name() string { return NameWeekdayFrequency }

func (s *WeekdayFrequency) Size() int { return s.size }

// Version devuelve la versión de la tabla de pesos en uso.
func (s *WeekdayFrequency) Version() string { return s.weights.Version }

// Generate implementa Generator.
func (s *WeekdayFrequency) Generate(input2D string, weekday domain.Weekday) (domain.CandidateSet, error) {
	a, b, err := validateCall(input2D, weekday)
	if err != nil {
		return 0, err
	}

	var scores [10]float64
	for d := range scores {
		scores[d] = s.weights.Rows[weekday][d]
	}
	for _, x := range [2]int{a, b} {
		scores[x] += inputBonus
		scores[(x+5)%10] += partnerBonus
	}
	scores[(a+b)%10] += sumBonus

	ranked := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})

	return domain.NewCandidateSet(ranked[:s.size]...)
}
