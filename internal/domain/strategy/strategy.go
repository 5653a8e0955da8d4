package strategy

import (
	"fmt"
	"sort"

	"github.com/alejandrodnm/bbfs/internal/domain"
)

// Generator mapea un resultado previo de dos dígitos y el día del sorteo a
// predecir a un set de dígitos candidatos. Las implementaciones deben ser
// puras: las mismas entradas dan siempre el mismo set, y el único estado
// permitido es configuración estática fijada al construir.
type Generator interface {
	// Name devuelve el identificador de la estrategia usado en la configuración.
	Name() string

	// Size devuelve cuántos dígitos tiene cada set generado.
	Size() int

	// Generate devuelve el set de candidatos. Un input mal formado falla con
	// domain.ErrValidation en vez de producir un set degenerado.
	Generate(input2D string, weekday domain.Weekday) (domain.CandidateSet, error)
}

// GenerateLabel parsea weekdayLabel y llama a g.Generate.
func GenerateLabel(g Generator, input2D, weekdayLabel string) (domain.CandidateSet, error) {
	weekday, err := domain.ParseWeekday(weekdayLabel)
	if err != nil {
		return 0, err
	}
	return g.Generate(input2D, weekday)
}

// ParseInput2D valida un input de dos dígitos y devuelve sus dígitos.
func ParseInput2D(input2D string) (a, b int, err error) {
	if len(input2D) != 2 ||
		input2D[0] < '0' || input2D[0] > '9' ||
		input2D[1] < '0' || input2D[1] > '9' {
		return 0, 0, fmt.Errorf("%w: input %q must be exactly two digits", domain.ErrValidation, input2D)
	}
	return int(input2D[0] - '0'), int(input2D[1] - '0'), nil
}

func validateCall(input2D string, weekday domain.Weekday) (a, b int, err error) {
	if !weekday.Valid() {
		return 0, 0, fmt.Errorf("%w: unrecognized weekday %d", domain.ErrValidation, int(weekday))
	}
	return ParseInput2D(input2D)
}

// Config selecciona y parametriza una estrategia.
type Config struct {
	Name        string
	Size        int
	FixedDigits []int        // lo usa la estrategia fixed
	Weights     *WeightTable // nil = tabla incluida
}

// Factory construye un Generator desde la configuración.
type Factory func(cfg Config) (Generator, error)

// Registry contiene las estrategias disponibles indexadas por nombre.
type Registry map[string]Factory

// NewRegistry devuelve un registry con las estrategias incluidas.
func NewRegistry() Registry {
	r := make(Registry)
	r.Register(NameWeekdayFrequency, func(cfg Config) (Generator, error) {
		weights := DefaultWeights()
		if cfg.Weights != nil {
			weights = *cfg.Weights
		}
		return NewWeekdayFrequency(WeekdayFrequencyConfig{Size: cfg.Size, Weights: weights})
	})
	r.Register(NameFixed, func(cfg Config) (Generator, error) {
		return NewFixed(cfg.FixedDigits...)
	})
	return r
}

// Register agrega o reemplaza una factory de estrategia.
func (r Registry) Register(name string, f Factory) {
	r[name] = f
}

// Build crea la estrategia de nombre cfg.Name.
func (r Registry) Build(cfg Config) (Generator, error) {
	f, ok := r[cfg.Name]
	if !ok {
		return nil, fmt.Errorf("strategy.Build: %q is not a known strategy (have %v)", cfg.Name, r.Names())
	}
	g, err := f(cfg)
	if err != nil {
		return nil, fmt.Errorf("strategy.Build %s: %w", cfg.Name, err)
	}
	return g, nil
}

// Names devuelve los nombres registrados, ordenados.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func validateSize(size int) error {
	if size < 1 || size > 10 {
		return fmt.Errorf("%w: candidate size %d must be between 1 and 10", domain.ErrValidation, size)
	}
	return nil
}
