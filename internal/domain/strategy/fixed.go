package strategy

import (
	"fmt"

	"github.com/alejandrodnm/bbfs/internal/domain"
)

// NameFixed identifica la estrategia Fixed.
const NameFixed = "fixed"

// Fixed devuelve siempre el mismo set. Es la base contra la que se comparan
// las demás estrategias y lo que usan los tests para fijar outcomes.
type Fixed struct {
	set domain.CandidateSet
}

// NewFixed construye la estrategia con los dígitos dados.
func NewFixed(digits ...int) (*Fixed, error) {
	set, err := domain.NewCandidateSet(digits...)
	if err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("%w: fixed strategy needs at least one digit", domain.ErrValidation)
	}
	return &Fixed{set: set}, nil
}

func (f *Fixed) Name() string { return NameFixed }

func (f *Fixed) Size() int { return f.set.Len() }

// Generate valida el input como cualquier estrategia y devuelve el set.
func (f *Fixed) Generate(input2D string, weekday domain.Weekday) (domain.CandidateSet, error) {
	if _, _, err := validateCall(input2D, weekday); err != nil {
		return 0, err
	}
	return f.set, nil
}
