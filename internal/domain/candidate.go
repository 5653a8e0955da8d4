package domain

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// CandidateSet es el BBFS: un set de dígitos decimales guardado como máscara de 10 bits.
type CandidateSet uint16

const fullSet CandidateSet = 1<<10 - 1

// NewCandidateSet construye un set con dígitos en 0..9. Se aceptan repetidos.
func NewCandidateSet(digits ...int) (CandidateSet, error) {
	var s CandidateSet
	for _, d := range digits {
		if d < 0 || d > 9 {
			return 0, fmt.Errorf("%w: digit %d out of range", ErrValidation, d)
		}
		s |= 1 << d
	}
	return s, nil
}

// Contains indica si el dígito d está en el set.
func (s CandidateSet) Contains(d int) bool {
	if d < 0 || d > 9 {
		return false
	}
	return s&(1<<d) != 0
}

// Len devuelve la cantidad de dígitos del set.
func (s CandidateSet) Len() int {
	return bits.OnesCount16(uint16(s & fullSet))
}

// Digits devuelve los miembros en orden ascendente.
func (s CandidateSet) Digits() []int {
	out := make([]int, 0, s.Len())
	for d := 0; d <= 9; d++ {
		if s.Contains(d) {
			out = append(out, d)
		}
	}
	return out
}

// Cover compara un sufijo de dos dígitos con el set. Devuelve los dígitos
// distintos del sufijo que no son miembros, en el orden del sufijo; el sufijo
// está cubierto cuando la lista queda vacía.
func (s CandidateSet) Cover(suffix2 string) []int {
	var missing []int
	seen := CandidateSet(0)
	for i := 0; i < len(suffix2); i++ {
		d := int(suffix2[i]) - '0'
		if d < 0 || d > 9 || s.Contains(d) || seen.Contains(d) {
			continue
		}
		seen |= 1 << d
		missing = append(missing, d)
	}
	return missing
}

// String renderiza el set tal como se muestra: "0 1 2 5 7 8".
func (s CandidateSet) String() string {
	parts := make([]string, 0, s.Len())
	for _, d := range s.Digits() {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, " ")
}

// MarshalJSON codifica el set como array de dígitos.
func (s CandidateSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Digits())
}
