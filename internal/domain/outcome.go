package domain

import (
	"slices"
	"time"
)

// Outcome es el resultado de una transición del backtest: el set generado a
// partir de Source se compara con el sufijo de Target.
type Outcome struct {
	Index     int // posición de Target en el Dataset (1..N-1)
	Source    DrawRecord
	Target    DrawRecord
	Candidate CandidateSet
	IsWin     bool
	Missing   []int // dígitos del sufijo de Target que Candidate no cubre
}

// Input2D es el valor de dos dígitos desde el que se generó el set.
func (o Outcome) Input2D() string { return o.Source.Suffix2() }

// Actual2D es el valor de dos dígitos que había que cubrir.
func (o Outcome) Actual2D() string { return o.Target.Suffix2() }

// CloneOutcomes copia outcomes incluyendo sus slices Missing.
func CloneOutcomes(outcomes []Outcome) []Outcome {
	if outcomes == nil {
		return nil
	}
	out := make([]Outcome, len(outcomes))
	for i, o := range outcomes {
		o.Missing = slices.Clone(o.Missing)
		out[i] = o
	}
	return out
}

// LossStreak es una racha maximal de outcomes perdedores consecutivos.
// Start y End son posiciones inclusivas en la secuencia.
type LossStreak struct {
	Start  int
	End    int
	Length int
}

// LossDetail describe una pérdida de la racha actual.
// LossNumber 1 es la pérdida más reciente.
type LossDetail struct {
	LossNumber   int
	SourceDate   time.Time
	TargetDate   time.Time
	Weekday      Weekday
	SourceResult string
	TargetResult string
	Input2D      string
	Actual2D     string
	Missing      []int
}

// TransitionDetail es la vista por fila de una transición reciente.
type TransitionDetail struct {
	Date         time.Time // fecha del sorteo objetivo
	Weekday      Weekday   // día del sorteo objetivo
	InputResult  string
	Input2D      string
	ActualResult string
	Actual2D     string
	Candidate    CandidateSet
	BBFS         string // Candidate renderizado para mostrar
	IsWin        bool
	Missing      []int
}
