package domain

// Prediction es un set de candidatos generado para un sorteo.
type Prediction struct {
	Strategy  string
	Input2D   string
	Weekday   Weekday // día del sorteo que se predice
	Candidate CandidateSet

	// Presente cuando la predicción sale del último registro cargado.
	Basis *DrawRecord
}

// BBFS es la forma de mostrar el set de candidatos.
func (p Prediction) BBFS() string { return p.Candidate.String() }

// Report agrupa todos los análisis sobre una versión del Dataset. Es lo que
// imprime la consola después de un refresco.
type Report struct {
	Source        string
	Version       uint64
	Info          DataInfo
	Summary       PerformanceSummary
	TargetMaxLoss int
	Prediction    *Prediction

	Streak        StreakStatus
	Breakdown     StreakBreakdown
	Recent        []TransitionDetail
	RecentWinRate float64
	Refreshes     []RefreshRecord
}

// StreakStatus es la racha actual de pérdidas con su clasificación.
type StreakStatus struct {
	Length  int
	Status  Severity
	Details []LossDetail // la pérdida más reciente primero, como mucho la ventana pedida
}

// TargetMet indica si la peor racha histórica está dentro del objetivo.
func (r Report) TargetMet() bool { return r.Summary.WithinTarget(r.TargetMaxLoss) }

// RecentWinRate devuelve el porcentaje de aciertos sobre las transiciones dadas.
func RecentWinRate(recent []TransitionDetail) float64 {
	if len(recent) == 0 {
		return 0
	}
	wins := 0
	for _, t := range recent {
		if t.IsWin {
			wins++
		}
	}
	return float64(wins) / float64(len(recent)) * 100
}
