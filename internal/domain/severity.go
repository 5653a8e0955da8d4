package domain

import "fmt"

// Severity clasifica una racha de pérdidas por su largo. El orden importa:
// un valor mayor es una racha más larga y más riesgosa.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityCaution
	SeverityHigh
	SeverityCritical
	SeverityDanger
)

func (s Severity) String() string {
	switch s {
	case SeverityNormal:
		return "Normal"
	case SeverityCaution:
		return "Perhatian"
	case SeverityHigh:
		return "Tinggi"
	case SeverityCritical:
		return "Kritis"
	case SeverityDanger:
		return "Berbahaya"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalText hace que Severity aparezca por etiqueta en JSON y YAML.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SeverityThresholds tiene el largo mínimo de racha de cada categoría por
// encima de Normal. Los valores no pueden decrecer.
type SeverityThresholds struct {
	Caution  int `yaml:"caution"`
	High     int `yaml:"high"`
	Critical int `yaml:"critical"`
	Danger   int `yaml:"danger"`
}

// DefaultSeverityThresholds devuelve 4 / 6 / 8 / 10.
func DefaultSeverityThresholds() SeverityThresholds {
	return SeverityThresholds{Caution: 4, High: 6, Critical: 8, Danger: 10}
}

// Validate comprueba que los umbrales sean positivos y ordenados.
func (t SeverityThresholds) Validate() error {
	if t.Caution <= 0 || t.High < t.Caution || t.Critical < t.High || t.Danger < t.Critical {
		return fmt.Errorf("%w: severity thresholds must be positive and non-decreasing (got %d/%d/%d/%d)",
			ErrValidation, t.Caution, t.High, t.Critical, t.Danger)
	}
	return nil
}

// Classify devuelve la Severity de una racha del largo dado.
func (t SeverityThresholds) Classify(length int) Severity {
	switch {
	case length >= t.Danger:
		return SeverityDanger
	case length >= t.Critical:
		return SeverityCritical
	case length >= t.High:
		return SeverityHigh
	case length >= t.Caution:
		return SeverityCaution
	default:
		return SeverityNormal
	}
}
