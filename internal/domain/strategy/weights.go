package strategy

import (
	"fmt"
	"os"

	"github.com/alejandrodnm/bbfs/internal/domain"
	"gopkg.in/yaml.v3"
)

// WeightTable es la tabla de dígitos por día que usa WeekdayFrequency.
// Fila w, columna d es la frecuencia relativa del dígito d en las dos últimas
// posiciones de los sorteos del día w. La tabla es estática: cambiarla
// implica publicar una Version nueva.
type WeightTable struct {
	Version string
	Rows    [7][10]float64
}

// builtinVersion etiqueta DefaultWeights.
const builtinVersion = "wf-2024.1"

// DefaultWeights devuelve la tabla incluida.
func DefaultWeights() WeightTable {
	return WeightTable{
		Version: builtinVersion,
		Rows: [7][10]float64{
			domain.Minggu: {0.101, 0.097, 0.104, 0.095, 0.099, 0.106, 0.093, 0.102, 0.098, 0.105},
			domain.Senin:  {0.098, 0.105, 0.094, 0.103, 0.100, 0.096, 0.107, 0.099, 0.101, 0.097},
			domain.Selasa: {0.104, 0.096, 0.101, 0.098, 0.107, 0.094, 0.100, 0.103, 0.095, 0.102},
			domain.Rabu:   {0.095, 0.102, 0.099, 0.106, 0.093, 0.104, 0.098, 0.097, 0.105, 0.101},
			domain.Kamis:  {0.100, 0.099, 0.106, 0.094, 0.102, 0.098, 0.103, 0.096, 0.097, 0.105},
			domain.Jumat:  {0.106, 0.094, 0.098, 0.101, 0.097, 0.103, 0.095, 0.105, 0.102, 0.099},
			domain.Sabtu:  {0.097, 0.103, 0.100, 0.099, 0.105, 0.095, 0.102, 0.094, 0.106, 0.099},
		},
	}
}

// weightFile es el formato YAML de una tabla de pesos:
//
//	version: wf-custom
//	weights:
//	  Senin: [0.1, 0.1, ...]   # diez valores, dígitos 0..9
type weightFile struct {
	Version string               `yaml:"version"`
	Weights map[string][]float64 `yaml:"weights"`
}

// LoadWeights lee una tabla de pesos de un archivo YAML.
// Cada día debe estar con exactamente diez valores no negativos.
func LoadWeights(path string) (WeightTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return WeightTable{}, fmt.Errorf("strategy.LoadWeights: read %q: %w", path, err)
	}
	return ParseWeights(data)
}

// ParseWeights decodifica una tabla de pesos YAML.
func ParseWeights(data []byte) (WeightTable, error) {
	var f weightFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return WeightTable{}, fmt.Errorf("strategy.ParseWeights: parse YAML: %w", err)
	}
	if f.Version == "" {
		return WeightTable{}, fmt.Errorf("strategy.ParseWeights: %w: missing version", domain.ErrValidation)
	}

	table := WeightTable{Version: f.Version}
	seen := make(map[domain.Weekday]bool, 7)
	for label, values := range f.Weights {
		w, err := domain.ParseWeekday(label)
		if err != nil {
			return WeightTable{}, fmt.Errorf("strategy.ParseWeights: %w", err)
		}
		if seen[w] {
			return WeightTable{}, fmt.Errorf("strategy.ParseWeights: %w: %s listed twice", domain.ErrValidation, w)
		}
		if len(values) != 10 {
			return WeightTable{}, fmt.Errorf("strategy.ParseWeights: %w: %s has %d values, want 10",
				domain.ErrValidation, w, len(values))
		}
		for d, v := range values {
			if v < 0 {
				return WeightTable{}, fmt.Errorf("strategy.ParseWeights: %w: %s digit %d is negative",
					domain.ErrValidation, w, d)
			}
			table.Rows[w][d] = v
		}
		seen[w] = true
	}
	if len(seen) != 7 {
		return WeightTable{}, fmt.Errorf("strategy.ParseWeights: %w: %d of 7 weekdays defined",
			domain.ErrValidation, len(seen))
	}
	return table, nil
}
