package domain

import (
	"fmt"
	"time"
)

// DrawRecord representa un sorteo publicado. Es un valor: una vez construido
// no se modifica; un refresco reemplaza el Dataset entero.
type DrawRecord struct {
	Date    time.Time // fecha de calendario, medianoche UTC
	Weekday Weekday
	Result  string // dígitos decimales de largo fijo, p. ej. "4821"
}

// NewDrawRecord valida y construye un DrawRecord.
// Si weekdayLabel está vacío se deriva de la fecha.
func NewDrawRecord(date time.Time, weekdayLabel, result string) (DrawRecord, error) {
	if date.IsZero() {
		return DrawRecord{}, fmt.Errorf("%w: draw without date", ErrValidation)
	}
	if err := validateResult(result); err != nil {
		return DrawRecord{}, err
	}

	day := dateOnly(date)
	weekday := WeekdayOf(day)
	if weekdayLabel != "" {
		w, err := ParseWeekday(weekdayLabel)
		if err != nil {
			return DrawRecord{}, err
		}
		weekday = w
	}

	return DrawRecord{Date: day, Weekday: weekday, Result: result}, nil
}

// Suffix2 devuelve los dos últimos dígitos del resultado: lo que se predice.
func (r DrawRecord) Suffix2() string {
	if len(r.Result) < 2 {
		return ""
	}
	return r.Result[len(r.Result)-2:]
}

func validateResult(result string) error {
	if len(result) < 2 {
		return fmt.Errorf("%w: result %q shorter than two digits", ErrValidation, result)
	}
	for i := 0; i < len(result); i++ {
		if result[i] < '0' || result[i] > '9' {
			return fmt.Errorf("%w: result %q contains non-digit", ErrValidation, result)
		}
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Dataset es el histórico ordenado de sorteos: fechas estrictamente
// crecientes, sin duplicados, todos los resultados del mismo largo. El valor
// cero es un Dataset vacío y válido.
type Dataset struct {
	records []DrawRecord
}

// NewDataset valida records y devuelve un Dataset con su propia copia.
func NewDataset(records []DrawRecord) (Dataset, error) {
	if len(records) == 0 {
		return Dataset{}, nil
	}

	width := len(records[0].Result)
	for i, r := range records {
		if err := validateResult(r.Result); err != nil {
			return Dataset{}, fmt.Errorf("%w: record %d: %w", ErrInvalidDataset, i, err)
		}
		if !r.Weekday.Valid() {
			return Dataset{}, fmt.Errorf("%w: record %d: invalid weekday %d", ErrInvalidDataset, i, int(r.Weekday))
		}
		if len(r.Result) != width {
			return Dataset{}, fmt.Errorf("%w: record %d: result %q has %d digits, want %d",
				ErrInvalidDataset, i, r.Result, len(r.Result), width)
		}
		if i > 0 && !r.Date.After(records[i-1].Date) {
			return Dataset{}, fmt.Errorf("%w: record %d: date %s not after %s",
				ErrInvalidDataset, i, r.Date.Format(time.DateOnly), records[i-1].Date.Format(time.DateOnly))
		}
	}

	cp := make([]DrawRecord, len(records))
	copy(cp, records)
	return Dataset{records: cp}, nil
}

// Len devuelve la cantidad de registros.
func (d Dataset) Len() int { return len(d.records) }

// At devuelve el registro i en orden cronológico.
func (d Dataset) At(i int) DrawRecord { return d.records[i] }

// Transitions devuelve cuántos pares (anterior, siguiente) tiene el histórico.
func (d Dataset) Transitions() int {
	if len(d.records) < 2 {
		return 0
	}
	return len(d.records) - 1
}

// Records devuelve una copia de los registros en orden cronológico.
func (d Dataset) Records() []DrawRecord {
	cp := make([]DrawRecord, len(d.records))
	copy(cp, d.records)
	return cp
}

// Latest devuelve hasta n registros, el más reciente primero.
func (d Dataset) Latest(n int) []DrawRecord {
	if n <= 0 || len(d.records) == 0 {
		return nil
	}
	n = min(n, len(d.records))
	out := make([]DrawRecord, 0, n)
	for i := len(d.records) - 1; i >= len(d.records)-n; i-- {
		out = append(out, d.records[i])
	}
	return out
}

// First devuelve el registro más antiguo; false si el Dataset está vacío.
func (d Dataset) First() (DrawRecord, bool) {
	if len(d.records) == 0 {
		return DrawRecord{}, false
	}
	return d.records[0], true
}

// Last devuelve el registro más reciente; false si el Dataset está vacío.
func (d Dataset) Last() (DrawRecord, bool) {
	if len(d.records) == 0 {
		return DrawRecord{}, false
	}
	return d.records[len(d.records)-1], true
}

// DataInfo describe el histórico cargado.
type DataInfo struct {
	TotalRecords int
	Start        time.Time
	End          time.Time
}

// Info devuelve cantidad de registros y rango de fechas. Fechas cero si está vacío.
func (d Dataset) Info() DataInfo {
	if len(d.records) == 0 {
		return DataInfo{}
	}
	return DataInfo{
		TotalRecords: len(d.records),
		Start:        d.records[0].Date,
		End:          d.records[len(d.records)-1].Date,
	}
}
