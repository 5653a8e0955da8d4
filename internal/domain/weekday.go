package domain

import (
	"fmt"
	"strings"
	"time"
)

// Weekday es el día del sorteo. Los valores coinciden con time.Weekday (domingo = 0).
type Weekday int

const (
	Minggu Weekday = iota
	Senin
	Selasa
	Rabu
	Kamis
	Jumat
	Sabtu
)

var weekdayLabels = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

// weekdayAliases mapea cada etiqueta aceptada (en minúsculas) a su Weekday.
// El feed publica nombres en indonesio; también se aceptan en inglés.
var weekdayAliases = map[string]Weekday{
	"minggu": Minggu, "ahad": Minggu, "sunday": Minggu,
	"senin": Senin, "monday": Senin,
	"selasa": Selasa, "tuesday": Selasa,
	"rabu": Rabu, "wednesday": Rabu,
	"kamis": Kamis, "thursday": Kamis,
	"jumat": Jumat, "jum'at": Jumat, "friday": Jumat,
	"sabtu": Sabtu, "saturday": Sabtu,
}

// ParseWeekday resuelve una etiqueta de día. Una etiqueta desconocida es error de validación.
func ParseWeekday(label string) (Weekday, error) {
	w, ok := weekdayAliases[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return 0, fmt.Errorf("%w: unrecognized weekday %q", ErrValidation, label)
	}
	return w, nil
}

// WeekdayOf devuelve el Weekday de una fecha.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday())
}

// Valid indica si w es uno de los siete días.
func (w Weekday) Valid() bool {
	return w >= Minggu && w <= Sabtu
}

// Next devuelve el día siguiente.
func (w Weekday) Next() Weekday {
	return (w + 1) % 7
}

// String devuelve la etiqueta que usa el feed ("Senin", "Selasa", ...).
func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayLabels[w]
}

// MarshalText codifica el día por etiqueta.
func (w Weekday) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}
