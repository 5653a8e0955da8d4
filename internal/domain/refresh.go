package domain

import "time"

// RefreshStatus es el resultado de un intento de ingesta.
type RefreshStatus string

const (
	RefreshOK          RefreshStatus = "ok"
	RefreshFailed      RefreshStatus = "failed"      // el feed devolvió un error
	RefreshUnavailable RefreshStatus = "unavailable" // el feed respondió con muy pocos registros
)

// RefreshRecord es la entrada de auditoría de un intento de ingesta. Solo
// guarda metadatos, nunca los sorteos.
type RefreshRecord struct {
	ID         string
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Records    int
	Version    uint64 // versión instalada por este refresco, 0 si ninguna
	Status     RefreshStatus
	Error      string
}

// Duration devuelve cuánto tardó el intento.
func (r RefreshRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
