package ports

import (
	"context"

	"github.com/alejandrodnm/bbfs/internal/domain"
)

// RefreshLog persiste los metadatos de cada intento de refresco.
// Nunca guarda el Dataset ni analíticas cacheadas.
type RefreshLog interface {
	// SaveRefresh registra un intento, exitoso o no.
	SaveRefresh(ctx context.Context, rec domain.RefreshRecord) error

	// RecentRefreshes devuelve los últimos intentos, el más reciente primero.
	RecentRefreshes(ctx context.Context, limit int) ([]domain.RefreshRecord, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
