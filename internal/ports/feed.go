package ports

import (
	"context"

	"github.com/alejandrodnm/bbfs/internal/domain"
)

// DrawFeed obtiene el histórico de sorteos publicado en una URL.
type DrawFeed interface {
	// FetchDraws descarga y parsea la fuente. Los registros vuelven
	// ordenados por fecha ascendente y sin fechas duplicadas.
	FetchDraws(ctx context.Context, url string) ([]domain.DrawRecord, error)
}
