package ports

import (
	"context"

	"github.com/alejandrodnm/bbfs/internal/domain"
)

// Notifier presenta los resultados del análisis al usuario.
type Notifier interface {
	// NotifyReport muestra el reporte completo del Dataset cargado.
	// En la implementación de consola, imprime tablas formateadas.
	NotifyReport(ctx context.Context, report domain.Report) error

	// NotifyPrediction muestra un único set de candidatos.
	NotifyPrediction(ctx context.Context, p domain.Prediction) error
}
