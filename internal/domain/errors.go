package domain

import "errors"

var (
	// ErrValidation marca input que el caller puede corregir: un 2D mal
	// formado, un día desconocido o un resultado que no son dígitos.
	ErrValidation = errors.New("validation error")

	// ErrInvalidDataset se devuelve cuando los registros rompen las reglas
	// del Dataset (fechas estrictamente crecientes, mismo largo de resultado).
	ErrInvalidDataset = errors.New("invalid dataset")

	// ErrDataUnavailable lo devuelve la ingesta cuando el feed falló o trajo
	// menos registros de los que necesita un backtest.
	ErrDataUnavailable = errors.New("data unavailable")
)
