package ports

import (
	"time"

	"github.com/alejandrodnm/bbfs/internal/domain"
)

// Metrics recibe los eventos observables del núcleo.
type Metrics interface {
	CacheHit(kind string)
	CacheMiss(kind string)
	BacktestRun(d time.Duration, transitions int)
	Refresh(status domain.RefreshStatus)
}

// NopMetrics descarta todo. Se usa cuando no hay recorder configurado.
type NopMetrics struct{}

func (NopMetrics) CacheHit(string)                {}
func (NopMetrics) CacheMiss(string)               {}
func (NopMetrics) BacktestRun(time.Duration, int) {}
func (NopMetrics) Refresh(domain.RefreshStatus)   {}
