package storage

// sqlite.go: histórico de refrescos.
//
// Una fila por intento de refresco, exitoso o no. Solo se guardan metadatos:
// los sorteos se vuelven a descargar de la fuente en cada arranque. Las filas
// con más de 30 días se podan al abrir la base de datos.

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/bbfs/internal/domain"
	"github.com/alejandrodnm/bbfs/internal/ports"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS refreshes (
    id          TEXT    PRIMARY KEY,
    source      TEXT    NOT NULL,
    started_at  INTEGER NOT NULL,  -- nanosegundos unix, UTC
    finished_at INTEGER NOT NULL,
    records     INTEGER NOT NULL DEFAULT 0,
    version     INTEGER NOT NULL DEFAULT 0,
    status      TEXT    NOT NULL,
    error       TEXT    NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_refreshes_started ON refreshes(started_at DESC);
`

const retention = 30 * 24 * time.Hour

var _ ports.RefreshLog = (*SQLiteRefreshLog)(nil)

// SQLiteRefreshLog implementa ports.RefreshLog sobre SQLite (Go puro, sin cgo).
type SQLiteRefreshLog struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRefreshLog abre (o crea) la base de datos en path, aplica el schema
// y poda las filas viejas. ":memory:" da un log desechable.
func NewSQLiteRefreshLog(path string) (*SQLiteRefreshLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteRefreshLog: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // un solo writer; además mantiene ":memory:" en una conexión
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteRefreshLog: apply schema: %w", err)
	}

	s := &SQLiteRefreshLog{db: db, now: time.Now}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveRefresh inserta rec. Guardar el mismo ID dos veces sobreescribe la fila.
func (s *SQLiteRefreshLog) SaveRefresh(ctx context.Context, rec domain.RefreshRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("storage.SaveRefresh: %w: refresh without id", domain.ErrValidation)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refreshes (id, source, started_at, finished_at, records, version, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source      = excluded.source,
			started_at  = excluded.started_at,
			finished_at = excluded.finished_at,
			records     = excluded.records,
			version     = excluded.version,
			status      = excluded.status,
			error       = excluded.error
	`,
		rec.ID,
		rec.Source,
		rec.StartedAt.UTC().UnixNano(),
		rec.FinishedAt.UTC().UnixNano(),
		rec.Records,
		int64(rec.Version),
		string(rec.Status),
		rec.Error,
	)
	if err != nil {
		return fmt.Errorf("storage.SaveRefresh: insert %s: %w", rec.ID, err)
	}
	return nil
}

// RecentRefreshes devuelve hasta limit intentos, el más reciente primero.
func (s *SQLiteRefreshLog) RecentRefreshes(ctx context.Context, limit int) ([]domain.RefreshRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, started_at, finished_at, records, version, status, error
		FROM refreshes
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentRefreshes: query: %w", err)
	}
	defer rows.Close()

	var recs []domain.RefreshRecord
	for rows.Next() {
		var (
			rec               domain.RefreshRecord
			started, finished int64
			version           int64
			status            string
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Source,
			&started,
			&finished,
			&rec.Records,
			&version,
			&status,
			&rec.Error,
		); err != nil {
			return nil, fmt.Errorf("storage.RecentRefreshes: scan row: %w", err)
		}
		rec.StartedAt = time.Unix(0, started).UTC()
		rec.FinishedAt = time.Unix(0, finished).UTC()
		rec.Version = uint64(version)
		rec.Status = domain.RefreshStatus(status)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Close cierra la base de datos.
func (s *SQLiteRefreshLog) Close() error {
	return s.db.Close()
}

// pruneOld elimina los intentos más viejos que la ventana de retención.
func (s *SQLiteRefreshLog) pruneOld(ctx context.Context) {
	cutoff := s.now().UTC().Add(-retention).UnixNano()
	res, err := s.db.ExecContext(ctx, `DELETE FROM refreshes WHERE started_at < ?`, cutoff)
	if err != nil {
		slog.Warn("refresh log prune failed", "err", err)
		return
	}
	if n, _ := res.RowsAffected(); n > 0 {
		slog.Debug("refresh log pruned", "rows", n)
	}
}
