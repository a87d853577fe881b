package core

// history.go records completed splits in PostgreSQL.
//
// History is optional. Without a database the service uses NopHistory and
// nothing is persisted. A failed write is logged by the service and never
// fails the split itself.

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the subset of pgx used by the history store.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// HistoryEntry describes one completed split.
type HistoryEntry struct {
	ID           string    `json:"id"`
	SourceName   string    `json:"sourceName"`
	Format       string    `json:"format"`
	PartCount    int       `json:"partCount"`
	DataRowCount int       `json:"dataRowCount"`
	TotalBytes   int64     `json:"totalBytes"`
	ArchiveName  string    `json:"archiveName"`
	IPAddress    string    `json:"ipAddress,omitempty"`
	UserAgent    string    `json:"userAgent,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HistoryStore persists split history.
type HistoryStore interface {
	Record(ctx context.Context, e HistoryEntry) error
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)
	Purge(ctx context.Context, olderThan time.Time) (int64, error)
}

// NopHistory discards every entry.
type NopHistory struct{}

func (NopHistory) Record(context.Context, HistoryEntry) error { return nil }

func (NopHistory) Recent(context.Context, int) ([]HistoryEntry, error) { return nil, nil }

func (NopHistory) Purge(context.Context, time.Time) (int64, error) { return 0, nil }

const historySchema = `
CREATE TABLE IF NOT EXISTS split_history (
	id             UUID PRIMARY KEY,
	source_name    TEXT NOT NULL,
	format         TEXT NOT NULL,
	part_count     INTEGER NOT NULL,
	data_row_count INTEGER NOT NULL,
	total_bytes    BIGINT NOT NULL,
	archive_name   TEXT NOT NULL,
	ip_address     TEXT,
	user_agent     TEXT,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS split_history_created_at_idx ON split_history (created_at DESC);
`

// PgHistory stores history in the split_history table.
type PgHistory struct {
	db DBTX
}

// NewPgHistory returns a store backed by db. Call EnsureSchema before use.
func NewPgHistory(db DBTX) *PgHistory {
	return &PgHistory{db: db}
}

// EnsureSchema creates the history table if it does not exist.
func (h *PgHistory) EnsureSchema(ctx context.Context) error {
	if _, err := h.db.Exec(ctx, historySchema); err != nil {
		return fmt.Errorf("create split_history: %w", err)
	}
	return nil
}

func (h *PgHistory) Record(ctx context.Context, e HistoryEntry) error {
	id, err := uuid.Parse(e.ID)
	if err != nil {
		return fmt.Errorf("history id: %w", err)
	}

	_, err = h.db.Exec(ctx, `
		INSERT INTO split_history
			(id, source_name, format, part_count, data_row_count, total_bytes, archive_name, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		pgtype.UUID{Bytes: id, Valid: true},
		e.SourceName,
		e.Format,
		e.PartCount,
		e.DataRowCount,
		e.TotalBytes,
		e.ArchiveName,
		pgtype.Text{String: e.IPAddress, Valid: e.IPAddress != ""},
		pgtype.Text{String: e.UserAgent, Valid: e.UserAgent != ""},
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert split_history: %w", err)
	}
	return nil
}

func (h *PgHistory) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := h.db.Query(ctx, `
		SELECT id, source_name, format, part_count, data_row_count, total_bytes,
		       archive_name, ip_address, user_agent, created_at
		FROM split_history
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query split_history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var (
			e      HistoryEntry
			id     pgtype.UUID
			ip, ua pgtype.Text
		)
		if err := rows.Scan(&id, &e.SourceName, &e.Format, &e.PartCount, &e.DataRowCount,
			&e.TotalBytes, &e.ArchiveName, &ip, &ua, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan split_history: %w", err)
		}
		e.ID = uuid.UUID(id.Bytes).String()
		e.IPAddress = ip.String
		e.UserAgent = ua.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (h *PgHistory) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := h.db.Exec(ctx, `DELETE FROM split_history WHERE created_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("purge split_history: %w", err)
	}
	return tag.RowsAffected(), nil
}

// newHistoryEntry builds the history record for a finished split.
func newHistoryEntry(ctx context.Context, r *SplitResult) HistoryEntry {
	return HistoryEntry{
		ID:           r.ID,
		SourceName:   r.SourceName,
		Format:       string(r.Format),
		PartCount:    r.PartCount,
		DataRowCount: r.DataRowCount,
		TotalBytes:   r.TotalBytes(),
		ArchiveName:  r.ArchiveName,
		IPAddress:    GetIPAddressFromContext(ctx),
		UserAgent:    GetUserAgentFromContext(ctx),
		CreatedAt:    r.CreatedAt,
	}
}
