// Package pgstore provides a PostgreSQL implementation of triage.Store.
package pgstore

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/sift/internal/triage"
)

var tracer = otel.Tracer("github.com/linnemanlabs/sift/internal/triage/pgstore")

//go:embed schema.sql
var schema string

// Store persists triage output in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema on the given pool and returns a ready Store.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

const emailColumns = `id, from_addr, to_addr, subject, body, date, attachments,
	category, folders, follow_up, follow_up_deadline, processed_at`

// SaveEmail upserts one processed email.
func (s *Store) SaveEmail(ctx context.Context, e *triage.Email) error {
	ctx, span := s.startSpan(ctx, "pgstore.SaveEmail", "UPSERT")
	defer span.End()

	attachmentsJSON, err := json.Marshal(e.Attachments)
	if err != nil {
		return spanErr(span, fmt.Errorf("marshal attachments: %w", err))
	}
	foldersJSON, err := json.Marshal(e.Folders)
	if err != nil {
		return spanErr(span, fmt.Errorf("marshal folders: %w", err))
	}

	var deadline *time.Time
	if !e.FollowUpDeadline.IsZero() {
		deadline = &e.FollowUpDeadline
	}

	query := `INSERT INTO emails (
		id, from_addr, to_addr, subject, body, date, attachments,
		category, folders, follow_up, follow_up_deadline, processed_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	ON CONFLICT (id) DO UPDATE SET
		category           = EXCLUDED.category,
		folders            = EXCLUDED.folders,
		follow_up          = EXCLUDED.follow_up,
		follow_up_deadline = EXCLUDED.follow_up_deadline,
		processed_at       = EXCLUDED.processed_at`

	_, err = s.pool.Exec(ctx, query,
		e.ID, e.From, e.To, e.Subject, e.Body, e.Date, attachmentsJSON,
		string(e.Category), foldersJSON, e.FollowUp, deadline, e.ProcessedAt,
	)
	if err != nil {
		return spanErr(span, fmt.Errorf("upsert email: %w", err))
	}
	return nil
}

// GetEmail retrieves one email by ID.
func (s *Store) GetEmail(ctx context.Context, id string) (*triage.Email, bool, error) {
	ctx, span := s.startSpan(ctx, "pgstore.GetEmail", "SELECT")
	defer span.End()

	query := `SELECT ` + emailColumns + ` FROM emails WHERE id = $1`
	e, err := scanEmail(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, spanErr(span, err)
	}
	return e, true, nil
}

// ListEmails returns processed emails, newest message date first.
func (s *Store) ListEmails(ctx context.Context) ([]*triage.Email, error) {
	ctx, span := s.startSpan(ctx, "pgstore.ListEmails", "SELECT")
	defer span.End()

	query := `SELECT ` + emailColumns + ` FROM emails ORDER BY date DESC`
	return s.queryEmails(ctx, span, query)
}

// History returns prior messages whose sender contains the address,
// case-insensitively, newest first.
func (s *Store) History(ctx context.Context, sender string) ([]*triage.Email, error) {
	ctx, span := s.startSpan(ctx, "pgstore.History", "SELECT")
	defer span.End()

	query := `SELECT ` + emailColumns + ` FROM emails
		WHERE lower(from_addr) LIKE '%' || lower($1) || '%'
		ORDER BY date DESC`
	return s.queryEmails(ctx, span, query, sender)
}

// ListFollowUps returns follow-up-flagged emails, soonest deadline first.
func (s *Store) ListFollowUps(ctx context.Context) ([]*triage.Email, error) {
	ctx, span := s.startSpan(ctx, "pgstore.ListFollowUps", "SELECT")
	defer span.End()

	query := `SELECT ` + emailColumns + ` FROM emails
		WHERE follow_up ORDER BY follow_up_deadline ASC NULLS LAST`
	return s.queryEmails(ctx, span, query)
}

// Stats counts emails processed in [from, to) by category.
func (s *Store) Stats(ctx context.Context, from, to time.Time) (*triage.Stats, error) {
	ctx, span := s.startSpan(ctx, "pgstore.Stats", "SELECT")
	defer span.End()

	query := `SELECT category, count(*) FROM emails
		WHERE processed_at >= $1 AND processed_at < $2
		GROUP BY category`
	rows, err := s.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, spanErr(span, fmt.Errorf("query stats: %w", err))
	}
	defer rows.Close()

	st := &triage.Stats{}
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, spanErr(span, fmt.Errorf("scan stats: %w", err))
		}
		st.Total += count
		switch triage.Category(category) {
		case triage.CategoryUrgent:
			st.Urgent += count
		case triage.CategoryImportant:
			st.Important += count
		case triage.CategoryLow:
			st.Low += count
		default:
			st.Regular += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, spanErr(span, fmt.Errorf("stats rows: %w", err))
	}
	return st, nil
}

// SaveAlert inserts one raised alert.
func (s *Store) SaveAlert(ctx context.Context, a *triage.Alert) error {
	ctx, span := s.startSpan(ctx, "pgstore.SaveAlert", "INSERT")
	defer span.End()

	query := `INSERT INTO alerts (id, email_id, kind, message, from_addr, subject, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := s.pool.Exec(ctx, query,
		a.ID, a.EmailID, string(a.Kind), a.Message, a.From, a.Subject, a.CreatedAt)
	if err != nil {
		return spanErr(span, fmt.Errorf("insert alert: %w", err))
	}
	return nil
}

// ListAlerts returns raised alerts, newest first.
func (s *Store) ListAlerts(ctx context.Context) ([]*triage.Alert, error) {
	ctx, span := s.startSpan(ctx, "pgstore.ListAlerts", "SELECT")
	defer span.End()

	query := `SELECT id, email_id, kind, message, from_addr, subject, created_at
		FROM alerts ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, spanErr(span, fmt.Errorf("query alerts: %w", err))
	}
	defer rows.Close()

	var out []*triage.Alert
	for rows.Next() {
		a := &triage.Alert{}
		var kind string
		if err := rows.Scan(&a.ID, &a.EmailID, &kind, &a.Message, &a.From, &a.Subject, &a.CreatedAt); err != nil {
			return nil, spanErr(span, fmt.Errorf("scan alert: %w", err))
		}
		a.Kind = triage.AlertKind(kind)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, spanErr(span, fmt.Errorf("alert rows: %w", err))
	}
	return out, nil
}

// SaveDraft inserts one generated draft.
func (s *Store) SaveDraft(ctx context.Context, d *triage.Draft) error {
	ctx, span := s.startSpan(ctx, "pgstore.SaveDraft", "INSERT")
	defer span.End()

	query := `INSERT INTO drafts (id, email_id, to_addr, subject, body, intent, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := s.pool.Exec(ctx, query,
		d.ID, d.OriginalEmailID, d.To, d.Subject, d.Body, string(d.Intent), d.CreatedAt)
	if err != nil {
		return spanErr(span, fmt.Errorf("insert draft: %w", err))
	}
	return nil
}

// ListDrafts returns generated drafts in creation order, oldest first.
func (s *Store) ListDrafts(ctx context.Context) ([]*triage.Draft, error) {
	ctx, span := s.startSpan(ctx, "pgstore.ListDrafts", "SELECT")
	defer span.End()

	query := `SELECT id, email_id, to_addr, subject, body, intent, created_at
		FROM drafts ORDER BY created_at ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, spanErr(span, fmt.Errorf("query drafts: %w", err))
	}
	defer rows.Close()

	var out []*triage.Draft
	for rows.Next() {
		d := &triage.Draft{}
		var intent string
		if err := rows.Scan(&d.ID, &d.OriginalEmailID, &d.To, &d.Subject, &d.Body, &intent, &d.CreatedAt); err != nil {
			return nil, spanErr(span, fmt.Errorf("scan draft: %w", err))
		}
		d.Intent = triage.Intent(intent)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, spanErr(span, fmt.Errorf("draft rows: %w", err))
	}
	return out, nil
}

func (s *Store) queryEmails(ctx context.Context, span trace.Span, query string, args ...any) ([]*triage.Email, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, spanErr(span, fmt.Errorf("query emails: %w", err))
	}
	defer rows.Close()

	var out []*triage.Email
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, spanErr(span, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, spanErr(span, fmt.Errorf("email rows: %w", err))
	}
	return out, nil
}

func scanEmail(row pgx.Row) (*triage.Email, error) {
	e := &triage.Email{}
	var category string
	var attachmentsJSON, foldersJSON []byte
	var deadline *time.Time

	err := row.Scan(&e.ID, &e.From, &e.To, &e.Subject, &e.Body, &e.Date,
		&attachmentsJSON, &category, &foldersJSON, &e.FollowUp, &deadline, &e.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan email: %w", err)
	}

	e.Category = triage.Category(category)
	if deadline != nil {
		e.FollowUpDeadline = *deadline
	}
	if len(attachmentsJSON) > 0 {
		if err := json.Unmarshal(attachmentsJSON, &e.Attachments); err != nil {
			return nil, fmt.Errorf("unmarshal attachments: %w", err)
		}
	}
	if len(foldersJSON) > 0 {
		if err := json.Unmarshal(foldersJSON, &e.Folders); err != nil {
			return nil, fmt.Errorf("unmarshal folders: %w", err)
		}
	}
	return e, nil
}

func (s *Store) startSpan(ctx context.Context, name, op string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", op),
	))
}

func spanErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
