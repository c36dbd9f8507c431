package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/repcoin-app/backend/internal/telemetry/tracing"
)

// DefaultListLimit caps the session history returned to clients.
const DefaultListLimit = 100

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, session WorkoutSession) (_ *WorkoutSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO workout_session
				(pushups, situps, total_coins, created_at)
				VALUES ($1, $2, $3, $4)
			RETURNING id;`,
		session.Pushups, session.Situps, session.TotalCoins, session.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("session.id", id))

	session.ID = id
	return &session, nil
}

// List returns the newest sessions first, up to limit.
func (r *Repo) List(ctx context.Context, limit int) (_ []WorkoutSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("limit", limit))

	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, pushups, situps, total_coins, created_at FROM workout_session
			ORDER BY created_at DESC, id DESC
			LIMIT $1;`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	sessions, err := r.rows2sessions(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2sessions: %w", err)
	}
	return sessions, nil
}

// Count returns the total number of recorded workout sessions.
func (r *Repo) Count(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT COUNT(*) FROM workout_session;`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return 0, err
	}

	if !rows.Next() {
		return 0, errors.New("unexpected error, failed to count sessions")
	}

	var count int
	if err := rows.Scan(&count); err != nil {
		return 0, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("count", count))

	return count, nil
}

func (r *Repo) rows2sessions(rows pgx.Rows) ([]WorkoutSession, error) {
	var sessions []WorkoutSession
	for rows.Next() {
		var id int
		var pushups int
		var situps int
		var totalCoins int
		var createdAt time.Time
		if err := rows.Scan(&id, &pushups, &situps, &totalCoins, &createdAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, WorkoutSession{
			ID:         id,
			Pushups:    pushups,
			Situps:     situps,
			TotalCoins: totalCoins,
			Timestamp:  createdAt,
		})
	}

	if sessions == nil {
		sessions = make([]WorkoutSession, 0)
	}

	return sessions, nil
}
