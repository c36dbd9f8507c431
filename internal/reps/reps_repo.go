package reps

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

var ErrRepNotFound = errors.New("rep not found")

// DefaultListLimit caps the rep history returned to clients.
const DefaultListLimit = 1000

type ListParams struct {
	ExerciseType string
	Limit        int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, rep Rep) (_ *Rep, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.reps.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO rep
				(exercise_type, coins_earned, created_at)
				VALUES ($1, $2, $3)
			RETURNING id;`,
		rep.ExerciseType, rep.CoinsEarned, rep.Timestamp,
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

	span.SetAttributes(attribute.Int("rep.id", id))

	rep.ID = id
	return &rep, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Rep, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.reps.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, exercise_type, coins_earned, created_at FROM rep WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	reps, err := r.rows2reps(rows)
	if err != nil {
		return nil, err
	}

	if len(reps) != 1 {
		return nil, ErrRepNotFound
	}

	return &reps[0], nil
}

// List returns the newest reps first, up to params.Limit.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Rep, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.reps.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise_type", params.ExerciseType))
	span.SetAttributes(attribute.Int("limit", params.Limit))

	limit := params.Limit
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, exercise_type, coins_earned, created_at FROM rep
				WHERE ($1::text = '' OR exercise_type = $1)
			ORDER BY created_at DESC, id DESC
			LIMIT $2;`,
		params.ExerciseType, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	reps, err := r.rows2reps(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2reps: %w", err)
	}
	return reps, nil
}

// Stats returns the coin sum and per exercise type counts over all reps.
func (r *Repo) Stats(ctx context.Context) (_ *Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.reps.stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT
			COALESCE(SUM(coins_earned), 0),
			COUNT(*) FILTER (WHERE exercise_type = 'pushup'),
			COUNT(*) FILTER (WHERE exercise_type = 'situp')
		FROM rep;
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error, failed to get reps stats")
	}

	var stats Stats
	if err := rows.Scan(&stats.TotalCoins, &stats.TotalPushups, &stats.TotalSitups); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("total_coins", stats.TotalCoins))

	return &stats, nil
}

func (r *Repo) rows2reps(rows pgx.Rows) ([]Rep, error) {
	var reps []Rep
	for rows.Next() {
		var id int
		var exerciseType string
		var coinsEarned int
		var createdAt time.Time
		if err := rows.Scan(&id, &exerciseType, &coinsEarned, &createdAt); err != nil {
			return nil, err
		}
		reps = append(reps, Rep{
			ID:           id,
			ExerciseType: ExerciseType(exerciseType),
			CoinsEarned:  coinsEarned,
			Timestamp:    createdAt,
		})
	}

	if reps == nil {
		reps = make([]Rep, 0)
	}

	return reps, nil
}
