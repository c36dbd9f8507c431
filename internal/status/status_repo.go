package status

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

// DefaultListLimit caps the status check history returned to clients.
const DefaultListLimit = 1000

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, check StatusCheck) (_ *StatusCheck, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.status.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO status_check
				(client_name, country, created_at)
				VALUES ($1, $2, $3)
			RETURNING id;`,
		check.ClientName, check.Country, check.Timestamp,
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

	span.SetAttributes(attribute.Int("statusCheck.id", id))

	check.ID = id
	return &check, nil
}

// List returns status checks in insertion order, up to limit.
func (r *Repo) List(ctx context.Context, limit int) (_ []StatusCheck, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.status.list")
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
			SELECT id, client_name, country, created_at FROM status_check
			ORDER BY id ASC
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

	checks, err := r.rows2checks(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2checks: %w", err)
	}
	return checks, nil
}

func (r *Repo) rows2checks(rows pgx.Rows) ([]StatusCheck, error) {
	var checks []StatusCheck
	for rows.Next() {
		var id int
		var clientName string
		var country string
		var createdAt time.Time
		if err := rows.Scan(&id, &clientName, &country, &createdAt); err != nil {
			return nil, err
		}
		checks = append(checks, StatusCheck{
			ID:         id,
			ClientName: clientName,
			Country:    country,
			Timestamp:  createdAt,
		})
	}

	if checks == nil {
		checks = make([]StatusCheck, 0)
	}

	return checks, nil
}
