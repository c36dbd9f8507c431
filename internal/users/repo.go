package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/repcoin-app/backend/internal/telemetry/tracing"
)

var ErrUserNotFound = errors.New("user not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// EnsureUser creates the user if it does not exist yet and returns it.
func (r *Repo) EnsureUser(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.ensure")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("username", username))

	if username == "" {
		return nil, errors.New("username empty")
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO repcoin_user (username, points, total_reps, created_at)
			VALUES ($1, 0, 0, $2)
			ON CONFLICT (username) DO NOTHING;`,
		username, time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return r.Get(ctx, username)
}

func (r *Repo) Get(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("username", username))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, username, points, total_reps, created_at FROM repcoin_user WHERE username = $1;`,
		username,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrUserNotFound
	}

	var user User
	if err := rows.Scan(&user.ID, &user.Username, &user.Points, &user.TotalReps, &user.CreatedAt); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	return &user, nil
}

// AddReward increments the user point and rep counters in a single statement,
// so concurrent rewards never lose updates.
func (r *Repo) AddReward(ctx context.Context, username string, coins int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.addReward")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("username", username))
	span.SetAttributes(attribute.Int("coins", coins))

	if coins < 0 {
		return fmt.Errorf("invalid coins amount: %d", coins)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE repcoin_user SET points = points + $2, total_reps = total_reps + 1 WHERE username = $1;`,
		username, coins,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
