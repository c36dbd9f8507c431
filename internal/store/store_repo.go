package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/repcoin-app/backend/internal/telemetry/tracing"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) GetItem(ctx context.Context, name string) (_ *StoreItem, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.getItem")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("item", name))

	rows, err := r.db.Query(
		ctx,
		`SELECT name, cost FROM store_item WHERE name = $1;`,
		name,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrItemNotFound
	}

	var item StoreItem
	if err := rows.Scan(&item.Name, &item.Cost); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	return &item, nil
}

func (r *Repo) ListItems(ctx context.Context) (_ []StoreItem, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.listItems")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT name, cost FROM store_item ORDER BY cost ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var items []StoreItem
	for rows.Next() {
		var item StoreItem
		if err := rows.Scan(&item.Name, &item.Cost); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		items = append(items, item)
	}

	if items == nil {
		items = make([]StoreItem, 0)
	}

	return items, nil
}

func (r *Repo) IsUnlocked(ctx context.Context, userID int, itemName string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.isUnlocked")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.String("item", itemName))

	rows, err := r.db.Query(
		ctx,
		`SELECT 1 FROM store_unlock WHERE user_id = $1 AND item_name = $2;`,
		userID, itemName,
	)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return false, err
	}

	return rows.Next(), nil
}

// ListUnlocks returns the names of the items the user has unlocked.
func (r *Repo) ListUnlocks(ctx context.Context, userID int) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.listUnlocks")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT item_name FROM store_unlock WHERE user_id = $1;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var unlocked []string
	for rows.Next() {
		var itemName string
		if err := rows.Scan(&itemName); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		unlocked = append(unlocked, itemName)
	}

	return unlocked, nil
}

// Purchase debits the item cost and records the unlock in one statement, so
// a concurrent double purchase can never double charge. Affects no rows when
// the item is already unlocked, the balance is too low, or the item does not
// exist. Returns whether the purchase went through.
func (r *Repo) Purchase(ctx context.Context, userID int, itemName string, unlockedAt time.Time) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.purchase")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.String("item", itemName))

	tag, err := r.db.Exec(
		ctx,
		`WITH item AS (
				SELECT name, cost FROM store_item WHERE name = $2
			), paid AS (
				UPDATE repcoin_user u
					SET points = u.points - item.cost
					FROM item
					WHERE u.id = $1
						AND u.points >= item.cost
						AND NOT EXISTS (
							SELECT 1 FROM store_unlock
							WHERE user_id = $1 AND item_name = $2
						)
				RETURNING u.id
			)
			INSERT INTO store_unlock (user_id, item_name, unlocked_at)
				SELECT id, $2, $3 FROM paid;`,
		userID, itemName, unlockedAt,
	)
	if err != nil {
		return false, err
	}

	if tag.RowsAffected() == 0 {
		return false, nil
	}
	if tag.RowsAffected() > 1 {
		return false, errors.New("unexpected error [multiple unlock rows inserted]")
	}

	span.SetAttributes(attribute.Bool("purchased", true))

	return true, nil
}
