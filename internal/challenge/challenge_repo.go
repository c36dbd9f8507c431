package challenge

import (
	"context"
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

func (r *Repo) Champion(ctx context.Context, exerciseType string) (_ *Champion, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.challenge.champion")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise_type", exerciseType))

	rows, err := r.db.Query(
		ctx,
		`SELECT exercise_type, champion_name, champion_photo, best_reps, best_time_seconds, achieved_at
			FROM challenge_champion
			WHERE exercise_type = $1;`,
		exerciseType,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, ErrChampionNotFound
	}

	var champion Champion
	var achievedAt time.Time
	if err := rows.Scan(
		&champion.ExerciseType,
		&champion.ChampionName,
		&champion.ChampionPhoto,
		&champion.BestReps,
		&champion.BestTimeSeconds,
		&achievedAt,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	champion.AchievedAt = achievedAt

	return &champion, nil
}

// TrySetChampion replaces the champion for the exercise kind in a single
// statement. The row is touched only when the submitted result beats the
// stored one: more reps, or equal reps in strictly lower time. Returns
// whether the submission took the title.
func (r *Repo) TrySetChampion(ctx context.Context, champion Champion) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.challenge.trySetChampion")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise_type", string(champion.ExerciseType)))
	span.SetAttributes(attribute.Int("best_reps", champion.BestReps))

	tag, err := r.db.Exec(
		ctx,
		`INSERT INTO challenge_champion
				(exercise_type, champion_name, champion_photo, best_reps, best_time_seconds, achieved_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (exercise_type) DO UPDATE SET
				champion_name = EXCLUDED.champion_name,
				champion_photo = EXCLUDED.champion_photo,
				best_reps = EXCLUDED.best_reps,
				best_time_seconds = EXCLUDED.best_time_seconds,
				achieved_at = EXCLUDED.achieved_at
			WHERE EXCLUDED.best_reps > challenge_champion.best_reps
				OR (EXCLUDED.best_reps = challenge_champion.best_reps
					AND EXCLUDED.best_time_seconds < challenge_champion.best_time_seconds);`,
		champion.ExerciseType,
		champion.ChampionName,
		champion.ChampionPhoto,
		champion.BestReps,
		champion.BestTimeSeconds,
		champion.AchievedAt,
	)
	if err != nil {
		return false, err
	}

	crowned := tag.RowsAffected() == 1
	span.SetAttributes(attribute.Bool("crowned", crowned))

	return crowned, nil
}
