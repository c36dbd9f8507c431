package challenge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/repcoin-app/backend/internal/reps"
	"github.com/repcoin-app/backend/internal/telemetry/tracing"
	"github.com/repcoin-app/backend/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=challenge_mocks_test.go -package=challenge_test

type championsRepo interface {
	Champion(ctx context.Context, exerciseType string) (*Champion, error)
	TrySetChampion(ctx context.Context, champion Champion) (bool, error)
}

type Service struct {
	repo championsRepo
}

func NewService(repo championsRepo) *Service {
	return &Service{
		repo: repo,
	}
}

// GetChampion returns the champion view for the exercise kind. A known kind
// with no champion yet yields an empty view, not an error.
func (s *Service) GetChampion(ctx context.Context, exerciseType string) (_ *ChampionView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.challenge.getChampion")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("exercise_type", exerciseType))

	if !reps.ExerciseType(exerciseType).IsValid() {
		return nil, ErrUnknownKind
	}

	return s.championView(ctx, exerciseType)
}

// Submit evaluates a challenge attempt against the current champion.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (_ *SubmitResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.challenge.submit")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("exercise_type", req.ExerciseType))
	span.SetAttributes(attribute.Int("reps_completed", req.RepsCompleted))

	if !reps.ExerciseType(req.ExerciseType).IsValid() {
		return nil, ErrUnknownKind
	}
	if req.PlayerName == "" {
		return nil, fmt.Errorf("%w: player name empty", ErrInvalidSubmission)
	}
	if req.RepsCompleted < 0 {
		return nil, fmt.Errorf("%w: negative reps", ErrInvalidSubmission)
	}
	if req.TimeSeconds < 0 {
		return nil, fmt.Errorf("%w: negative time", ErrInvalidSubmission)
	}

	var photo []byte
	if req.PlayerPhoto != "" {
		decoded, _, err := pkg.DecodeBase64MaybeDataURL(req.PlayerPhoto)
		if err != nil {
			return nil, fmt.Errorf("%w: player photo not base64", ErrInvalidSubmission)
		}
		if len(decoded) > MaxPhotoBytes {
			return nil, fmt.Errorf("%w: player photo too large", ErrInvalidSubmission)
		}
		photo = decoded
	}

	// a zero reps attempt never takes the title, even on an empty board
	crowned := false
	if req.RepsCompleted > 0 {
		crowned, err = s.repo.TrySetChampion(ctx, Champion{
			ExerciseType:    reps.ExerciseType(req.ExerciseType),
			ChampionName:    req.PlayerName,
			ChampionPhoto:   photo,
			BestReps:        req.RepsCompleted,
			BestTimeSeconds: req.TimeSeconds,
			AchievedAt:      time.Now(),
		})
		if err != nil {
			return nil, fmt.Errorf("try set champion: %w", err)
		}
	}

	view, err := s.championView(ctx, req.ExerciseType)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Bool("is_new_champion", crowned))

	return &SubmitResponse{
		Success:         true,
		IsNewChampion:   crowned,
		Message:         submitMessage(req, crowned, view),
		CurrentChampion: view,
	}, nil
}

func (s *Service) championView(ctx context.Context, exerciseType string) (*ChampionView, error) {
	champion, err := s.repo.Champion(ctx, exerciseType)
	if err != nil && !errors.Is(err, ErrChampionNotFound) {
		return nil, fmt.Errorf("get champion: %w", err)
	} else if errors.Is(err, ErrChampionNotFound) {
		return &ChampionView{ExerciseType: exerciseType}, nil
	}

	achievedAt := champion.AchievedAt
	return &ChampionView{
		ExerciseType:    exerciseType,
		HasChampion:     true,
		ChampionName:    champion.ChampionName,
		ChampionPhoto:   champion.ChampionPhoto,
		BestReps:        champion.BestReps,
		BestTimeSeconds: champion.BestTimeSeconds,
		AchievedAt:      &achievedAt,
	}, nil
}

func submitMessage(req SubmitRequest, crowned bool, current *ChampionView) string {
	switch {
	case crowned:
		return fmt.Sprintf(
			"%s is the new %s champion: %d reps in %.1f seconds",
			req.PlayerName, req.ExerciseType, req.RepsCompleted, req.TimeSeconds,
		)
	case req.RepsCompleted == 0:
		return "no reps completed, no record set"
	case current.HasChampion:
		return fmt.Sprintf(
			"%s keeps the %s title with %d reps in %.1f seconds",
			current.ChampionName, req.ExerciseType, current.BestReps, current.BestTimeSeconds,
		)
	default:
		return "no record set"
	}
}
