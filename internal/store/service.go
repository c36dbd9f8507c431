package store

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/repcoin-app/backend/internal/telemetry/tracing"
	"github.com/repcoin-app/backend/internal/users"
)

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=store_test

type storeRepo interface {
	GetItem(ctx context.Context, name string) (*StoreItem, error)
	ListItems(ctx context.Context) ([]StoreItem, error)
	IsUnlocked(ctx context.Context, userID int, itemName string) (bool, error)
	ListUnlocks(ctx context.Context, userID int) ([]string, error)
	Purchase(ctx context.Context, userID int, itemName string, unlockedAt time.Time) (bool, error)
}

type usersRepo interface {
	Get(ctx context.Context, username string) (*users.User, error)
}

type Service struct {
	repo  storeRepo
	users usersRepo
}

func NewService(repo storeRepo, users usersRepo) *Service {
	return &Service{
		repo:  repo,
		users: users,
	}
}

// GetStore composes the catalog with the user unlocks and point balance.
func (s *Service) GetStore(ctx context.Context, username string) (_ *StoreView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.store.get")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	user, err := s.users.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	unlocks, err := s.repo.ListUnlocks(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list unlocks: %w", err)
	}

	unlocked := make(map[string]bool, len(unlocks))
	for _, itemName := range unlocks {
		unlocked[itemName] = true
	}

	view := &StoreView{
		Items:  make([]ItemView, 0, len(items)),
		Points: user.Points,
	}
	for _, item := range items {
		view.Items = append(view.Items, ItemView{
			Name:     item.Name,
			Cost:     item.Cost,
			Unlocked: unlocked[item.Name],
		})
	}

	span.SetAttributes(attribute.Int("points", view.Points))

	return view, nil
}

// Purchase tries to unlock the item for the user. The debit and the unlock
// happen atomically in the repo; a failed purchase never mutates state.
func (s *Service) Purchase(ctx context.Context, username, itemName string) (_ *PurchaseResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.store.purchase")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("item", itemName))

	item, err := s.repo.GetItem(ctx, itemName)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	user, err := s.users.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	purchased, err := s.repo.Purchase(ctx, user.ID, item.Name, time.Now())
	if err != nil {
		return nil, fmt.Errorf("purchase: %w", err)
	}

	if purchased {
		span.SetAttributes(attribute.Bool("purchased", true))
		return &PurchaseResponse{
			Success:         true,
			Item:            item.Name,
			ItemUnlocked:    true,
			PointsRemaining: user.Points - item.Cost,
			Message:         fmt.Sprintf("%s unlocked for %d points", item.Name, item.Cost),
		}, nil
	}

	// affected no rows: either already unlocked, or not enough points
	alreadyUnlocked, err := s.repo.IsUnlocked(ctx, user.ID, item.Name)
	if err != nil {
		return nil, fmt.Errorf("check unlock: %w", err)
	}

	if alreadyUnlocked {
		return &PurchaseResponse{
			Success:         false,
			Item:            item.Name,
			ItemUnlocked:    true,
			PointsRemaining: user.Points,
			Message:         fmt.Sprintf("%s is already unlocked", item.Name),
		}, nil
	}

	return &PurchaseResponse{
		Success:         false,
		Item:            item.Name,
		ItemUnlocked:    false,
		PointsRemaining: user.Points,
		Message:         fmt.Sprintf("not enough points for %s: %d needed, %d available", item.Name, item.Cost, user.Points),
	}, nil
}
