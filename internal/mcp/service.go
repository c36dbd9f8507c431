package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/repcoin-app/backend/internal/challenge"
	"github.com/repcoin-app/backend/internal/reps"
	"github.com/repcoin-app/backend/internal/sessions"
	"github.com/repcoin-app/backend/internal/wallet"
)

// RepsRepo provides rep history and aggregates (for dependency injection and testing).
type RepsRepo interface {
	List(ctx context.Context, params reps.ListParams) ([]reps.Rep, error)
	Stats(ctx context.Context) (*reps.Stats, error)
}

// SessionsRepo provides workout session history (for dependency injection and testing).
type SessionsRepo interface {
	List(ctx context.Context, limit int) ([]sessions.WorkoutSession, error)
	Count(ctx context.Context) (int, error)
}

// championsRepo provides the current champion per exercise kind.
type championsRepo interface {
	Champion(ctx context.Context, exerciseType string) (*challenge.Champion, error)
}

// contextService is what Handler needs from the service layer, split out
// so handler tests can fake it.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	GetWallet(ctx context.Context) (*wallet.Wallet, error)
	ListRecentReps(ctx context.Context, params reps.ListParams) ([]reps.Rep, error)
	ListRecentSessions(ctx context.Context, limit int) ([]sessions.WorkoutSession, error)
	GetChampion(ctx context.Context, exerciseType string) (*challenge.Champion, error)
}

// ContextService holds dependencies and implements the Rep Coin context business logic.
type ContextService struct {
	schema    SchemaRepo
	reps      RepsRepo
	sessions  SessionsRepo
	champions championsRepo
}

// NewContextService wires the repos into a ContextService.
func NewContextService(
	schemaRepo SchemaRepo,
	repsRepo RepsRepo,
	sessionsRepo SessionsRepo,
	championsRepo championsRepo,
) *ContextService {
	return &ContextService{
		schema:    schemaRepo,
		reps:      repsRepo,
		sessions:  sessionsRepo,
		champions: championsRepo,
	}
}

// GetSchema returns the DB schema (table names, columns, types) for Rep Coin
// tables: rep, workout_session, status_check, repcoin_user, challenge_champion,
// store_item, store_unlock.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetRepcoinColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatRepcoinSchema(cols), nil
}

// formatRepcoinSchema renders the columns as one markdown table per DB table.
// Expects cols ordered by table name and ordinal position, the way
// GetRepcoinColumns returns them.
func formatRepcoinSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Rep Coin DB Schema\n\nNo Rep Coin tables found in the database.\n"
	}

	var b strings.Builder
	b.WriteString("# Rep Coin DB Schema\n\n")
	b.WriteString("Tables: rep, workout_session, status_check, repcoin_user, challenge_champion, store_item, store_unlock (schema: public).\n\n")

	currentTable := ""
	for _, c := range cols {
		if c.TableName != currentTable {
			if currentTable != "" {
				b.WriteString("\n")
			}
			currentTable = c.TableName
			b.WriteString("## " + currentTable + "\n\n")
			b.WriteString("| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		}
		def := "—"
		if c.ColumnDef != nil && *c.ColumnDef != "" {
			def = *c.ColumnDef
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def)
	}

	return b.String()
}

// GetWallet returns the wallet aggregate: total coins, pushups, situps and session count.
func (s *ContextService) GetWallet(ctx context.Context) (*wallet.Wallet, error) {
	stats, err := s.reps.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reps stats: %w", err)
	}
	sessionsCount, err := s.sessions.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("sessions count: %w", err)
	}
	return &wallet.Wallet{
		TotalCoins:    stats.TotalCoins,
		TotalPushups:  stats.TotalPushups,
		TotalSitups:   stats.TotalSitups,
		SessionsCount: sessionsCount,
	}, nil
}

// ListRecentReps returns recent reps, newest first, optionally filtered by exercise kind.
func (s *ContextService) ListRecentReps(ctx context.Context, params reps.ListParams) ([]reps.Rep, error) {
	return s.reps.List(ctx, params)
}

// ListRecentSessions returns recent workout sessions, newest first.
func (s *ContextService) ListRecentSessions(ctx context.Context, limit int) ([]sessions.WorkoutSession, error) {
	return s.sessions.List(ctx, limit)
}

// GetChampion returns the current champion for the given exercise kind. The
// champion photo is stripped, tool output stays small and text friendly.
func (s *ContextService) GetChampion(ctx context.Context, exerciseType string) (*challenge.Champion, error) {
	champion, err := s.champions.Champion(ctx, exerciseType)
	if err != nil {
		return nil, err
	}
	champion.ChampionPhoto = nil
	return champion, nil
}
