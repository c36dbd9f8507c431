package mcp

import (
	"github.com/repcoin-app/backend/internal/challenge"
	"github.com/repcoin-app/backend/internal/reps"
	"github.com/repcoin-app/backend/internal/sessions"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with Rep Coin tools: schema, wallet, recent reps,
// recent sessions, champion. Runs over stdio via cmd/repcoin_mcp.
func NewServer(
	pool *pgxpool.Pool,
	repsRepo *reps.Repo,
	sessionsRepo *sessions.Repo,
	championsRepo *challenge.Repo,
) *mcp.Server {
	svc := NewContextService(NewPoolSchemaRepo(pool), repsRepo, sessionsRepo, championsRepo)
	h := NewHandler(svc)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "repcoin-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_repcoin_schema",
		Description: "Returns the DB schema for Rep Coin tables (rep, workout_session, status_check, repcoin_user, challenge_champion, store_item, store_unlock): table names, columns, types, nullable, default. Use when developing the Rep Coin app and you need the actual backend schema.",
	}, h.GetRepcoinSchemaTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_wallet",
		Description: "Returns the wallet aggregate: total coins earned, total pushups, total situps and the number of recorded workout sessions. Use when you need the overall progress numbers.",
	}, h.GetWalletTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_recent_reps",
		Description: "Returns recent reps (newest first) with the coins each earned. Optional filters: exercise_type (pushup or situp), limit (default 1000). Use when you need the raw rep history.",
	}, h.GetRecentRepsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_recent_sessions",
		Description: "Returns recent workout sessions (newest first) with pushups, situps and coins per session. Optional: limit (default 100). Use when you need workout-level history.",
	}, h.GetRecentSessionsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_champion",
		Description: "Returns the current challenge champion for an exercise type: name, best reps, best time, achieved date (photo omitted). Arg: exercise_type (pushup or situp). Use when you need the record to beat.",
	}, h.GetChampionTool())

	return s
}
