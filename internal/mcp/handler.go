package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/repcoin-app/backend/internal/challenge"
	"github.com/repcoin-app/backend/internal/reps"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler turns MCP tool calls into service calls and wraps the outcome
// as tool output. Service errors come back as IsError results, not
// protocol errors, so the model can read them and react.
type Handler struct {
	service contextService
}

// NewHandler returns a Handler backed by the given service.
func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

// GetRepcoinSchemaTool returns the MCP tool handler for get_repcoin_schema.
func (h *Handler) GetRepcoinSchemaTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error fetching schema: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

// GetWalletTool returns the MCP tool handler for get_wallet.
func (h *Handler) GetWalletTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		w, err := h.service.GetWallet(ctx)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error fetching wallet: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		raw, err := json.MarshalIndent(w, "", "  ")
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error encoding response: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
		}, nil, nil
	}
}

// RecentRepsInput is the input for get_recent_reps.
type RecentRepsInput struct {
	ExerciseType string `json:"exercise_type,omitempty" jsonschema:"Filter by exercise type (pushup or situp)"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Max reps to return (default 1000)"`
}

// GetRecentRepsTool returns the MCP tool handler for get_recent_reps.
func (h *Handler) GetRecentRepsTool() func(context.Context, *mcp.CallToolRequest, RecentRepsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in RecentRepsInput) (*mcp.CallToolResult, any, error) {
		if in.ExerciseType != "" && !reps.ExerciseType(in.ExerciseType).IsValid() {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Invalid exercise_type: use pushup or situp"}},
				IsError: true,
			}, nil, nil
		}

		params := reps.ListParams{
			ExerciseType: in.ExerciseType,
			Limit:        in.Limit,
		}
		list, err := h.service.ListRecentReps(ctx, params)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error listing reps: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		raw, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error encoding response: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
		}, nil, nil
	}
}

// RecentSessionsInput is the input for get_recent_sessions.
type RecentSessionsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max sessions to return (default 100)"`
}

// GetRecentSessionsTool returns the MCP tool handler for get_recent_sessions.
func (h *Handler) GetRecentSessionsTool() func(context.Context, *mcp.CallToolRequest, RecentSessionsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in RecentSessionsInput) (*mcp.CallToolResult, any, error) {
		list, err := h.service.ListRecentSessions(ctx, in.Limit)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error listing sessions: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		raw, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error encoding response: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
		}, nil, nil
	}
}

// ChampionInput is the input for get_champion.
type ChampionInput struct {
	ExerciseType string `json:"exercise_type" jsonschema:"Exercise type (pushup or situp)"`
}

// GetChampionTool returns the MCP tool handler for get_champion.
func (h *Handler) GetChampionTool() func(context.Context, *mcp.CallToolRequest, ChampionInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ChampionInput) (*mcp.CallToolResult, any, error) {
		if !reps.ExerciseType(in.ExerciseType).IsValid() {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Invalid exercise_type: use pushup or situp"}},
				IsError: true,
			}, nil, nil
		}

		champion, err := h.service.GetChampion(ctx, in.ExerciseType)
		if errors.Is(err, challenge.ErrChampionNotFound) {
			// not an error, the throne is simply empty
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("No champion recorded for %s yet.", in.ExerciseType)}},
			}, nil, nil
		}
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error fetching champion: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		raw, err := json.MarshalIndent(champion, "", "  ")
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Error encoding response: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
		}, nil, nil
	}
}
