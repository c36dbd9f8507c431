// Package main runs the Rep Coin MCP server over stdio (for local Cursor use).
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/repcoin-app/backend/internal/challenge"
	"github.com/repcoin-app/backend/internal/config"
	"github.com/repcoin-app/backend/internal/db"
	repcoinmcp "github.com/repcoin-app/backend/internal/mcp"
	"github.com/repcoin-app/backend/internal/reps"
	"github.com/repcoin-app/backend/internal/sessions"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	// stdout carries the MCP protocol, log goes to stderr
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	dbPool, err := db.NewDBPool(connectCtx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: false,
	})
	cancel()
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer dbPool.Close()

	repsRepo := reps.NewRepo(dbPool)
	sessionsRepo := sessions.NewRepo(dbPool)
	championsRepo := challenge.NewRepo(dbPool)
	server := repcoinmcp.NewServer(dbPool, repsRepo, sessionsRepo, championsRepo)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
