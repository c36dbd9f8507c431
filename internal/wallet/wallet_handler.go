package wallet

import (
	"context"
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/repcoin-app/backend/internal/reps"
	"github.com/repcoin-app/backend/internal/telemetry/tracing"
	"github.com/repcoin-app/backend/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=wallet_mocks_test.go -package=wallet_test

type repsStatsProvider interface {
	Stats(ctx context.Context) (*reps.Stats, error)
}

type sessionsCounter interface {
	Count(ctx context.Context) (int, error)
}

type Handler struct {
	repsRepo     repsStatsProvider
	sessionsRepo sessionsCounter
}

func NewHandler(repsRepo repsStatsProvider, sessionsRepo sessionsCounter) *Handler {
	return &Handler{
		repsRepo:     repsRepo,
		sessionsRepo: sessionsRepo,
	}
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.wallet.get")
	defer span.End()

	stats, err := handler.repsRepo.Stats(ctx)
	if err != nil {
		log.Errorf("wallet, get reps stats: %s", err)
		http.Error(w, "failed to get wallet", http.StatusInternalServerError)
		return
	}

	sessionsCount, err := handler.sessionsRepo.Count(ctx)
	if err != nil {
		log.Errorf("wallet, count sessions: %s", err)
		http.Error(w, "failed to get wallet", http.StatusInternalServerError)
		return
	}

	wallet := Wallet{
		TotalCoins:    stats.TotalCoins,
		TotalPushups:  stats.TotalPushups,
		TotalSitups:   stats.TotalSitups,
		SessionsCount: sessionsCount,
	}

	span.SetAttributes(attribute.Int("wallet.total_coins", wallet.TotalCoins))

	walletJson, err := json.Marshal(wallet)
	if err != nil {
		log.Errorf("marshal wallet error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, walletJson, http.StatusOK)
}
