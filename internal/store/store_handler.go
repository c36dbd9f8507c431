package store

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/repcoin-app/backend/internal/telemetry/metrics"
	"github.com/repcoin-app/backend/internal/telemetry/tracing"
	"github.com/repcoin-app/backend/internal/users"
	"github.com/repcoin-app/backend/pkg"
)

type Handler struct {
	service        *Service
	metricsManager *metrics.Manager
}

func NewHandler(service *Service, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) HandleGetStore(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.store.get")
	defer span.End()

	username := r.URL.Query().Get("username")
	if username == "" {
		username = users.DefaultUsername
	}

	view, err := handler.service.GetStore(ctx, username)
	if err != nil {
		log.Errorf("failed to get store: %s", err)
		http.Error(w, "failed to get store", http.StatusInternalServerError)
		return
	}

	viewJson, err := json.Marshal(view)
	if err != nil {
		log.Errorf("marshal store view error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, viewJson, http.StatusOK)
}

func (handler *Handler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.store.purchase")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var purchaseReq PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&purchaseReq); err != nil {
		log.Tracef("store purchase, unmarshal json params: %s", err)
		http.Error(w, "store purchase failed", http.StatusBadRequest)
		return
	}

	if purchaseReq.Item == "" {
		http.Error(w, "error, item empty", http.StatusBadRequest)
		return
	}
	if purchaseReq.Username == "" {
		purchaseReq.Username = users.DefaultUsername
	}

	resp, err := handler.service.Purchase(ctx, purchaseReq.Username, purchaseReq.Item)
	if err != nil && !errors.Is(err, ErrItemNotFound) {
		log.Errorf("store purchase [%s]: %s", purchaseReq.Item, err)
		http.Error(w, "store purchase failed", http.StatusInternalServerError)
		return
	} else if errors.Is(err, ErrItemNotFound) {
		http.Error(w, "store item not found", http.StatusNotFound)
		return
	}

	if resp.Success {
		handler.metricsManager.CounterStorePurchases.Inc()
		log.Debugf("store item purchased: %s", resp.Item)
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal store purchase response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
