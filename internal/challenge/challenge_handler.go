package challenge

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/repcoin-app/backend/internal/telemetry/metrics"
	"github.com/repcoin-app/backend/internal/telemetry/tracing"
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

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/challenge/submit", handler.HandleSubmit).
		Methods("POST", "OPTIONS").Name("challenge-submit")
	router.HandleFunc("/challenge/{kind}", handler.HandleGetChampion).
		Methods("GET").Name("challenge-champion")
}

func (handler *Handler) HandleGetChampion(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.challenge.champion")
	defer span.End()

	vars := mux.Vars(r)
	kind := vars["kind"]

	view, err := handler.service.GetChampion(ctx, kind)
	if err != nil && !errors.Is(err, ErrUnknownKind) {
		log.Errorf("failed to get champion for [%s]: %s", kind, err)
		http.Error(w, "failed to get champion", http.StatusInternalServerError)
		return
	} else if errors.Is(err, ErrUnknownKind) {
		http.Error(w, "unknown challenge kind", http.StatusNotFound)
		return
	}

	viewJson, err := json.Marshal(view)
	if err != nil {
		log.Errorf("marshal champion view error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, viewJson, http.StatusOK)
}

func (handler *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.challenge.submit")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var submitReq SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&submitReq); err != nil {
		log.Tracef("challenge submit, unmarshal json params: %s", err)
		http.Error(w, "challenge submit failed", http.StatusBadRequest)
		return
	}

	resp, err := handler.service.Submit(ctx, submitReq)
	switch {
	case errors.Is(err, ErrUnknownKind):
		http.Error(w, "error, invalid exercise type", http.StatusBadRequest)
		return
	case errors.Is(err, ErrInvalidSubmission):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Errorf("challenge submit for [%s]: %s", submitReq.ExerciseType, err)
		http.Error(w, "challenge submit failed", http.StatusInternalServerError)
		return
	}

	if resp.IsNewChampion {
		handler.metricsManager.CounterNewChampions.Inc()
		log.Debugf(
			"new %s champion: %s [%d reps]",
			submitReq.ExerciseType, submitReq.PlayerName, submitReq.RepsCompleted,
		)
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal challenge submit response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
