package reps

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/repcoin-app/backend/internal/telemetry/metrics"
	"github.com/repcoin-app/backend/internal/telemetry/tracing"
	"github.com/repcoin-app/backend/internal/users"
	"github.com/repcoin-app/backend/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=reps_mocks_test.go -package=reps_test

type repsRepo interface {
	Add(ctx context.Context, rep Rep) (*Rep, error)
	Get(ctx context.Context, id int) (*Rep, error)
	List(ctx context.Context, params ListParams) ([]Rep, error)
}

type rewardsRepo interface {
	AddReward(ctx context.Context, username string, coins int) error
}

type Handler struct {
	repo           repsRepo
	rewards        rewardsRepo
	metricsManager *metrics.Manager
}

func NewHandler(repo repsRepo, rewards rewardsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		rewards:        rewards,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.reps.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var rep Rep
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		log.Tracef("new rep, unmarshal json params: %s", err)
		http.Error(w, "add rep failed", http.StatusBadRequest)
		return
	}

	if !rep.ExerciseType.IsValid() {
		http.Error(w, "error, invalid exercise type", http.StatusBadRequest)
		return
	}
	if rep.CoinsEarned < 0 {
		http.Error(w, "error, invalid coins earned", http.StatusBadRequest)
		return
	}
	if rep.CoinsEarned == 0 {
		rep.CoinsEarned = 1
	}

	if rep.Timestamp.IsZero() {
		rep.Timestamp = time.Now()
	}

	addedRep, err := handler.repo.Add(ctx, rep)
	if err != nil {
		log.Errorf("failed to add new rep [%s]: %s", rep.ExerciseType, err)
		http.Error(w, "error, failed to add new rep", http.StatusInternalServerError)
		return
	}

	// reward the points for the store, non-fatal if it fails
	if err := handler.rewards.AddReward(ctx, users.DefaultUsername, addedRep.CoinsEarned); err != nil {
		log.Errorf("failed to reward points for rep %d: %s", addedRep.ID, err)
	}

	handler.metricsManager.CounterRepsAdded.Inc()
	handler.metricsManager.CounterCoinsEarned.Add(float64(addedRep.CoinsEarned))

	addedRepJson, err := json.Marshal(addedRep)
	if err != nil {
		log.Errorf("failed to marshal new rep: %s", err)
		http.Error(w, "error, failed to add new rep", http.StatusInternalServerError)
		return
	}

	log.Debugf("new rep added: %s", addedRepJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedRepJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.reps.get")
	defer span.End()

	vars := mux.Vars(r)
	idStr := vars["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	rep, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRepNotFound) {
			http.Error(w, "rep not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get rep %d: %s", id, err)
		http.Error(w, "failed to get rep", http.StatusInternalServerError)
		return
	}

	repJson, err := json.Marshal(rep)
	if err != nil {
		log.Errorf("failed to marshal rep: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, repJson, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.reps.list")
	defer span.End()

	exerciseType := r.URL.Query().Get("exercise_type")
	if exerciseType != "" && !ExerciseType(exerciseType).IsValid() {
		http.Error(w, "error, invalid exercise type", http.StatusBadRequest)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "error, limit NaN", http.StatusBadRequest)
			return
		}
	}

	repsList, err := handler.repo.List(ctx, ListParams{
		ExerciseType: exerciseType,
		Limit:        limit,
	})
	if err != nil {
		log.Errorf("list reps error: %s", err)
		http.Error(w, "failed to get reps", http.StatusInternalServerError)
		return
	}

	repsJson, err := json.Marshal(repsList)
	if err != nil {
		log.Errorf("marshal reps error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, repsJson, http.StatusOK)
}
