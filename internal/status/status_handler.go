package status

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/repcoin-app/backend/internal/geoip"
	"github.com/repcoin-app/backend/internal/telemetry/tracing"
	"github.com/repcoin-app/backend/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=status_mocks_test.go -package=status_test

type statusRepo interface {
	Add(ctx context.Context, check StatusCheck) (*StatusCheck, error)
	List(ctx context.Context, limit int) ([]StatusCheck, error)
}

type ipInfoProvider interface {
	GetIPGeoInfo(ctx context.Context, userIp string) (*geoip.IpInfo, error)
}

type Handler struct {
	repo  statusRepo
	geoIp ipInfoProvider
}

func NewHandler(repo statusRepo, geoIp ipInfoProvider) *Handler {
	return &Handler{
		repo:  repo,
		geoIp: geoIp,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.status.new")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var check StatusCheck
	if err := json.NewDecoder(r.Body).Decode(&check); err != nil {
		log.Tracef("new status check, unmarshal json params: %s", err)
		http.Error(w, "add status check failed", http.StatusBadRequest)
		return
	}

	if check.ClientName == "" {
		http.Error(w, "error, client name empty", http.StatusBadRequest)
		return
	}

	check.Timestamp = time.Now()
	check.Country = handler.resolveCountry(ctx, r)

	addedCheck, err := handler.repo.Add(ctx, check)
	if err != nil {
		log.Errorf("failed to add status check for [%s]: %s", check.ClientName, err)
		http.Error(w, "error, failed to add status check", http.StatusInternalServerError)
		return
	}

	addedCheckJson, err := json.Marshal(addedCheck)
	if err != nil {
		log.Errorf("failed to marshal status check: %s", err)
		http.Error(w, "error, failed to add status check", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedCheckJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.status.list")
	defer span.End()

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "error, limit NaN", http.StatusBadRequest)
			return
		}
	}

	checks, err := handler.repo.List(ctx, limit)
	if err != nil {
		log.Errorf("list status checks error: %s", err)
		http.Error(w, "failed to get status checks", http.StatusInternalServerError)
		return
	}

	checksJson, err := json.Marshal(checks)
	if err != nil {
		log.Errorf("marshal status checks error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, checksJson, http.StatusOK)
}

// resolveCountry is best effort, the status check is stored regardless.
func (handler *Handler) resolveCountry(ctx context.Context, r *http.Request) string {
	userIp, err := pkg.ReadUserIP(r)
	if err != nil {
		log.Tracef("status check, read user ip: %s", err)
		return ""
	}

	ipInfo, err := handler.geoIp.GetIPGeoInfo(ctx, userIp)
	if err != nil {
		log.Errorf("status check, get geo info for [%s]: %s", userIp, err)
		return ""
	}

	return ipInfo.Country
}
