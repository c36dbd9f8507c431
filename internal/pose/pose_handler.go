package pose

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/repcoin-app/backend/internal/middleware"
	"github.com/repcoin-app/backend/internal/telemetry/metrics"
	"github.com/repcoin-app/backend/internal/telemetry/tracing"
	"github.com/repcoin-app/backend/pkg"
)

const (
	oneHour             = 60 * 60
	analysisCacheExpire = oneHour * 1 // seconds

	maxRawResponseChars = 200
)

//go:generate mockgen -source=pose_handler.go -destination=pose_mocks_test.go -package=pose_test

type poseAnalyzer interface {
	AnalyzePose(ctx context.Context, image []byte, mimeType, exerciseType string) (string, error)
}

type AnalyzeRequest struct {
	ImageBase64  string `json:"image_base64"`
	ExerciseType string `json:"exercise_type"`
}

type AnalyzeResponse struct {
	Position    string  `json:"position"`
	ShoulderY   float64 `json:"shoulder_y"`
	Confidence  string  `json:"confidence"`
	Message     string  `json:"message"`
	RawResponse string  `json:"raw_response"`
}

type Handler struct {
	analyzer        poseAnalyzer
	cache           *freecache.Cache
	analysisTimeout time.Duration
	metricsManager  *metrics.Manager
}

func NewHandler(
	analyzer poseAnalyzer,
	analysisTimeout time.Duration,
	metricsManager *metrics.Manager,
) *Handler {
	megabyte := 1024 * 1024
	cacheSize := 50 * megabyte

	return &Handler{
		analyzer:        analyzer,
		cache:           freecache.NewCache(cacheSize),
		analysisTimeout: analysisTimeout,
		metricsManager:  metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
	metricsManager *metrics.Manager,
) {
	analyzeSubrouter := mainRouter.PathPrefix("/analyze-pose").Subrouter()
	analyzeSubrouter.
		HandleFunc("", handler.HandleAnalyze).
		Methods("POST", "OPTIONS").Name("analyze-pose")

	// rate limit the analyze endpoint to keep model usage in check
	analyzeSubrouter.Use(middleware.RateLimit(rateLimiter, "analyze-pose", allowedPerMin, metricsManager))
}

// HandleAnalyze is best effort: any analysis failure comes back as a 200
// with an unknown position and the failure in the message field, so clients
// keep the workout going and ignore frames they cannot use.
func (handler *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.pose.analyze")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var analyzeReq AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&analyzeReq); err != nil {
		log.Tracef("analyze pose, unmarshal json params: %s", err)
		http.Error(w, "analyze pose failed", http.StatusBadRequest)
		return
	}

	if analyzeReq.ImageBase64 == "" {
		http.Error(w, "error, image empty", http.StatusBadRequest)
		return
	}
	if analyzeReq.ExerciseType == "" {
		analyzeReq.ExerciseType = "pushup"
	}

	resp := handler.analyze(ctx, analyzeReq)

	handler.metricsManager.CounterPoseAnalyses.With(
		prometheus.Labels{"confidence": resp.Confidence},
	).Inc()

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal pose analysis response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) analyze(ctx context.Context, req AnalyzeRequest) *AnalyzeResponse {
	startTime := time.Now()
	defer func() {
		handler.metricsManager.HistPoseAnalysisDuration.Observe(time.Since(startTime).Seconds())
	}()

	image, mimeHint, err := pkg.DecodeBase64MaybeDataURL(req.ImageBase64)
	if err != nil {
		log.Errorf("analyze pose, decode image: %s", err)
		return degradedAnalyzeResponse(fmt.Sprintf("invalid image data: %s", err))
	}

	cacheKey := analysisCacheKey(image, req.ExerciseType)
	if cachedBytes, err := handler.cache.Get(cacheKey); err == nil {
		log.Tracef("pose analysis for %s found in cache", req.ExerciseType)
		var resp AnalyzeResponse
		if err = json.Unmarshal(cachedBytes, &resp); err == nil {
			return &resp
		} else {
			log.Errorf("failed to unmarshal cached pose analysis: %s", err)
		}
	}

	analyzeCtx, cancel := context.WithTimeout(ctx, handler.analysisTimeout)
	defer cancel()

	mimeType := pkg.PickMIME("", mimeHint, image)
	rawResponse, err := handler.analyzer.AnalyzePose(analyzeCtx, image, mimeType, req.ExerciseType)
	if err != nil {
		log.Errorf("pose analysis error: %s", err)
		return degradedAnalyzeResponse(err.Error())
	}
	log.Tracef("pose analysis raw response: %s", rawResponse)

	analysis := ParseResponse(rawResponse)
	if len(rawResponse) > maxRawResponseChars {
		rawResponse = rawResponse[:maxRawResponseChars]
	}
	resp := &AnalyzeResponse{
		Position:    analysis.Position,
		ShoulderY:   analysis.ShoulderY,
		Confidence:  analysis.Confidence,
		Message:     fmt.Sprintf("Detected %s position at y=%.2f", analysis.Position, analysis.ShoulderY),
		RawResponse: rawResponse,
	}

	// only successful analyses get cached, a transient model failure
	// must not pin the degraded result for the same frame
	if respBytes, err := json.Marshal(resp); err == nil {
		if err := handler.cache.Set(cacheKey, respBytes, analysisCacheExpire); err != nil {
			log.Errorf("failed to cache pose analysis: %s", err)
		}
	}

	return resp
}

func degradedAnalyzeResponse(message string) *AnalyzeResponse {
	return &AnalyzeResponse{
		Position:    PositionUnknown,
		ShoulderY:   0.5,
		Confidence:  ConfidenceLow,
		Message:     message,
		RawResponse: "",
	}
}

func analysisCacheKey(image []byte, exerciseType string) []byte {
	h := sha256.New()
	h.Write(image)
	h.Write([]byte(exerciseType))
	return h.Sum(nil)
}
