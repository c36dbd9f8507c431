package pose

import (
	"math"
	"strconv"
	"strings"
)

const (
	PositionUp      = "up"
	PositionDown    = "down"
	PositionUnknown = "unknown"

	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Analysis is the normalized result extracted from a model reply.
// ShoulderY is the vertical shoulder position, 0.0 top of frame, 1.0 bottom.
type Analysis struct {
	Position   string  `json:"position"`
	ShoulderY  float64 `json:"shoulder_y"`
	Confidence string  `json:"confidence"`
}

// ParseResponse extracts the shoulder position from a free text model reply.
// The model is told to answer in a fixed "shoulder_y: / position:" format but
// often does not, so the parser degrades through substring heuristics and
// never fails: unparseable input comes back as unknown with low confidence.
func ParseResponse(response string) Analysis {
	text := strings.ToLower(strings.TrimSpace(response))

	// "shoulder_y: <float>" up to the end of the line, clamped to [0, 1],
	// anything unparseable falls back to the frame middle
	shoulderY := 0.5
	if _, after, found := strings.Cut(text, "shoulder_y:"); found {
		yPart, _, _ := strings.Cut(after, "\n")
		if y, err := strconv.ParseFloat(strings.TrimSpace(yPart), 64); err == nil && !math.IsNaN(y) {
			shoulderY = math.Max(0.0, math.Min(1.0, y))
		}
	}

	var position, confidence string
	switch {
	case strings.Contains(text, "position: up") || strings.Contains(text, "position:up"):
		position, confidence = PositionUp, ConfidenceHigh
	case strings.Contains(text, "position: down") || strings.Contains(text, "position:down"):
		position, confidence = PositionDown, ConfidenceHigh
	case strings.Contains(text, "up") && !strings.Contains(text, "down"):
		position, confidence = PositionUp, ConfidenceMedium
	case strings.Contains(text, "down") && !strings.Contains(text, "up"):
		position, confidence = PositionDown, ConfidenceMedium
	default:
		position, confidence = PositionUnknown, ConfidenceLow
	}

	return Analysis{
		Position:   position,
		ShoulderY:  shoulderY,
		Confidence: confidence,
	}
}
