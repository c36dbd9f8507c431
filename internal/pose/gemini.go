package pose

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.0-flash"

const analyzerSystemInstruction = `You are a fitness pose analyzer. Analyze the image and estimate the vertical position of the person's shoulders.

Your job:
1. Find the person's shoulders in the image
2. Estimate how high/low their shoulders are as a percentage (0.0 = top of frame, 1.0 = bottom of frame)
3. Determine if they are in UP position (shoulders high, arms extended) or DOWN position (shoulders low, arms bent)

RESPOND IN THIS EXACT FORMAT:
shoulder_y: 0.XX
position: up/down/unknown

Example responses:
shoulder_y: 0.35
position: up

shoulder_y: 0.72
position: down`

// GeminiAnalyzer submits workout frames to a Gemini vision model. A client
// is created per call, the model keeps no session state between frames.
type GeminiAnalyzer struct {
	apiKey string
	model  string
}

func NewGeminiAnalyzer(apiKey, model string) *GeminiAnalyzer {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiAnalyzer{
		apiKey: strings.TrimSpace(apiKey),
		model:  strings.TrimSpace(model),
	}
}

// AnalyzePose sends the image to the vision model and returns its raw text
// reply. The reply is meant for ParseResponse, no shape is guaranteed.
func (a *GeminiAnalyzer) AnalyzePose(ctx context.Context, image []byte, mimeType, exerciseType string) (string, error) {
	if a.apiKey == "" {
		return "", errors.New("AI key not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(a.apiKey))
	if err != nil {
		return "", fmt.Errorf("new genai client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(a.model)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(0),
	}
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(analyzerSystemInstruction)},
	}

	prompt := fmt.Sprintf(
		"Analyze this %s position. Where are the shoulders? Give shoulder_y (0.0-1.0) and position (up/down/unknown).",
		exerciseType,
	)
	parts := []genai.Part{
		genai.Text(prompt),
		&genai.Blob{MIMEType: mimeType, Data: image},
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := firstText(resp)
	if text == "" {
		return "", errors.New("empty model response")
	}

	return text, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
