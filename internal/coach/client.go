package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fitflow/fitflow/internal/telemetry/tracing"
)

// FallbackMessage is what the coach says when the upstream model cannot
// be reached. The coach endpoint never fails, it just gets less helpful.
const FallbackMessage = "I'm having trouble connecting to the network. Keep pushing your limits, and I'll be back online soon!"

const systemInstruction = `You are FitFlow, a friendly but firm fitness coach.
You provide concise, actionable advice on workouts, recovery, and nutrition.
Keep your tone encouraging and professional.
Focus on the user's specific weekly plan:
Mon/Thu: Shoulder/Back, Tue: Tricep/Chest, Wed: Arms, Fri: Legs/Core, Sat/Sun: Stretching.`

const (
	answerCacheTTLSeconds = 10 * 60
	temperature           = 0.7
)

// Api talks to the generative language backend. Answers are cached per
// prompt for a short while, repeat questions are common and the upstream
// calls are slow and metered.
type Api struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	cache      *freecache.Cache
}

func NewApi(
	baseURL, apiKey, model string,
	httpClient *http.Client,
	cache *freecache.Cache,
) *Api {
	return &Api{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
		cache:      cache,
	}
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateContentRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Ask sends the prompt to the coach and returns its answer. It never
// fails from the caller's perspective: any upstream problem yields the
// fallback message and usedFallback set to true.
func (api *Api) Ask(ctx context.Context, prompt string) (answer string, usedFallback bool) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "coach.ask")
	defer span.End()

	if cached, err := api.cache.Get([]byte(prompt)); err == nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return string(cached), false
	}

	answer, err := api.generateContent(ctx, prompt)
	if err != nil {
		log.Errorf("coach: generate content: %s", err)
		return FallbackMessage, true
	}

	if err := api.cache.Set([]byte(prompt), []byte(answer), answerCacheTTLSeconds); err != nil {
		log.Tracef("coach: cache answer: %s", err)
	}
	return answer, false
}

func (api *Api) generateContent(ctx context.Context, prompt string) (string, error) {
	reqPayload := generateContentRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}, Role: "user"},
		},
		SystemInstruction: &content{
			Parts: []part{{Text: systemInstruction}},
		},
		GenerationConfig: generationConfig{
			Temperature: temperature,
		},
	}

	reqBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", api.baseURL, api.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", api.apiKey)

	resp, err := api.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, respBytes)
	}

	var respPayload generateContentResponse
	if err := json.Unmarshal(respBytes, &respPayload); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(respPayload.Candidates) == 0 || len(respPayload.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response")
	}

	var sb strings.Builder
	for _, p := range respPayload.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
