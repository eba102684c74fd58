package groq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
	"github.com/Yajiroobe/SAE-VISION360/internal/infrastructure/llm"
	"github.com/Yajiroobe/SAE-VISION360/internal/infrastructure/resilience"
)

const defaultBaseURL = "https://api.groq.com"

// Low temperature keeps the structured advice stable across calls.
const temperature = 0.2

// Client relays scene descriptions plus a user profile to the Groq chat
// API and parses the strict-JSON recommendation it returns.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Config struct {
	BaseURL  string
	APIKey   string
	Model    string
	Executor *resilience.Executor
}

func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "llama-3.1-8b-instant"
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		executor:   cfg.Executor,
	}
}

func (c *Client) Recommend(ctx context.Context, description string, profile domain.UserProfile) (domain.Recommendation, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return domain.Recommendation{}, domain.WrapError(domain.ErrUpstream, "groq recommend", errors.New("missing api key"))
	}

	body := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildUserPrompt(description, profile)},
		},
		"temperature": temperature,
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/openai/v1/chat/completions", body, &response, "recommend")
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "groq.recommend", call, llm.ClassifyVendorError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.Recommendation{}, llm.WrapUpstream("groq recommend", err)
	}

	if len(response.Choices) == 0 {
		return domain.Recommendation{}, domain.WrapError(domain.ErrParse, "groq recommend", errors.New("no choices in response"))
	}
	return parseRecommendation(response.Choices[0].Message.Content)
}

// parseRecommendation requires all three recommendation keys; a payload
// that is not JSON or misses a key is a parse failure, never repaired.
func parseRecommendation(content string) (domain.Recommendation, error) {
	var shaped struct {
		Summary *string   `json:"summary"`
		Risks   *[]string `json:"risks"`
		Actions *[]string `json:"actions"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(content)), &shaped); err != nil {
		return domain.Recommendation{}, domain.WrapError(domain.ErrParse, "parse recommendation", err)
	}
	if shaped.Summary == nil || shaped.Risks == nil || shaped.Actions == nil {
		return domain.Recommendation{}, domain.WrapError(
			domain.ErrParse,
			"parse recommendation",
			fmt.Errorf("missing keys in payload: %q", content),
		)
	}
	return domain.Recommendation{
		Summary: *shaped.Summary,
		Risks:   *shaped.Risks,
		Actions: *shaped.Actions,
	}, nil
}

// extractJSONObject trims model chatter (code fences, prose) around the
// JSON body.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
