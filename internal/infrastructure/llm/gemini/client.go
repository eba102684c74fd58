package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
	"github.com/Yajiroobe/SAE-VISION360/internal/infrastructure/llm"
	"github.com/Yajiroobe/SAE-VISION360/internal/infrastructure/resilience"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Client relays captured frames to the Gemini vision API and returns the
// free-text scene description.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	apiVersion string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	APIVersion string
	Executor   *resilience.Executor
}

func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash-exp"
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "v1beta"
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      model,
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		executor:   cfg.Executor,
	}
}

// Describe sends the image and prompt to Gemini. The image may carry a
// data URI prefix; only the base64 payload is forwarded.
func (c *Client) Describe(ctx context.Context, imageB64, prompt string) (domain.SceneDescription, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return domain.SceneDescription{}, domain.WrapError(domain.ErrUpstream, "gemini describe", errors.New("missing api key"))
	}

	payload := llm.StripDataURI(imageB64)

	body := map[string]any{
		"contents": []any{
			map[string]any{
				"parts": []any{
					map[string]any{"text": prompt},
					map[string]any{"inline_data": map[string]any{
						"mime_type": "image/jpeg",
						"data":      payload,
					}},
				},
			},
		},
	}

	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	path := fmt.Sprintf("/%s/models/%s:generateContent", c.apiVersion, c.model)
	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, path, body, &response, "describe")
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "gemini.describe", call, llm.ClassifyVendorError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.SceneDescription{}, llm.WrapUpstream("gemini describe", err)
	}

	var parts []string
	for _, cand := range response.Candidates {
		for _, part := range cand.Content.Parts {
			if t := strings.TrimSpace(part.Text); t != "" {
				parts = append(parts, t)
			}
		}
	}
	text := strings.Join(parts, " ")
	if text == "" {
		return domain.SceneDescription{}, domain.WrapError(domain.ErrParse, "gemini describe", errors.New("empty description in response"))
	}

	return domain.SceneDescription{
		Text:   text,
		Model:  c.model,
		Prompt: prompt,
	}, nil
}
