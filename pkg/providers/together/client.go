// Package together adapts the Together AI inference platform to the
// serverless facet.
package together

import (
	"context"
	"fmt"
	"time"

	"github.com/imroc/req/v3"

	"github.com/primis-labs/primis-backend/pkg/models"
)

const defaultBaseURL = "https://api.together.xyz/v1"

type client struct {
	http *req.Client
}

func newClient(apiKey, baseURL string) *client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := req.C().
		SetBaseURL(baseURL).
		SetTimeout(2 * time.Minute).
		SetCommonBearerAuthToken(apiKey).
		SetCommonHeader("Content-Type", "application/json")
	return &client{http: c}
}

type modelResp struct {
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	Type          string `json:"type"` // chat, language, image, embedding, audio
	ContextLength int    `json:"context_length"`
	Pricing       struct {
		Input  float64 `json:"input"`
		Output float64 `json:"output"`
	} `json:"pricing"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatReq struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	Stop        []string      `json:"stop,omitempty"`
}

type chatResp struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type imageReq struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	Steps          int    `json:"steps,omitempty"`
	N              int    `json:"n,omitempty"`
}

type imageResp struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

type embeddingReq struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResp struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

func (c *client) call(ctx context.Context, op string, do func(r *req.Request) (*req.Response, error), out any) error {
	r := c.http.R().SetContext(ctx)
	if out != nil {
		r.SetSuccessResult(out)
	}
	resp, err := do(r)
	if err != nil {
		return &models.UpstreamError{Provider: Name, Operation: op, Err: err}
	}
	if resp.StatusCode == 404 {
		return &models.NotFoundError{Kind: "model", ID: op}
	}
	if resp.IsErrorState() {
		return &models.UpstreamError{
			Provider:   Name,
			Operation:  op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", resp.String()),
		}
	}
	return nil
}

func (c *client) listModels(ctx context.Context) ([]modelResp, error) {
	var out []modelResp
	err := c.call(ctx, "list models", func(r *req.Request) (*req.Response, error) {
		return r.Get("/models")
	}, &out)
	return out, err
}

func (c *client) chatCompletion(ctx context.Context, body chatReq) (*chatResp, error) {
	var out chatResp
	err := c.call(ctx, "chat completion", func(r *req.Request) (*req.Response, error) {
		return r.SetBody(body).Post("/chat/completions")
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) imageGeneration(ctx context.Context, body imageReq) (*imageResp, error) {
	var out imageResp
	err := c.call(ctx, "image generation", func(r *req.Request) (*req.Response, error) {
		return r.SetBody(body).Post("/images/generations")
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) embeddings(ctx context.Context, body embeddingReq) (*embeddingResp, error) {
	var out embeddingResp
	err := c.call(ctx, "embeddings", func(r *req.Request) (*req.Response, error) {
		return r.SetBody(body).Post("/embeddings")
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) ping(ctx context.Context) error {
	return c.call(ctx, "ping", func(r *req.Request) (*req.Response, error) {
		return r.Get("/models")
	}, nil)
}
