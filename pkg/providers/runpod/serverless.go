package runpod

import (
	"context"
	"fmt"
	"time"

	"github.com/imroc/req/v3"

	"github.com/primis-labs/primis-backend/pkg/models"
	"github.com/primis-labs/primis-backend/pkg/provider"
)

const defaultServerlessURL = "https://api.runpod.ai/v2"

func newServerlessClient(cfg Config) *req.Client {
	base := cfg.ServerlessURL
	if base == "" {
		base = defaultServerlessURL
	}
	return req.C().
		SetBaseURL(base).
		SetTimeout(2 * time.Minute).
		SetCommonBearerAuthToken(cfg.APIKey).
		SetCommonHeader("Content-Type", "application/json")
}

// GetModels serves the curated endpoint catalog. Entries are unavailable
// until the adapter has credentials; the catalog itself never disappears.
func (a *Adapter) GetModels(_ context.Context) ([]models.ModelOffering, error) {
	configured := a.IsConfigured()
	offerings := make([]models.ModelOffering, 0, len(modelCatalog))
	for _, spec := range modelCatalog {
		offerings = append(offerings, models.ModelOffering{
			ID:            provider.CanonicalID(Name, spec.name),
			Provider:      Name,
			Name:          spec.name,
			Category:      spec.category,
			InputPrice:    spec.inputPrice,
			OutputPrice:   spec.outputPrice,
			PriceUnit:     spec.priceUnit,
			ContextLength: spec.context,
			Available:     configured,
			Streaming:     spec.streaming,
			Metadata:      map[string]string{"endpoint": spec.endpoint},
		})
	}
	return offerings, nil
}

// endpointForModel resolves a canonical model slug to a serverless endpoint.
func (a *Adapter) endpointForModel(slug string, category models.ModelCategory) (modelSpec, error) {
	for _, spec := range modelCatalog {
		id, err := provider.ParseOfferingID(provider.CanonicalID(Name, spec.name))
		if err != nil {
			continue
		}
		if id.Slug == slug {
			if spec.category != category {
				return modelSpec{}, &models.UnsupportedOperationError{
					Provider:  Name,
					Operation: fmt.Sprintf("%s with %s model %q", category, spec.category, spec.name),
				}
			}
			return spec, nil
		}
	}
	return modelSpec{}, &models.NotFoundError{Kind: "model", ID: slug}
}

type runsyncRequest struct {
	Input map[string]any `json:"input"`
}

type runsyncResponse struct {
	ID     string         `json:"id"`
	Status string         `json:"status"`
	Output map[string]any `json:"output"`
	Error  string         `json:"error,omitempty"`
}

func (a *Adapter) runsync(ctx context.Context, endpoint string, input map[string]any) (*runsyncResponse, error) {
	if !a.IsConfigured() {
		return nil, &models.ConfigurationError{Provider: Name, Missing: "api key"}
	}
	var out runsyncResponse
	resp, err := a.sls.R().
		SetContext(ctx).
		SetPathParam("endpoint", endpoint).
		SetBody(runsyncRequest{Input: input}).
		SetSuccessResult(&out).
		Post("/{endpoint}/runsync")
	if err != nil {
		return nil, &models.UpstreamError{Provider: Name, Operation: "runsync " + endpoint, Err: err}
	}
	if resp.IsErrorState() {
		return nil, &models.UpstreamError{
			Provider:   Name,
			Operation:  "runsync " + endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", resp.String()),
		}
	}
	if out.Error != "" {
		return nil, &models.UpstreamError{
			Provider:  Name,
			Operation: "runsync " + endpoint,
			Err:       fmt.Errorf("endpoint error: %s", out.Error),
		}
	}
	return &out, nil
}

func outputString(out map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := out[key].(string); ok {
			return v
		}
	}
	return ""
}

func (a *Adapter) GenerateText(ctx context.Context, model string, request models.TextRequest) (*models.TextResult, error) {
	spec, err := a.endpointForModel(model, models.CategoryText)
	if err != nil {
		return nil, err
	}
	input := map[string]any{"prompt": request.Prompt}
	if request.System != "" {
		input["system_prompt"] = request.System
	}
	if request.MaxTokens > 0 {
		input["max_tokens"] = request.MaxTokens
	}
	if request.Temperature != nil {
		input["temperature"] = *request.Temperature
	}
	resp, err := a.runsync(ctx, spec.endpoint, input)
	if err != nil {
		return nil, err
	}
	return &models.TextResult{Text: outputString(resp.Output, "text", "generated_text")}, nil
}

func (a *Adapter) GenerateImage(ctx context.Context, model string, request models.ImageRequest) (*models.ImageResult, error) {
	spec, err := a.endpointForModel(model, models.CategoryImage)
	if err != nil {
		return nil, err
	}
	input := map[string]any{"prompt": request.Prompt}
	if request.NegativePrompt != "" {
		input["negative_prompt"] = request.NegativePrompt
	}
	if request.Width > 0 {
		input["width"] = request.Width
	}
	if request.Height > 0 {
		input["height"] = request.Height
	}
	resp, err := a.runsync(ctx, spec.endpoint, input)
	if err != nil {
		return nil, err
	}
	result := &models.ImageResult{}
	if url := outputString(resp.Output, "image_url"); url != "" {
		result.URLs = append(result.URLs, url)
	}
	if b64 := outputString(resp.Output, "image"); b64 != "" {
		result.Base64 = append(result.Base64, b64)
	}
	return result, nil
}

func (a *Adapter) TranscribeAudio(ctx context.Context, model string, request models.AudioRequest) (*models.AudioResult, error) {
	spec, err := a.endpointForModel(model, models.CategoryAudio)
	if err != nil {
		return nil, err
	}
	input := map[string]any{}
	if request.AudioURL != "" {
		input["audio"] = request.AudioURL
	}
	if request.Base64 != "" {
		input["audio_base64"] = request.Base64
	}
	if request.Language != "" {
		input["language"] = request.Language
	}
	resp, err := a.runsync(ctx, spec.endpoint, input)
	if err != nil {
		return nil, err
	}
	return &models.AudioResult{Text: outputString(resp.Output, "transcription", "text")}, nil
}

// GenerateEmbedding is not offered: no embedding endpoints in the curated
// catalog.
func (a *Adapter) GenerateEmbedding(_ context.Context, _ string, _ models.EmbeddingRequest) (*models.EmbeddingResult, error) {
	return nil, &models.UnsupportedOperationError{Provider: Name, Operation: "embeddings"}
}
