package together

import (
	"context"
	"time"

	"github.com/primis-labs/primis-backend/pkg/models"
	"github.com/primis-labs/primis-backend/pkg/provider"
)

// Name is the provider token used in canonical ids.
const Name = "together"

type Config struct {
	APIKey  string
	BaseURL string
}

// Adapter implements the serverless facet only; Together rents no raw GPU
// instances.
type Adapter struct {
	cfg    Config
	client *client
}

var _ provider.ServerlessProvider = (*Adapter)(nil)

func New(cfg Config) *Adapter {
	return &Adapter{
		cfg:    cfg,
		client: newClient(cfg.APIKey, cfg.BaseURL),
	}
}

func (a *Adapter) Name() string { return Name }

func (a *Adapter) IsConfigured() bool { return a.cfg.APIKey != "" }

func (a *Adapter) GetHealth(ctx context.Context) models.ProviderHealth {
	health := models.ProviderHealth{Provider: Name, CheckedAt: time.Now()}
	if !a.IsConfigured() {
		health.Status = models.HealthUnavailable
		health.Message = "api key not configured"
		return health
	}
	start := time.Now()
	err := a.client.ping(ctx)
	health.LatencyMs = time.Since(start).Milliseconds()
	switch {
	case err != nil:
		health.Status = models.HealthUnavailable
		health.Message = err.Error()
	case health.LatencyMs > 2000:
		health.Status = models.HealthDegraded
		health.Message = "high API latency"
	default:
		health.Status = models.HealthHealthy
	}
	return health
}

// staticCatalog is the coming-soon sheet served while unconfigured; once
// credentials exist GetModels reflects the live model list instead.
var staticCatalog = []struct {
	vendorID    string
	name        string
	category    models.ModelCategory
	inputPrice  float64
	outputPrice float64
	context     int
	streaming   bool
}{
	{"meta-llama/Meta-Llama-3.1-70B-Instruct-Turbo", "Llama 3.1 70B Instruct Turbo", models.CategoryText, 0.88, 0.88, 131072, true},
	{"meta-llama/Meta-Llama-3.1-8B-Instruct-Turbo", "Llama 3.1 8B Instruct Turbo", models.CategoryText, 0.18, 0.18, 131072, true},
	{"mistralai/Mixtral-8x7B-Instruct-v0.1", "Mixtral 8x7B Instruct", models.CategoryText, 0.60, 0.60, 32768, true},
	{"black-forest-labs/FLUX.1-schnell", "FLUX.1 schnell", models.CategoryImage, 0.0027, 0, 0, false},
	{"togethercomputer/m2-bert-80M-32k-retrieval", "M2-BERT 80M 32K Retrieval", models.CategoryEmbedding, 0.008, 0, 32768, false},
	{"openai/whisper-large-v3", "Whisper Large v3", models.CategoryAudio, 0.0006, 0, 0, false},
}

const priceUnit = "per-1m-tokens"

func (a *Adapter) staticModels() []models.ModelOffering {
	offerings := make([]models.ModelOffering, 0, len(staticCatalog))
	for _, spec := range staticCatalog {
		offerings = append(offerings, models.ModelOffering{
			ID:            provider.CanonicalID(Name, spec.name),
			Provider:      Name,
			Name:          spec.name,
			Category:      spec.category,
			InputPrice:    spec.inputPrice,
			OutputPrice:   spec.outputPrice,
			PriceUnit:     priceUnit,
			ContextLength: spec.context,
			Available:     false,
			Streaming:     spec.streaming,
			Metadata:      map[string]string{"model": spec.vendorID},
		})
	}
	return offerings
}

func (a *Adapter) GetModels(ctx context.Context) ([]models.ModelOffering, error) {
	if !a.IsConfigured() {
		return a.staticModels(), nil
	}
	raw, err := a.client.listModels(ctx)
	if err != nil {
		return nil, err
	}
	offerings := make([]models.ModelOffering, 0, len(raw))
	for _, m := range raw {
		category, ok := mapModelType(m.Type)
		if !ok {
			continue
		}
		name := m.DisplayName
		if name == "" {
			name = m.ID
		}
		offerings = append(offerings, models.ModelOffering{
			ID:            provider.CanonicalID(Name, name),
			Provider:      Name,
			Name:          name,
			Category:      category,
			InputPrice:    m.Pricing.Input,
			OutputPrice:   m.Pricing.Output,
			PriceUnit:     priceUnit,
			ContextLength: m.ContextLength,
			Available:     true,
			Streaming:     category == models.CategoryText,
			Metadata:      map[string]string{"model": m.ID},
		})
	}
	return offerings, nil
}

func mapModelType(t string) (models.ModelCategory, bool) {
	switch t {
	case "chat", "language":
		return models.CategoryText, true
	case "image":
		return models.CategoryImage, true
	case "embedding":
		return models.CategoryEmbedding, true
	case "audio", "transcribe":
		return models.CategoryAudio, true
	}
	return "", false
}

// vendorModelID resolves a canonical slug to the vendor's model id, checking
// the live list first and the static sheet as fallback.
func (a *Adapter) vendorModelID(ctx context.Context, slug string, category models.ModelCategory) (string, error) {
	if !a.IsConfigured() {
		return "", &models.ConfigurationError{Provider: Name, Missing: "api key"}
	}
	offerings, err := a.GetModels(ctx)
	if err != nil {
		offerings = a.staticModels()
	}
	for _, m := range offerings {
		id, parseErr := provider.ParseOfferingID(m.ID)
		if parseErr != nil || id.Slug != slug {
			continue
		}
		if m.Category != category {
			return "", &models.UnsupportedOperationError{
				Provider:  Name,
				Operation: string(category) + " with " + string(m.Category) + " model " + m.Name,
			}
		}
		return m.Metadata["model"], nil
	}
	return "", &models.NotFoundError{Kind: "model", ID: slug}
}

func (a *Adapter) GenerateText(ctx context.Context, model string, request models.TextRequest) (*models.TextResult, error) {
	vendorID, err := a.vendorModelID(ctx, model, models.CategoryText)
	if err != nil {
		return nil, err
	}
	messages := make([]chatMessage, 0, 2)
	if request.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: request.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: request.Prompt})

	resp, err := a.client.chatCompletion(ctx, chatReq{
		Model:       vendorID,
		Messages:    messages,
		MaxTokens:   request.MaxTokens,
		Temperature: request.Temperature,
		Stop:        request.Stop,
	})
	if err != nil {
		return nil, err
	}
	result := &models.TextResult{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}
	if len(resp.Choices) > 0 {
		result.Text = resp.Choices[0].Message.Content
		result.FinishReason = resp.Choices[0].FinishReason
	}
	return result, nil
}

func (a *Adapter) GenerateImage(ctx context.Context, model string, request models.ImageRequest) (*models.ImageResult, error) {
	vendorID, err := a.vendorModelID(ctx, model, models.CategoryImage)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.imageGeneration(ctx, imageReq{
		Model:          vendorID,
		Prompt:         request.Prompt,
		NegativePrompt: request.NegativePrompt,
		Width:          request.Width,
		Height:         request.Height,
		Steps:          request.Steps,
		N:              1,
	})
	if err != nil {
		return nil, err
	}
	result := &models.ImageResult{}
	for _, d := range resp.Data {
		if d.URL != "" {
			result.URLs = append(result.URLs, d.URL)
		}
		if d.B64JSON != "" {
			result.Base64 = append(result.Base64, d.B64JSON)
		}
	}
	return result, nil
}

// TranscribeAudio is not offered over this adapter's REST surface.
func (a *Adapter) TranscribeAudio(_ context.Context, _ string, _ models.AudioRequest) (*models.AudioResult, error) {
	return nil, &models.UnsupportedOperationError{Provider: Name, Operation: "audio transcription"}
}

func (a *Adapter) GenerateEmbedding(ctx context.Context, model string, request models.EmbeddingRequest) (*models.EmbeddingResult, error) {
	vendorID, err := a.vendorModelID(ctx, model, models.CategoryEmbedding)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.embeddings(ctx, embeddingReq{Model: vendorID, Input: request.Inputs})
	if err != nil {
		return nil, err
	}
	result := &models.EmbeddingResult{}
	for _, d := range resp.Data {
		result.Embeddings = append(result.Embeddings, d.Embedding)
	}
	if len(result.Embeddings) > 0 {
		result.Dimensions = len(result.Embeddings[0])
	}
	return result, nil
}
