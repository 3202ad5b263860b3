package models

// ModelCategory classifies a serverless model offering.
type ModelCategory string

const (
	CategoryText      ModelCategory = "text"
	CategoryImage     ModelCategory = "image"
	CategoryAudio     ModelCategory = "audio"
	CategoryEmbedding ModelCategory = "embedding"
)

// ParseModelCategory validates a caller-supplied category string.
func ParseModelCategory(s string) (ModelCategory, error) {
	switch ModelCategory(s) {
	case CategoryText, CategoryImage, CategoryAudio, CategoryEmbedding:
		return ModelCategory(s), nil
	}
	return "", &UnknownCategoryError{Category: s}
}

// GPUOffering is a rentable GPU instance type in the aggregated catalog.
// ID is always canonical: {provider}-{slug}, see provider.CanonicalID.
type GPUOffering struct {
	ID           string            `json:"id"`
	Provider     string            `json:"provider"`
	GPUType      string            `json:"gpuType"`
	VRAMGb       int               `json:"vramGb"`
	GPUCount     int               `json:"gpuCount"`
	PricePerHour float64           `json:"pricePerHour"`
	MarketPrice  float64           `json:"marketPrice"`
	Available    bool              `json:"available"`
	Region       string            `json:"region,omitempty"`
	Reliability  float64           `json:"reliability"` // [0,1]
	SavingsPct   int               `json:"savingsPercent"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// ModelOffering is a serverless inference model in the aggregated catalog.
type ModelOffering struct {
	ID            string            `json:"id"`
	Provider      string            `json:"provider"`
	Name          string            `json:"name"`
	Category      ModelCategory     `json:"category"`
	InputPrice    float64           `json:"inputPrice"`
	OutputPrice   float64           `json:"outputPrice,omitempty"`
	PriceUnit     string            `json:"priceUnit"`
	ContextLength int               `json:"contextLength,omitempty"`
	Available     bool              `json:"available"`
	Streaming     bool              `json:"streaming"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}
