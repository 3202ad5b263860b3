package models

// TextRequest is the canonical input for text generation.
type TextRequest struct {
	Prompt      string   `json:"prompt"`
	System      string   `json:"system,omitempty"`
	MaxTokens   int      `json:"maxTokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// TextResult is the canonical output of text generation.
type TextResult struct {
	Text         string `json:"text"`
	InputTokens  int    `json:"inputTokens"`
	OutputTokens int    `json:"outputTokens"`
	FinishReason string `json:"finishReason,omitempty"`
}

// ImageRequest is the canonical input for image generation.
type ImageRequest struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negativePrompt,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	Steps          int    `json:"steps,omitempty"`
}

// ImageResult carries generated image URLs or base64 payloads, vendor's choice.
type ImageResult struct {
	URLs   []string `json:"urls,omitempty"`
	Base64 []string `json:"base64,omitempty"`
}

// AudioRequest is the canonical input for transcription.
type AudioRequest struct {
	AudioURL string `json:"audioUrl,omitempty"`
	Base64   string `json:"base64,omitempty"`
	Language string `json:"language,omitempty"`
}

// AudioResult is a transcription.
type AudioResult struct {
	Text     string  `json:"text"`
	Duration float64 `json:"durationSeconds,omitempty"`
}

// EmbeddingRequest is the canonical input for embedding generation.
type EmbeddingRequest struct {
	Inputs []string `json:"inputs"`
}

// EmbeddingResult holds one vector per input, in order.
type EmbeddingResult struct {
	Embeddings [][]float64 `json:"embeddings"`
	Dimensions int         `json:"dimensions"`
}
