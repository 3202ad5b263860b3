package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalID(t *testing.T) {
	tests := []struct {
		provider string
		name     string
		want     string
	}{
		{"runpod", "RTX 4090", "runpod-rtx-4090"},
		{"runpod", "NVIDIA A100 80GB", "runpod-a100-80gb"},
		{"lambdalabs", "NVIDIA  H100  SXM", "lambdalabs-h100-sxm"},
		{"together", "Llama 3.1 70B Instruct", "together-llama-3-1-70b-instruct"},
		{"RunPod", " rtx 4090 ", "runpod-rtx-4090"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalID(tt.provider, tt.name))
	}
}

func TestParseOfferingID(t *testing.T) {
	id, err := ParseOfferingID("runpod-rtx-4090")
	require.NoError(t, err)
	assert.Equal(t, "runpod", id.Provider)
	assert.Equal(t, "rtx-4090", id.Slug)
	assert.Equal(t, "runpod-rtx-4090", id.String())

	_, err = ParseOfferingID("runpod")
	assert.Error(t, err)
	_, err = ParseOfferingID("")
	assert.Error(t, err)
}

func TestCalculateSavings(t *testing.T) {
	assert.Equal(t, 50, CalculateSavings(50, 100))
	assert.Equal(t, 0, CalculateSavings(30, 0))
	assert.Equal(t, 0, CalculateSavings(99, -1))
	assert.Equal(t, 25, CalculateSavings(0.30, 0.40))
	assert.Equal(t, 0, CalculateSavings(100, 100))
}

func TestNormalizedGPUType(t *testing.T) {
	assert.Equal(t, "A100 80GB", NormalizedGPUType("NVIDIA A100 80GB"))
	assert.Equal(t, "RTX 4090", NormalizedGPUType("rtx  4090"))
}
