package runpod

import "github.com/primis-labs/primis-backend/pkg/models"

// gpuSpec is curated metadata for one GPU type: market price for savings
// computation plus a fallback list price shown while unconfigured.
type gpuSpec struct {
	name        string
	vramGb      int
	listPrice   float64
	marketPrice float64
	reliability float64
}

// marketPrice columns track on-demand pricing of the big clouds, refreshed
// manually with the price sheet.
var gpuCatalog = []gpuSpec{
	{name: "NVIDIA RTX 4090", vramGb: 24, listPrice: 0.44, marketPrice: 0.69, reliability: 0.92},
	{name: "NVIDIA RTX A4000", vramGb: 16, listPrice: 0.17, marketPrice: 0.32, reliability: 0.90},
	{name: "NVIDIA L40S", vramGb: 48, listPrice: 0.79, marketPrice: 1.14, reliability: 0.93},
	{name: "NVIDIA A100 80GB", vramGb: 80, listPrice: 1.89, marketPrice: 2.75, reliability: 0.95},
	{name: "NVIDIA H100 SXM", vramGb: 80, listPrice: 2.69, marketPrice: 3.89, reliability: 0.95},
	{name: "NVIDIA H200 SXM", vramGb: 141, listPrice: 3.59, marketPrice: 4.90, reliability: 0.94},
}

func gpuSpecByName(name string) (gpuSpec, bool) {
	for _, spec := range gpuCatalog {
		if spec.name == name {
			return spec, true
		}
	}
	return gpuSpec{}, false
}

// modelSpec is one curated serverless endpoint.
type modelSpec struct {
	name        string
	endpoint    string
	category    models.ModelCategory
	inputPrice  float64
	outputPrice float64
	priceUnit   string
	context     int
	streaming   bool
}

var modelCatalog = []modelSpec{
	{name: "Llama 3.1 8B Instruct", endpoint: "llama3-8b", category: models.CategoryText,
		inputPrice: 0.06, outputPrice: 0.09, priceUnit: "per-1m-tokens", context: 131072, streaming: true},
	{name: "Qwen 2.5 72B Instruct", endpoint: "qwen2-72b", category: models.CategoryText,
		inputPrice: 0.79, outputPrice: 0.99, priceUnit: "per-1m-tokens", context: 32768, streaming: true},
	{name: "SDXL Turbo", endpoint: "sdxl-turbo", category: models.CategoryImage,
		inputPrice: 0.0025, priceUnit: "per-image"},
	{name: "Whisper Large v3", endpoint: "whisper-v3", category: models.CategoryAudio,
		inputPrice: 0.0006, priceUnit: "per-second"},
}
