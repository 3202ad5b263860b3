package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primis-labs/primis-backend/pkg/provider/registry"
	"github.com/primis-labs/primis-backend/pkg/router"
)

func newTestEngine(managers ...Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	public := engine.Group("/v1")
	for _, mgr := range managers {
		mgr.RegisterPublic(public.Group(mgr.GetName()))
	}
	return engine
}

func testConfig() *RegisterConfig {
	reg := registry.New()
	return &RegisterConfig{
		Registry: reg,
		Router:   router.New(reg),
	}
}

type envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
	Msg  string          `json:"msg"`
}

func TestPublicCatalogRoutes(t *testing.T) {
	conf := testConfig()
	engine := newTestEngine(NewOfferingMgr(conf), NewProviderMgr(conf))

	for _, path := range []string{"/v1/offerings/gpu", "/v1/offerings/models", "/v1/providers/health"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, path)
		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Zero(t, resp.Code, path)
	}
}

func TestCompareRequiresGPUType(t *testing.T) {
	engine := newTestEngine(NewOfferingMgr(testConfig()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/offerings/compare", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompareEmptyCatalogIsNotFoundPayload(t *testing.T) {
	engine := newTestEngine(NewOfferingMgr(testConfig()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/offerings/compare?gpuType=RTX+4090", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	var comparison router.PriceComparison
	require.NoError(t, json.Unmarshal(resp.Data, &comparison))
	assert.False(t, comparison.Found)
	assert.NotEmpty(t, comparison.Message)
}

func TestQuickRecommendationRejectsUnknownUseCase(t *testing.T) {
	engine := newTestEngine(NewRecommendMgr(testConfig()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/recommendations/quick/time-travel", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Msg, "inference-small") // valid use cases are listed
}
