package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/primis-labs/primis-backend/internal/resputil"
	"github.com/primis-labs/primis-backend/pkg/provider/registry"
	"github.com/primis-labs/primis-backend/pkg/router"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewOfferingMgr)
}

type OfferingMgr struct {
	name     string
	registry *registry.Registry
	router   *router.SmartRouter
}

func NewOfferingMgr(conf *RegisterConfig) Manager {
	return &OfferingMgr{
		name:     "offerings",
		registry: conf.Registry,
		router:   conf.Router,
	}
}

func (mgr *OfferingMgr) GetName() string { return mgr.name }

// Catalog reads are public: the marketplace storefront renders them before
// anyone logs in.
func (mgr *OfferingMgr) RegisterPublic(g *gin.RouterGroup) {
	g.GET("/gpu", mgr.ListGPUOfferings)
	g.GET("/models", mgr.ListModelOfferings)
	g.GET("/compare", mgr.ComparePrices)
}

func (mgr *OfferingMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *OfferingMgr) RegisterAdmin(_ *gin.RouterGroup) {}

// ListGPUOfferings godoc
//
//	@Summary		Aggregated GPU catalog
//	@Description	All providers' GPU offerings merged, cheapest first
//	@Tags			offerings
//	@Produce		json
//	@Success		200	{object}	resputil.Response[[]models.GPUOffering]
//	@Router			/v1/offerings/gpu [get]
func (mgr *OfferingMgr) ListGPUOfferings(c *gin.Context) {
	offerings, err := mgr.registry.GetAllGPUOfferings(c.Request.Context())
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, offerings)
}

// ListModelOfferings godoc
//
//	@Summary		Aggregated serverless model catalog
//	@Tags			offerings
//	@Produce		json
//	@Success		200	{object}	resputil.Response[[]models.ModelOffering]
//	@Router			/v1/offerings/models [get]
func (mgr *OfferingMgr) ListModelOfferings(c *gin.Context) {
	offerings, err := mgr.registry.GetAllModelOfferings(c.Request.Context())
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, offerings)
}

type ComparePricesReq struct {
	GPUType string `form:"gpuType" binding:"required"`
}

// ComparePrices godoc
//
//	@Summary		Cheapest price per provider for a GPU type
//	@Tags			offerings
//	@Produce		json
//	@Param			gpuType	query		string	true	"GPU type, e.g. RTX 4090"
//	@Success		200		{object}	resputil.Response[router.PriceComparison]
//	@Router			/v1/offerings/compare [get]
func (mgr *OfferingMgr) ComparePrices(c *gin.Context) {
	var req ComparePricesReq
	if err := c.ShouldBindQuery(&req); err != nil {
		resputil.BadRequest(c, err.Error())
		return
	}
	comparison, err := mgr.router.ComparePrices(c.Request.Context(), req.GPUType)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, comparison)
}
