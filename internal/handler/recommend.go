package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/primis-labs/primis-backend/internal/resputil"
	"github.com/primis-labs/primis-backend/pkg/router"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewRecommendMgr)
}

type RecommendMgr struct {
	name   string
	router *router.SmartRouter
}

func NewRecommendMgr(conf *RegisterConfig) Manager {
	return &RecommendMgr{
		name:   "recommendations",
		router: conf.Router,
	}
}

func (mgr *RecommendMgr) GetName() string { return mgr.name }

// Recommendations are public reads over the same cached catalog the
// storefront shows.
func (mgr *RecommendMgr) RegisterPublic(g *gin.RouterGroup) {
	g.POST("/gpu", mgr.RecommendGPU)
	g.POST("/model", mgr.RecommendModel)
	g.GET("/quick/:usecase", mgr.QuickRecommendation)
}

func (mgr *RecommendMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *RecommendMgr) RegisterAdmin(_ *gin.RouterGroup) {}

// RecommendGPU godoc
//
//	@Summary		Scored GPU recommendations
//	@Description	Filters the aggregated catalog and ranks it by the requested strategy
//	@Tags			recommendations
//	@Accept			json
//	@Produce		json
//	@Param			data	body		router.GPURequirements	true	"requirements"
//	@Success		200		{object}	resputil.Response[router.GPURecommendationResult]
//	@Router			/v1/recommendations/gpu [post]
func (mgr *RecommendMgr) RecommendGPU(c *gin.Context) {
	var req router.GPURequirements
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequest(c, err.Error())
		return
	}
	result, err := mgr.router.GetGPURecommendations(c.Request.Context(), req)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, result)
}

// RecommendModel godoc
//
//	@Summary	Scored serverless model recommendations
//	@Tags		recommendations
//	@Accept		json
//	@Produce	json
//	@Param		data	body		router.ModelRequirements	true	"requirements"
//	@Success	200		{object}	resputil.Response[router.ModelRecommendationResult]
//	@Router		/v1/recommendations/model [post]
func (mgr *RecommendMgr) RecommendModel(c *gin.Context) {
	var req router.ModelRequirements
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequest(c, err.Error())
		return
	}
	result, err := mgr.router.GetModelRecommendations(c.Request.Context(), req)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, result)
}

// QuickRecommendation godoc
//
//	@Summary	One-call recommendation for a named use case
//	@Tags		recommendations
//	@Produce	json
//	@Param		usecase	path		string	true	"use case, e.g. inference-small"
//	@Success	200		{object}	resputil.Response[router.QuickRecommendation]
//	@Router		/v1/recommendations/quick/{usecase} [get]
func (mgr *RecommendMgr) QuickRecommendation(c *gin.Context) {
	useCase := c.Param("usecase")
	result, err := mgr.router.GetQuickRecommendation(c.Request.Context(), useCase)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, result)
}
