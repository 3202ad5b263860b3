package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/primis-labs/primis-backend/internal/resputil"
	"github.com/primis-labs/primis-backend/pkg/models"
	"github.com/primis-labs/primis-backend/pkg/provider/registry"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewServerlessMgr)
}

type ServerlessMgr struct {
	name     string
	registry *registry.Registry
}

func NewServerlessMgr(conf *RegisterConfig) Manager {
	return &ServerlessMgr{
		name:     "serverless",
		registry: conf.Registry,
	}
}

func (mgr *ServerlessMgr) GetName() string { return mgr.name }

func (mgr *ServerlessMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *ServerlessMgr) RegisterProtected(g *gin.RouterGroup) {
	g.POST("/text", mgr.GenerateText)
	g.POST("/image", mgr.GenerateImage)
	g.POST("/audio", mgr.TranscribeAudio)
	g.POST("/embedding", mgr.GenerateEmbedding)
}

func (mgr *ServerlessMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	TextInferenceReq struct {
		Model string `json:"model" binding:"required"` // canonical model id
		models.TextRequest
	}
	ImageInferenceReq struct {
		Model string `json:"model" binding:"required"`
		models.ImageRequest
	}
	AudioInferenceReq struct {
		Model string `json:"model" binding:"required"`
		models.AudioRequest
	}
	EmbeddingInferenceReq struct {
		Model string `json:"model" binding:"required"`
		models.EmbeddingRequest
	}
)

// GenerateText godoc
//
//	@Summary	Text generation routed by canonical model id
//	@Tags		serverless
//	@Accept		json
//	@Produce	json
//	@Security	Bearer
//	@Param		data	body		TextInferenceReq	true	"inference request"
//	@Success	200		{object}	resputil.Response[models.TextResult]
//	@Router		/v1/serverless/text [post]
func (mgr *ServerlessMgr) GenerateText(c *gin.Context) {
	var req TextInferenceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequest(c, err.Error())
		return
	}
	result, err := mgr.registry.GenerateText(c.Request.Context(), req.Model, req.TextRequest)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, result)
}

func (mgr *ServerlessMgr) GenerateImage(c *gin.Context) {
	var req ImageInferenceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequest(c, err.Error())
		return
	}
	result, err := mgr.registry.GenerateImage(c.Request.Context(), req.Model, req.ImageRequest)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, result)
}

func (mgr *ServerlessMgr) TranscribeAudio(c *gin.Context) {
	var req AudioInferenceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequest(c, err.Error())
		return
	}
	result, err := mgr.registry.TranscribeAudio(c.Request.Context(), req.Model, req.AudioRequest)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, result)
}

func (mgr *ServerlessMgr) GenerateEmbedding(c *gin.Context) {
	var req EmbeddingInferenceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequest(c, err.Error())
		return
	}
	result, err := mgr.registry.GenerateEmbedding(c.Request.Context(), req.Model, req.EmbeddingRequest)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, result)
}
