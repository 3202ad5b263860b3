package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/primis-labs/primis-backend/dao/model"
	"github.com/primis-labs/primis-backend/internal/resputil"
	"github.com/primis-labs/primis-backend/internal/util"
	"github.com/primis-labs/primis-backend/pkg/db/launchrecord"
	"github.com/primis-labs/primis-backend/pkg/models"
	"github.com/primis-labs/primis-backend/pkg/provider/registry"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewInstanceMgr)
}

type InstanceMgr struct {
	name     string
	registry *registry.Registry
	store    launchrecord.DBService
}

func NewInstanceMgr(conf *RegisterConfig) Manager {
	return &InstanceMgr{
		name:     "instances",
		registry: conf.Registry,
		store:    conf.LaunchStore,
	}
}

func (mgr *InstanceMgr) GetName() string { return mgr.name }

func (mgr *InstanceMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *InstanceMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.ListInstances)
	g.POST("/launch", mgr.LaunchInstance)
	g.GET("/:provider/:id", mgr.GetInstance)
	g.POST("/:provider/:id/stop", mgr.StopInstance)
	g.POST("/:provider/:id/start", mgr.StartInstance)
	g.DELETE("/:provider/:id", mgr.TerminateInstance)
}

func (mgr *InstanceMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	LaunchInstanceReq struct {
		models.LaunchConfig
		PreferredProvider string `json:"preferredProvider,omitempty"`
	}
	InstanceURI struct {
		Provider string `uri:"provider" binding:"required"`
		ID       string `uri:"id" binding:"required"`
	}
)

// LaunchInstance godoc
//
//	@Summary		Launch a GPU instance
//	@Description	Routes to the provider named in the offering id, the preferred provider, or the first configured one
//	@Tags			instances
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Param			data	body		LaunchInstanceReq	true	"launch config"
//	@Success		200		{object}	resputil.Response[models.Instance]
//	@Router			/v1/instances/launch [post]
func (mgr *InstanceMgr) LaunchInstance(c *gin.Context) {
	var req LaunchInstanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	actor := util.GetToken(c).Username
	instance, err := mgr.registry.LaunchInstance(ctx, req.LaunchConfig,
		models.LaunchOptions{PreferredProvider: req.PreferredProvider})

	// The audit write must not fail the launch; the store logs its own errors.
	_ = mgr.store.RecordLaunch(ctx, actor, req.LaunchConfig, instance, err)

	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, instance)
}

// ListInstances godoc
//
//	@Summary	All instances across configured providers
//	@Tags		instances
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	resputil.Response[[]models.Instance]
//	@Router		/v1/instances [get]
func (mgr *InstanceMgr) ListInstances(c *gin.Context) {
	instances, err := mgr.registry.ListInstances(c.Request.Context())
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, instances)
}

func (mgr *InstanceMgr) GetInstance(c *gin.Context) {
	var uri InstanceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequest(c, err.Error())
		return
	}
	instance, err := mgr.registry.GetInstance(c.Request.Context(), uri.ID, uri.Provider)
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, instance)
}

func (mgr *InstanceMgr) StopInstance(c *gin.Context) {
	mgr.lifecycleAction(c, model.ActionStop, mgr.registry.StopInstance)
}

func (mgr *InstanceMgr) StartInstance(c *gin.Context) {
	mgr.lifecycleAction(c, model.ActionStart, mgr.registry.StartInstance)
}

func (mgr *InstanceMgr) TerminateInstance(c *gin.Context) {
	mgr.lifecycleAction(c, model.ActionTerminate, mgr.registry.TerminateInstance)
}

func (mgr *InstanceMgr) lifecycleAction(c *gin.Context, action model.LaunchAction,
	do func(ctx context.Context, id, providerName string) error) {
	var uri InstanceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		resputil.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	err := do(ctx, uri.ID, uri.Provider)
	_ = mgr.store.RecordAction(ctx, util.GetToken(c).Username, action, uri.Provider, uri.ID, err)

	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, gin.H{"id": uri.ID, "provider": uri.Provider, "action": action})
}
