package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/primis-labs/primis-backend/internal/resputil"
	"github.com/primis-labs/primis-backend/pkg/db/launchrecord"
	"github.com/primis-labs/primis-backend/pkg/router"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewAdminMgr)
}

type AdminMgr struct {
	name   string
	router *router.SmartRouter
	store  launchrecord.DBService
}

func NewAdminMgr(conf *RegisterConfig) Manager {
	return &AdminMgr{
		name:   "operations",
		router: conf.Router,
		store:  conf.LaunchStore,
	}
}

func (mgr *AdminMgr) GetName() string { return mgr.name }

func (mgr *AdminMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *AdminMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *AdminMgr) RegisterAdmin(g *gin.RouterGroup) {
	g.POST("/cache/invalidate", mgr.InvalidateCache)
	g.GET("/launches", mgr.ListLaunchRecords)
}

// InvalidateCache godoc
//
//	@Summary		Drop the router's cached snapshots
//	@Description	The next request refetches from every provider
//	@Tags			admin
//	@Produce		json
//	@Security		Bearer
//	@Success		200	{object}	resputil.Response[any]
//	@Router			/v1/admin/operations/cache/invalidate [post]
func (mgr *AdminMgr) InvalidateCache(c *gin.Context) {
	mgr.router.InvalidateCache()
	resputil.Success(c, gin.H{"invalidated": true})
}

// ListLaunchRecords godoc
//
//	@Summary	Launch audit trail, newest first
//	@Tags		admin
//	@Produce	json
//	@Security	Bearer
//	@Param		provider	query		string	false	"filter by provider"
//	@Param		limit		query		int		false	"max records, default 50"
//	@Success	200			{object}	resputil.Response[[]model.LaunchRecord]
//	@Router		/v1/admin/operations/launches [get]
func (mgr *AdminMgr) ListLaunchRecords(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	records, err := mgr.store.List(c.Request.Context(), c.Query("provider"), limit)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, records)
}
