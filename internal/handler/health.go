package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/primis-labs/primis-backend/internal/resputil"
	"github.com/primis-labs/primis-backend/pkg/provider/registry"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewProviderMgr)
}

type ProviderMgr struct {
	name     string
	registry *registry.Registry
}

func NewProviderMgr(conf *RegisterConfig) Manager {
	return &ProviderMgr{
		name:     "providers",
		registry: conf.Registry,
	}
}

func (mgr *ProviderMgr) GetName() string { return mgr.name }

func (mgr *ProviderMgr) RegisterPublic(g *gin.RouterGroup) {
	g.GET("/health", mgr.ProviderHealth)
}

func (mgr *ProviderMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *ProviderMgr) RegisterAdmin(_ *gin.RouterGroup) {}

// ProviderHealth godoc
//
//	@Summary	Live health of every registered provider
//	@Tags		providers
//	@Produce	json
//	@Success	200	{object}	resputil.Response[[]models.ProviderHealth]
//	@Router		/v1/providers/health [get]
func (mgr *ProviderMgr) ProviderHealth(c *gin.Context) {
	probes, err := mgr.registry.GetAllProviderHealth(c.Request.Context())
	if err != nil {
		resputil.WrapServiceError(c, err)
		return
	}
	resputil.Success(c, probes)
}
