package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/primis-labs/primis-backend/pkg/db/launchrecord"
	"github.com/primis-labs/primis-backend/pkg/provider/registry"
	"github.com/primis-labs/primis-backend/pkg/router"
)

type Manager interface {
	GetName() string
	RegisterPublic(group *gin.RouterGroup)
	RegisterProtected(group *gin.RouterGroup)
	RegisterAdmin(group *gin.RouterGroup)
}

// RegisterConfig carries the shared dependencies handed to every manager.
type RegisterConfig struct {
	Registry    *registry.Registry
	Router      *router.SmartRouter
	LaunchStore launchrecord.DBService
}

// Registers collects the manager constructors; each handler file appends its
// own in init().
var Registers []func(*RegisterConfig) Manager
