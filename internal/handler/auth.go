package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/primis-labs/primis-backend/dao/model"
	"github.com/primis-labs/primis-backend/internal/resputil"
	"github.com/primis-labs/primis-backend/internal/util"
	"github.com/primis-labs/primis-backend/pkg/config"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewAuthMgr)
}

type AuthMgr struct {
	name string
}

func NewAuthMgr(_ *RegisterConfig) Manager {
	return &AuthMgr{
		name: "auth",
	}
}

func (mgr *AuthMgr) GetName() string { return mgr.name }

func (mgr *AuthMgr) RegisterPublic(g *gin.RouterGroup) {
	g.POST("/login", mgr.Login)
	g.POST("/refresh", mgr.Refresh)
}

func (mgr *AuthMgr) RegisterProtected(_ *gin.RouterGroup) {}

func (mgr *AuthMgr) RegisterAdmin(_ *gin.RouterGroup) {}

type (
	LoginReq struct {
		Name string `json:"name" binding:"required"`
		Key  string `json:"key" binding:"required"`
	}
	LoginResp struct {
		AccessToken  string     `json:"accessToken"`
		RefreshToken string     `json:"refreshToken"`
		Role         model.Role `json:"role"`
	}
	RefreshReq struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
)

// Login exchanges an operator key for a token pair. Keys are set in config;
// there is no self-service signup on this surface.
func (mgr *AuthMgr) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequest(c, err.Error())
		return
	}

	authConf := config.GetConfig().Auth
	var role model.Role
	switch {
	case authConf.AdminKey != "" && req.Key == authConf.AdminKey:
		role = model.RoleAdmin
	case authConf.OperatorKey != "" && req.Key == authConf.OperatorKey:
		role = model.RoleUser
	default:
		resputil.Error(c, "invalid credentials", resputil.InvalidCredentials)
		return
	}

	msg := util.JWTMessage{Username: req.Name, RolePlatform: role}
	access, refresh, err := util.GetTokenMgr().CreateTokens(&msg)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, LoginResp{AccessToken: access, RefreshToken: refresh, Role: role})
}

func (mgr *AuthMgr) Refresh(c *gin.Context) {
	var req RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequest(c, err.Error())
		return
	}

	msg, err := util.GetTokenMgr().CheckToken(req.RefreshToken)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.TokenInvalid)
		return
	}
	access, refresh, err := util.GetTokenMgr().CreateTokens(&msg)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.NotSpecified)
		return
	}
	resputil.Success(c, LoginResp{AccessToken: access, RefreshToken: refresh, Role: msg.RolePlatform})
}
