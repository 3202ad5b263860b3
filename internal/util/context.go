package util

import (
	"github.com/gin-gonic/gin"

	"github.com/primis-labs/primis-backend/dao/model"
)

const (
	UsernameKey     = "x-user-name"
	RolePlatformKey = "x-role-platform"
)

func SetJWTContext(c *gin.Context, msg JWTMessage) {
	c.Set(UsernameKey, msg.Username)
	c.Set(RolePlatformKey, msg.RolePlatform)
}

func GetToken(ctx *gin.Context) JWTMessage {
	var msg JWTMessage
	msg.Username = ctx.GetString(UsernameKey)

	rolePlatform, ok := ctx.Get(RolePlatformKey)
	if ok {
		msg.RolePlatform = rolePlatform.(model.Role)
	} else {
		msg.RolePlatform = model.RoleGuest
	}
	return msg
}
