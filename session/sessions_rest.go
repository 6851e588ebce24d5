package session

import (
	"net/http"

	"plmgate/bizerror"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathSessions = "/v1/sessions"
)

func RegisterSessionsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathSessions, middleWares...)
	g.POST("", handleLogin)
	g.DELETE("", handleLogout)
}

func handleLogin(c *gin.Context) {
	login := LoginRequest{}
	err := c.ShouldBindBodyWith(&login, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	secCtx, err := LoginFunc(login)
	if err != nil {
		panic(err)
	}
	c.SetCookie(KeySecToken, secCtx.Token, int(TokenExpiration.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, secCtx)
}

func handleLogout(c *gin.Context) {
	token, err := c.Cookie(KeySecToken)
	if err != nil {
		token = c.GetHeader("X-Session-Token")
	}
	if token != "" {
		LogoutFunc(token)
	}
	c.SetCookie(KeySecToken, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}
