package testinfra

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"plmgate/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

func BuildJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code, w.Body.String(), w
}

// BuildSecCtx build security context
func BuildSecCtx(uid types.ID, perms ...string) *session.Context {
	return &session.Context{Identity: session.Identity{ID: uid, Name: "user " + uid.String()}, Perms: perms}
}
