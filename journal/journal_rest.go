package journal

import (
	"net/http"

	"plmgate/bizerror"
	"plmgate/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathOperationJournal = "/v1/operation-journal"
)

func RegisterJournalRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathOperationJournal, middleWares...)
	g.GET("", handleQueryOperations)
}

func handleQueryOperations(c *gin.Context) {
	secCtx := session.FindSecurityContext(c)
	if secCtx == nil || !secCtx.Perms.HasRole(session.AdminPermission) {
		panic(bizerror.ErrForbidden)
	}

	query := OperationQuery{}
	if err := c.ShouldBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	records, err := QueryOperationsFunc(query)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}
