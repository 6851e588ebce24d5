package indices

import (
	"net/http"

	"plmgate/bizerror"
	"plmgate/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathIndexRequests = "/v1/index-requests"
	PathSearch        = "/v1/search"
)

func RegisterIndicesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathIndexRequests, middleWares...)
	g.POST("", handleIndexRequest)

	s := r.Group(PathSearch, middleWares...)
	s.GET("", handleSearch)
}

func handleIndexRequest(c *gin.Context) {
	success, err := ScheduleNewSyncRunFunc(session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, gin.H{"result": success})
}

func handleSearch(c *gin.Context) {
	query := EntitySearchQuery{}
	if err := c.ShouldBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	records, err := SearchEntitiesFunc(query)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, gin.H{"data": records, "total": len(records)})
}
