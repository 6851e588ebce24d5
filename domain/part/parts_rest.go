package part

import (
	"net/http"

	"plmgate/bizerror"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathParts = "/v1/parts"
)

func RegisterPartsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathParts, middleWares...)
	g.POST("", handleCreatePart)
	g.GET("", handleQueryParts)
	g.GET(":id", handleDetailPart)
	g.PUT(":id", handleUpdatePart)
	g.DELETE(":id", handleDeletePart)

	g.POST("checkouts", handleCheckoutPart)
	g.POST("checkins", handleCheckinPart)
	g.GET("versions/:masterId", handlePartVersions)
}

func handleCreatePart(c *gin.Context) {
	creation := PartCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreatePartFunc(c.Request.Context(), creation)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleQueryParts(c *gin.Context) {
	query := PartQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	page, err := QueryPartsFunc(c.Request.Context(), query)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, page)
}

func handleDetailPart(c *gin.Context) {
	record, err := DetailPartFunc(c.Request.Context(), c.Param("id"))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleUpdatePart(c *gin.Context) {
	updating := PartUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := UpdatePartFunc(c.Request.Context(), c.Param("id"), updating)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeletePart(c *gin.Context) {
	if err := DeletePartFunc(c.Request.Context(), c.Param("id")); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleCheckoutPart(c *gin.Context) {
	checkout := PartCheckout{}
	if err := c.ShouldBindBodyWith(&checkout, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CheckoutPartFunc(c.Request.Context(), checkout)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleCheckinPart(c *gin.Context) {
	checkin := PartCheckin{}
	if err := c.ShouldBindBodyWith(&checkin, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CheckinPartFunc(c.Request.Context(), checkin)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handlePartVersions(c *gin.Context) {
	records, err := PartVersionsFunc(c.Request.Context(), c.Param("masterId"))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}
