package equipment

import (
	"net/http"

	"plmgate/bizerror"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathEquipments = "/v1/equipments"
)

func RegisterEquipmentsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathEquipments, middleWares...)
	g.POST("", handleCreateEquipment)
	g.GET("", handleQueryEquipments)
	g.GET(":id", handleDetailEquipment)
	g.PUT(":id", handleUpdateEquipment)
	g.DELETE(":id", handleDeleteEquipment)
}

func handleCreateEquipment(c *gin.Context) {
	creation := EquipmentCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateEquipmentFunc(c.Request.Context(), creation)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleQueryEquipments(c *gin.Context) {
	query := EquipmentQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	page, err := QueryEquipmentsFunc(c.Request.Context(), query)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, page)
}

func handleDetailEquipment(c *gin.Context) {
	record, err := DetailEquipmentFunc(c.Request.Context(), c.Param("id"))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleUpdateEquipment(c *gin.Context) {
	updating := EquipmentUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := UpdateEquipmentFunc(c.Request.Context(), c.Param("id"), updating)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeleteEquipment(c *gin.Context) {
	if err := DeleteEquipmentFunc(c.Request.Context(), c.Param("id")); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
