package employee

import (
	"net/http"

	"plmgate/bizerror"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathEmployees = "/v1/employees"
)

func RegisterEmployeesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathEmployees, middleWares...)
	g.POST("", handleCreateEmployee)
	g.GET("", handleQueryEmployees)
	g.GET(":id", handleDetailEmployee)
	g.PUT(":id", handleUpdateEmployee)
	g.DELETE(":id", handleDeleteEmployee)
}

func handleCreateEmployee(c *gin.Context) {
	creation := EmployeeCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateEmployeeFunc(c.Request.Context(), creation)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleQueryEmployees(c *gin.Context) {
	query := EmployeeQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	page, err := QueryEmployeesFunc(c.Request.Context(), query)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, page)
}

func handleDetailEmployee(c *gin.Context) {
	record, err := DetailEmployeeFunc(c.Request.Context(), c.Param("id"))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleUpdateEmployee(c *gin.Context) {
	updating := EmployeeUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := UpdateEmployeeFunc(c.Request.Context(), c.Param("id"), updating)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeleteEmployee(c *gin.Context) {
	if err := DeleteEmployeeFunc(c.Request.Context(), c.Param("id")); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
