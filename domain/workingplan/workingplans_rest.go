package workingplan

import (
	"net/http"

	"plmgate/bizerror"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathWorkingPlans = "/v1/working-plans"
)

func RegisterWorkingPlansRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathWorkingPlans, middleWares...)
	g.POST("", handleCreateWorkingPlan)
	g.GET("", handleQueryWorkingPlans)

	g.POST("checkouts", handleCheckoutWorkingPlan)
	g.POST("checkins", handleCheckinWorkingPlan)
}

func handleCreateWorkingPlan(c *gin.Context) {
	creation := WorkingPlanCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateWorkingPlanFunc(c.Request.Context(), creation)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleQueryWorkingPlans(c *gin.Context) {
	query := WorkingPlanQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	page, err := QueryWorkingPlansFunc(c.Request.Context(), query)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, page)
}

func handleCheckoutWorkingPlan(c *gin.Context) {
	checkout := WorkingPlanCheckout{}
	if err := c.ShouldBindBodyWith(&checkout, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CheckoutWorkingPlanFunc(c.Request.Context(), checkout)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleCheckinWorkingPlan(c *gin.Context) {
	checkin := WorkingPlanCheckin{}
	if err := c.ShouldBindBodyWith(&checkin, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CheckinWorkingPlanFunc(c.Request.Context(), checkin)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}
