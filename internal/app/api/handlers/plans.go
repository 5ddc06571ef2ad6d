package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/api/middleware"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/plans"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/response"
)

type assignPlanReq struct {
	UserID string         `json:"userId" binding:"required"`
	Title  string         `json:"title" binding:"required"`
	DayTag string         `json:"dayTag"`
	Items  datatypes.JSON `json:"items"`
	Meals  datatypes.JSON `json:"meals"`
}

// @Summary      My workout plans
// @Tags         Plans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.APIResponse[[]models.WorkoutPlan]
// @Router       /api/v1/workouts [get]
func ApiMyWorkouts(svc *plans.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.WorkoutsFor(c.Request.Context(), middleware.AuthUserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      My diet plans
// @Tags         Plans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.APIResponse[[]models.DietPlan]
// @Router       /api/v1/diets [get]
func ApiMyDiets(svc *plans.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.DietsFor(c.Request.Context(), middleware.AuthUserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Assign workout plan
// @Tags         Plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body assignPlanReq true "Plan"
// @Success      200  {object}  response.APIResponse[models.WorkoutPlan]
// @Router       /api/v1/admin/workouts [post]
func ApiAssignWorkout(svc *plans.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req assignPlanReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		plan, err := svc.AssignWorkout(c.Request.Context(), plans.AssignWorkoutInput{
			UserID:     req.UserID,
			AssignedBy: middleware.AuthUserID(c),
			Title:      req.Title,
			DayTag:     req.DayTag,
			Items:      req.Items,
		})
		if err != nil {
			if errors.Is(err, plans.ErrAssigneeNotFound) {
				c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(plan))
	}
}

// @Summary      Assign diet plan
// @Tags         Plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body assignPlanReq true "Plan"
// @Success      200  {object}  response.APIResponse[models.DietPlan]
// @Router       /api/v1/admin/diets [post]
func ApiAssignDiet(svc *plans.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req assignPlanReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		plan, err := svc.AssignDiet(c.Request.Context(), plans.AssignDietInput{
			UserID:     req.UserID,
			AssignedBy: middleware.AuthUserID(c),
			Title:      req.Title,
			DayTag:     req.DayTag,
			Meals:      req.Meals,
		})
		if err != nil {
			if errors.Is(err, plans.ErrAssigneeNotFound) {
				c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(plan))
	}
}

func RegisterPlanRoutes(r gin.IRouter, svc *plans.Service) {
	r.GET("/workouts", ApiMyWorkouts(svc))
	r.GET("/diets", ApiMyDiets(svc))
}

func RegisterAdminPlanRoutes(r gin.IRouter, svc *plans.Service) {
	r.POST("/workouts", ApiAssignWorkout(svc))
	r.POST("/diets", ApiAssignDiet(svc))
}
