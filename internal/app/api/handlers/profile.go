package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/api/middleware"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/identity"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/response"
)

type updateProfileReq struct {
	FullName *string `json:"fullName"`
	Bio      *string `json:"bio"`
	Goal     *string `json:"goal"`
	ImageURL *string `json:"imageUrl"`
}

// @Summary      Get own profile
// @Tags         Profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.APIResponse[models.User]
// @Router       /api/v1/profile [get]
func ApiGetProfile(svc *identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.GetProfile(c.Request.Context(), middleware.AuthUserID(c))
		if err != nil {
			if errors.Is(err, identity.ErrUserNotFound) {
				c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(user))
	}
}

// @Summary      Update own profile
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body updateProfileReq true "Fields to update"
// @Success      200  {object}  response.APIResponse[models.User]
// @Router       /api/v1/profile [put]
func ApiUpdateProfile(svc *identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		user, err := svc.UpdateProfile(c.Request.Context(), middleware.AuthUserID(c), identity.UpdateProfileInput{
			FullName: req.FullName,
			Bio:      req.Bio,
			Goal:     req.Goal,
			ImageURL: req.ImageURL,
		})
		if err != nil {
			if errors.Is(err, identity.ErrUserNotFound) {
				c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(user))
	}
}

// @Summary      List trainers
// @Tags         Profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.APIResponse[[]models.User]
// @Router       /api/v1/trainers [get]
func ApiListTrainers(svc *identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		trainers, err := svc.ListTrainers(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(trainers))
	}
}

func RegisterProfileRoutes(r gin.IRouter, svc *identity.Service) {
	r.GET("/profile", ApiGetProfile(svc))
	r.PUT("/profile", ApiUpdateProfile(svc))
	r.GET("/trainers", ApiListTrainers(svc))
}
