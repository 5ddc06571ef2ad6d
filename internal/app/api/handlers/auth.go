package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/identity"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/models"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/response"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

type signupReq struct {
	UserName string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
	FullName string `json:"fullName"`
}

// username doubles as the identifier field: it matches either the stored
// username or the email.
type loginReq struct {
	UserName string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResp struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// @Summary      Sign up
// @Description  Creates a user or trainer account and returns a bearer token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body signupReq true "Signup request"
// @Success      200  {object}  response.APIResponse[authResp]
// @Router       /api/v1/auth/signup [post]
func ApiSignup(svc *identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		user, token, err := svc.Signup(c.Request.Context(), identity.SignupInput{
			UserName: req.UserName,
			Email:    req.Email,
			Password: req.Password,
			Role:     types.Role(req.Role),
			FullName: req.FullName,
		})
		if err != nil {
			if errors.Is(err, identity.ErrAccountExists) {
				c.JSON(http.StatusConflict, response.ErrorT[any](response.APIResponseCodeConflict, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(authResp{Token: token, User: user}))
	}
}

// @Summary      Log in
// @Description  Verifies credentials (username or email) and returns a bearer token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body loginReq true "Login request"
// @Success      200  {object}  response.APIResponse[authResp]
// @Router       /api/v1/auth/login [post]
func ApiLogin(svc *identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		user, token, err := svc.Login(c.Request.Context(), req.UserName, req.Password)
		if err != nil {
			if errors.Is(err, identity.ErrBadCredentials) {
				c.JSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid credentials"))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(authResp{Token: token, User: user}))
	}
}

func RegisterAuthRoutes(r gin.IRouter, svc *identity.Service) {
	r.POST("/auth/signup", ApiSignup(svc))
	r.POST("/auth/login", ApiLogin(svc))
}
