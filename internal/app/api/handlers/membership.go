package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/api/middleware"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/membership"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/models"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/logctx"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/response"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

type createIntentReq struct {
	Plan string `json:"plan" binding:"required"`
}

type createIntentResp struct {
	ClientSecret   string `json:"clientSecret"`
	SubscriptionID string `json:"subscriptionId"`
}

type confirmReq struct {
	SubscriptionID string `json:"subscriptionId" binding:"required"`
}

type confirmResp struct {
	Success          bool               `json:"success"`
	Message          string             `json:"message,omitempty"`
	Membership       *models.Membership `json:"membership,omitempty"`
	CurrentPeriodEnd *time.Time         `json:"currentPeriodEnd,omitempty"`
}

type checkResp struct {
	HasMembership bool               `json:"hasMembership"`
	Membership    *models.Membership `json:"membership"`
}

// @Summary      Start membership checkout
// @Description  Opens an incomplete subscription on the selected plan and returns the client confirmation secret.
// @Tags         Membership
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createIntentReq true "Plan selection"
// @Success      200  {object}  createIntentResp
// @Router       /api/v1/membership/create-intent [post]
func ApiCreateIntent(mgr membership.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createIntentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		intent, err := mgr.Initiate(c.Request.Context(), middleware.AuthUserID(c), types.PlanType(req.Plan))
		if err != nil {
			switch {
			case errors.Is(err, membership.ErrInvalidPlan):
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			case errors.Is(err, membership.ErrUserNotFound):
				c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
			default:
				c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			}
			return
		}
		c.JSON(http.StatusOK, createIntentResp{ClientSecret: intent.ClientSecret, SubscriptionID: intent.SubscriptionRef})
	}
}

// @Summary      Confirm membership checkout
// @Description  Re-derives subscription state from the processor after client-side payment. Returns 202 while the payment is still processing.
// @Tags         Membership
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body confirmReq true "Subscription to confirm"
// @Success      200  {object}  confirmResp
// @Success      202  {object}  confirmResp
// @Router       /api/v1/membership/confirm [post]
func ApiConfirmMembership(mgr membership.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req confirmReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		m, err := mgr.Confirm(c.Request.Context(), middleware.AuthUserID(c), req.SubscriptionID)
		if err != nil {
			if errors.Is(err, membership.ErrStillProcessing) {
				c.JSON(http.StatusAccepted, confirmResp{Success: false, Message: "payment still processing, retry shortly"})
				return
			}
			if errors.Is(err, membership.ErrNoMembership) {
				c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, confirmResp{Success: true, Membership: m, CurrentPeriodEnd: m.CurrentPeriodEnd})
	}
}

// @Summary      Check membership
// @Description  Answers whether the caller currently holds a valid membership, from the cached record.
// @Tags         Membership
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  checkResp
// @Router       /api/v1/membership/check [get]
func ApiCheckMembership(mgr membership.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok, err := mgr.Check(c.Request.Context(), middleware.AuthUserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, checkResp{HasMembership: ok, Membership: m})
	}
}

// @Summary      Cancel membership
// @Description  Requests cancel-at-period-end; access continues until the paid period runs out.
// @Tags         Membership
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.APIResponse[models.Membership]
// @Router       /api/v1/membership/cancel [post]
func ApiCancelMembership(mgr membership.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := mgr.Cancel(c.Request.Context(), middleware.AuthUserID(c))
		if err != nil {
			if errors.Is(err, membership.ErrNoMembership) {
				c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(m))
	}
}

// @Summary      Billing webhook
// @Description  Receives signed billing events from the payment processor. Verification runs over the raw request bytes.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/membership/webhook [post]
func ApiBillingWebhook(mgr membership.Manager, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}

		ev, err := mgr.ProcessWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			if errors.Is(err, membership.ErrBadSignature) {
				logctx.FromGin(c, log).Warnw("webhook rejected", "error", err.Error())
				c.JSON(http.StatusBadRequest, gin.H{"error": "signature verification failed"})
				return
			}
			// verified but failed to apply: acknowledge so the processor
			// redelivers on its own schedule, and keep the failure in logs
			logctx.FromGin(c, log).Errorw("webhook handling failed",
				"event_id", ev.ID, "type", ev.RawType, "error", err.Error())
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func RegisterMembershipRoutes(r gin.IRouter, mgr membership.Manager) {
	r.POST("/membership/create-intent", ApiCreateIntent(mgr))
	r.POST("/membership/confirm", ApiConfirmMembership(mgr))
	r.GET("/membership/check", ApiCheckMembership(mgr))
	r.POST("/membership/cancel", ApiCancelMembership(mgr))
}

func RegisterBillingWebhookRoutes(r gin.IRouter, mgr membership.Manager, log *zap.SugaredLogger) {
	r.POST("/membership/webhook", ApiBillingWebhook(mgr, log))
}
