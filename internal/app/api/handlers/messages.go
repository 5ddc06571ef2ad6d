package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/api/middleware"
	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/messaging"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/response"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

type sendMessageReq struct {
	PeerID string `json:"peerId" binding:"required"`
	Text   string `json:"text" binding:"required"`
	Type   string `json:"type"`
}

// @Summary      Conversation history
// @Description  Returns all messages between the caller and peer, oldest first.
// @Tags         Messages
// @Produce      json
// @Security     BearerAuth
// @Param        peerId path string true "Peer user id"
// @Success      200  {object}  response.APIResponse[[]models.Message]
// @Router       /api/v1/messages/{peerId} [get]
func ApiConversation(svc *messaging.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		msgs, err := svc.Conversation(c.Request.Context(), middleware.AuthUserID(c), c.Param("peerId"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(msgs))
	}
}

// @Summary      Send message
// @Description  Persists a message to the pairwise conversation. The sender identity comes from the bearer token, never the body.
// @Tags         Messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body sendMessageReq true "Message"
// @Success      200  {object}  response.APIResponse[models.Message]
// @Router       /api/v1/messages [post]
func ApiSendMessage(svc *messaging.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		msg, err := svc.Send(c.Request.Context(), messaging.SendInput{
			SenderID:   middleware.AuthUserID(c),
			SenderRole: middleware.AuthRole(c),
			ReceiverID: req.PeerID,
			Kind:       types.MessageKind(req.Type),
			Content:    req.Text,
		})
		if err != nil {
			switch {
			case errors.Is(err, messaging.ErrReceiverNotFound):
				c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
			case errors.Is(err, messaging.ErrEmptyMessage), errors.Is(err, messaging.ErrSelfMessage):
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			default:
				c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			}
			return
		}
		c.JSON(http.StatusOK, response.OKT(msg))
	}
}

func RegisterMessageRoutes(r gin.IRouter, svc *messaging.Service) {
	r.GET("/messages/:peerId", ApiConversation(svc))
	r.POST("/messages", ApiSendMessage(svc))
}
