package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/chathub"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/authtoken"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/config"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/logctx"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// @Summary      Chat websocket
// @Description  Upgrades to a websocket for live messaging. Authentication happens before the upgrade via ?token= or the Authorization header.
// @Tags         Messages
// @Param        token query string false "Bearer token"
// @Success      101
// @Failure      401  {object}  map[string]string
// @Router       /ws [get]
func ApiChatSocket(hub *chathub.Hub, cfg *config.Config, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			if h := c.GetHeader("Authorization"); len(h) > 7 && h[:7] == "Bearer " {
				token = h[7:]
			}
		}

		claims, err := authtoken.Parse(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logctx.FromGin(c, log).Warnw("websocket upgrade failed", "error", err.Error())
			return
		}
		hub.HandleConn(conn, claims.UserID, claims.Role)
	}
}

func RegisterChatSocketRoutes(r gin.IRouter, hub *chathub.Hub, cfg *config.Config, log *zap.SugaredLogger) {
	r.GET("/ws", ApiChatSocket(hub, cfg, log))
}
