/*
Package handler provides the HTTP handler for WebSocket connection upgrading.

The upgrade itself carries no authentication requirement: a connection starts
unauthenticated and binds an identity through the register event. The handshake
request's session cookie (or bearer header) is remembered as the ambient
credential for a payload-less register.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"pawchat/internal/app/chat"
	"pawchat/internal/pkg/auth/jwt"
	"pawchat/internal/pkg/errs"
	"pawchat/internal/pkg/limiter"
	"pawchat/internal/pkg/logx"
	"pawchat/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc that upgrades the request and
// starts the client's read and write pumps.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		ambientToken, _ := jwt.SessionToken(r)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := chat.NewClient(deps.Hub, conn, ambientToken)

		go client.WritePump()

		logx.Info("WebSocket connection established")

		client.ReadPump()
	}
}
