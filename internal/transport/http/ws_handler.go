package http

import (
	"context"
	"strings"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/draftarena/lobby-server/internal/core"
)

// WSHandler upgrades HTTP connections and hands them to the core gateway.
type WSHandler struct {
	gateway *core.Gateway
	log     *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(gateway *core.Gateway, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{gateway: gateway, log: logger}
}

// Handle accepts the websocket and runs the connection lifecycle. The token
// comes from the query string (browser clients) or a bearer header.
// Authentication itself happens inside the gateway so rejections can close
// with a proper policy-violation status.
func (h *WSHandler) Handle(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	h.gateway.Serve(c.Request.Context(), newWSConn(conn), token)
}

// wsConn adapts a websocket connection to core.Conn.
type wsConn struct {
	conn *websocket.Conn
}

func newWSConn(conn *websocket.Conn) *wsConn {
	return &wsConn{conn: conn}
}

func (w *wsConn) Read(ctx context.Context) ([]byte, error) {
	_, data, err := w.conn.Read(ctx)
	return data, err
}

func (w *wsConn) Send(ctx context.Context, payload []byte) error {
	return w.conn.Write(ctx, websocket.MessageText, payload)
}

func (w *wsConn) Close(reason core.CloseReason, msg string) error {
	return w.conn.Close(closeStatus(reason), msg)
}

func closeStatus(reason core.CloseReason) websocket.StatusCode {
	switch reason {
	case core.CloseNotAcceptable:
		return websocket.StatusPolicyViolation
	case core.CloseBadData:
		return websocket.StatusUnsupportedData
	case core.CloseInternal:
		return websocket.StatusInternalError
	default:
		return websocket.StatusNormalClosure
	}
}
