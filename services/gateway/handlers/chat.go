// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/shieldops/services/gateway/datatypes"
)

// tracerName identifies gateway spans in the trace backend.
const tracerName = "shieldops/gateway"

// wsWriteTimeout bounds each websocket write.
const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser-origin checks are the reverse proxy's job in our deployments.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleChat answers one operations question. Messages are screened against
// the chat policy before reaching the agent; denials return 403 with the
// policy's reasons.
func HandleChat(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, span := otel.Tracer(tracerName).Start(c.Request.Context(), "chat.respond")
		defer span.End()

		decision := d.Policy.ScreenText(ctx, req.Message)
		if !decision.Allowed {
			d.Metrics.ChatRequestsTotal.WithLabelValues("blocked").Inc()
			span.SetAttributes(attribute.String("chat.outcome", "blocked"))
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "message rejected by policy",
				"reasons": decision.Reasons,
				"source":  decision.Source,
			})
			return
		}

		reply, err := d.Agent.Respond(ctx, req.Message)
		if err != nil {
			slog.Error("agent respond failed", "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "agent unavailable"})
			return
		}
		d.Metrics.ChatRequestsTotal.WithLabelValues(reply.Source).Inc()
		span.SetAttributes(
			attribute.String("chat.intent", reply.Intent),
			attribute.String("chat.source", reply.Source),
		)
		c.JSON(http.StatusOK, reply)
	}
}

// wsMessage is one inbound websocket frame.
type wsMessage struct {
	Message string `json:"message"`
}

// HandleChatWebSocket serves an interactive chat session over a websocket.
// Each inbound frame is screened and answered exactly like POST /v1/chat;
// denied frames produce an error frame instead of closing the session.
func HandleChatWebSocket(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		d.Metrics.ActiveWebsockets.Inc()
		defer d.Metrics.ActiveWebsockets.Dec()

		ctx := c.Request.Context()
		for {
			var msg wsMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					slog.Warn("websocket read failed", "error", err)
				}
				return
			}
			if msg.Message == "" {
				writeWS(conn, gin.H{"error": "empty message"})
				continue
			}

			decision := d.Policy.ScreenText(ctx, msg.Message)
			if !decision.Allowed {
				d.Metrics.ChatRequestsTotal.WithLabelValues("blocked").Inc()
				writeWS(conn, gin.H{
					"error":   "message rejected by policy",
					"reasons": decision.Reasons,
				})
				continue
			}

			reply, err := d.Agent.Respond(ctx, msg.Message)
			if err != nil {
				writeWS(conn, gin.H{"error": "agent unavailable"})
				continue
			}
			d.Metrics.ChatRequestsTotal.WithLabelValues(reply.Source).Inc()
			if !writeWS(conn, reply) {
				return
			}
		}
	}
}

// writeWS writes one JSON frame with a bounded deadline.
func writeWS(conn *websocket.Conn, v any) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(v); err != nil {
		slog.Warn("websocket write failed", "error", err)
		return false
	}
	return true
}
