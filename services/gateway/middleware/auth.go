// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the gateway service.
//
// This package contains middleware for authentication and request rate
// limiting.
//
// # Authentication Flow
//
// The auth middleware extracts a bearer token from the Authorization header
// and compares it against the configured static API token.
//
//	Request
//	   │
//	   ▼
//	AuthMiddleware
//	   │
//	   ├─► Extract token from "Authorization: Bearer <token>"
//	   │
//	   ├─► Constant-time compare against configured token
//	   │
//	   └─► Store actor name in context
//	           │
//	           ▼
//	       Handler (retrieves via GetActor)
//
// # Local Behavior
//
// When no API token is configured, all requests are authenticated as
// "local-user". This enables the CLI and local development to function
// without any authentication infrastructure.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// =============================================================================
// Context Keys
// =============================================================================

// actorKey is the context key for storing the authenticated actor name.
// Using a namespaced key prevents collisions with other context values.
const actorKey = "shieldops_actor"

// localActor is the identity assigned when no API token is configured.
const localActor = "local-user"

// =============================================================================
// Context Helpers
// =============================================================================

// SetActor stores the authenticated actor name in the Gin context.
func SetActor(c *gin.Context, actor string) {
	c.Set(actorKey, actor)
}

// GetActor retrieves the authenticated actor name from the Gin context.
// Returns "local-user" if no actor was set.
func GetActor(c *gin.Context) string {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(string); ok && actor != "" {
			return actor
		}
	}
	return localActor
}

// =============================================================================
// Middleware
// =============================================================================

// AuthMiddleware returns middleware enforcing bearer-token authentication.
//
// # Inputs
//
//   - apiToken: The expected token. When empty, authentication is disabled
//     and every request runs as "local-user".
//
// # Outputs
//
//   - gin.HandlerFunc that aborts with 401 on a missing or wrong token.
func AuthMiddleware(apiToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiToken == "" {
			SetActor(c, localActor)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": "missing bearer token"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(apiToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": "invalid token"})
			return
		}

		SetActor(c, "api-client")
		c.Next()
	}
}
