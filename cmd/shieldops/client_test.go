// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayClient(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/health":
			w.Write([]byte(`{"status":"ok"}`))
		case "/v1/missing":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"not found"}`))
		default:
			w.Write([]byte(`{}`))
		}
	}))
	defer srv.Close()

	config = DefaultConfig()
	config.Gateway.URL = srv.URL
	config.Gateway.Token = "tok-123"

	t.Run("get with bearer token", func(t *testing.T) {
		raw, err := gatewayGet("/health")
		require.NoError(t, err)
		assert.Contains(t, string(raw), "ok")
		assert.Equal(t, "Bearer tok-123", gotAuth)
	})

	t.Run("error status surfaces body", func(t *testing.T) {
		_, err := gatewayGet("/v1/missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("unreachable gateway", func(t *testing.T) {
		config.Gateway.URL = "http://127.0.0.1:1"
		defer func() { config.Gateway.URL = srv.URL }()
		_, err := gatewayGet("/health")
		assert.Error(t, err)
	})
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("SHIELDOPS_GATEWAY_URL", "http://gw:9999")
	t.Setenv("SHIELDOPS_API_TOKEN", "envtok")

	c := DefaultConfig()
	c.applyEnv()
	assert.Equal(t, "http://gw:9999", c.Gateway.URL)
	assert.Equal(t, "envtok", c.Gateway.Token)
}
