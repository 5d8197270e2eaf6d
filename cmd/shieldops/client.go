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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// httpTimeout bounds every CLI call to the gateway.
const httpTimeout = 30 * time.Second

// gatewayGet fetches one gateway path and returns the response body.
func gatewayGet(path string) ([]byte, error) {
	return gatewayDo(http.MethodGet, path, nil)
}

// gatewayPost sends a JSON body to one gateway path.
func gatewayPost(path string, body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return gatewayDo(http.MethodPost, path, raw)
}

func gatewayDo(method, path string, body []byte) ([]byte, error) {
	url := strings.TrimRight(config.Gateway.URL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if config.Gateway.Token != "" {
		req.Header.Set("Authorization", "Bearer "+config.Gateway.Token)
	}

	client := &http.Client{Timeout: httpTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("is the gateway running at %s? %w", config.Gateway.URL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode,
			strings.TrimSpace(string(raw)))
	}
	return raw, nil
}
