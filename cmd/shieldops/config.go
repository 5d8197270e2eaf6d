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

import "os"

// Config holds the CLI settings read from config.yaml.
type Config struct {
	Gateway struct {
		// URL of the running gateway, e.g. http://localhost:12310
		URL string `yaml:"url"`
		// Token sent as a bearer token when the gateway enforces auth.
		Token string `yaml:"token"`
	} `yaml:"gateway"`
}

// DefaultConfig targets a local gateway with no auth.
func DefaultConfig() Config {
	var c Config
	c.Gateway.URL = "http://localhost:12310"
	return c
}

// applyEnv lets environment variables override file values, so CI and
// containers can skip the config file entirely.
func (c *Config) applyEnv() {
	if v := os.Getenv("SHIELDOPS_GATEWAY_URL"); v != "" {
		c.Gateway.URL = v
	}
	if v := os.Getenv("SHIELDOPS_API_TOKEN"); v != "" {
		c.Gateway.Token = v
	}
}
