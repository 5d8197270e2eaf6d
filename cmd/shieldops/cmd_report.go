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
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

// reportEngines are the names accepted by `shieldops report <engine>`.
var reportEngines = []string{
	"alerts", "slo", "spot", "changes", "compliance", "deploys",
	"costs", "vulns", "drift", "oncall", "capacity", "escalations",
}

func runReport(cmd *cobra.Command, args []string) {
	engine := strings.ToLower(args[0])
	valid := false
	for _, name := range reportEngines {
		if engine == name {
			valid = true
			break
		}
	}
	if !valid {
		log.Fatalf("Unknown engine %q. Valid engines: %s", engine,
			strings.Join(reportEngines, ", "))
	}

	raw, err := gatewayGet("/v1/" + engine + "/report")
	if err != nil {
		log.Fatalf("Failed to fetch the %s report: %v", engine, err)
	}
	if outputJSON {
		fmt.Println(string(raw))
		return
	}

	// Pretty-print the whole report, then surface recommendations last so
	// they are the first thing visible above the prompt.
	var pretty map[string]any
	if err := json.Unmarshal(raw, &pretty); err != nil {
		fmt.Println(string(raw))
		return
	}
	delete(pretty, "recommendations")
	indented, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(indented))

	recs := gjson.GetBytes(raw, "recommendations").Array()
	if len(recs) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range recs {
			fmt.Println("  -", rec.String())
		}
	}
}
