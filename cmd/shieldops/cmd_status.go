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
	"fmt"
	"log"
	"sort"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

func runStatus(cmd *cobra.Command, args []string) {
	if _, err := gatewayGet("/health"); err != nil {
		log.Fatalf("Gateway health check failed: %v", err)
	}
	fmt.Println("gateway: ok")

	raw, err := gatewayGet("/v1/stats")
	if err != nil {
		log.Fatalf("Failed to fetch stats: %v", err)
	}
	if outputJSON {
		fmt.Println(string(raw))
		return
	}

	stats := gjson.ParseBytes(raw).Map()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("  %-12s %d records (cap %d)\n", name,
			stats[name].Get("total_records").Int(),
			stats[name].Get("max_records").Int())
	}
}
