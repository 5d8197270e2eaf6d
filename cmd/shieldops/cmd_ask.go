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
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

func runAsk(cmd *cobra.Command, args []string) {
	question := strings.Join(args, " ")

	raw, err := gatewayPost("/v1/chat", map[string]string{"message": question})
	if err != nil {
		log.Fatalf("Chat request failed: %v", err)
	}
	if outputJSON {
		fmt.Println(string(raw))
		return
	}

	reply := gjson.ParseBytes(raw)
	fmt.Println(reply.Get("answer").String())
	if src := reply.Get("source").String(); src == "llm" {
		fmt.Println("\n(answered by the LLM fallback, not engine data)")
	}
}
