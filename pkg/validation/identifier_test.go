// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validation

import (
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	valid := []string{"checkout", "db-primary", "m5.large/us-east-1a", "team_a/service.v2"}
	for _, name := range valid {
		if err := ValidateIdentifier(name); err != nil {
			t.Errorf("ValidateIdentifier(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{
		"",
		"Checkout",               // uppercase
		"-leading-separator",     // must start alphanumeric
		"spaces are bad",         //
		"semi;colon",             // injection-shaped
		strings.Repeat("a", 200), // too long
	}
	for _, name := range invalid {
		if err := ValidateIdentifier(name); err == nil {
			t.Errorf("ValidateIdentifier(%q) should fail", name)
		}
	}
}

func TestValidateFingerprint(t *testing.T) {
	if err := ValidateFingerprint("a1b2c3d4"); err != nil {
		t.Errorf("hex fingerprint rejected: %v", err)
	}
	if err := ValidateFingerprint("fp-checkout.latency"); err != nil {
		t.Errorf("token fingerprint rejected: %v", err)
	}
	for _, fp := range []string{"", "has space", strings.Repeat("x", 65)} {
		if err := ValidateFingerprint(fp); err == nil {
			t.Errorf("ValidateFingerprint(%q) should fail", fp)
		}
	}
}
