// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for identifier-like
// request fields.
//
// Service names, alert fingerprints, and pool names end up in log lines,
// report strings, and database queries; these validators keep arbitrary user
// bytes out of those paths.
package validation

import (
	"fmt"
	"regexp"
)

// identifierPattern matches service/system/resource identifiers.
// Allows: lowercase alphanumerics with -, _, ., / separators. Max 128 chars.
var identifierPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._/\-]{0,127}$`)

// fingerprintPattern matches alert fingerprints: hex or opaque token up to
// 64 chars.
var fingerprintPattern = regexp.MustCompile(`^[A-Za-z0-9._\-]{1,64}$`)

// ValidateIdentifier validates a service/system/resource name.
//
// Example:
//
//	if err := validation.ValidateIdentifier(req.Service); err != nil {
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	    return
//	}
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q (lowercase alphanumerics plus -_./ up to 128 chars)", name)
	}
	return nil
}

// ValidateFingerprint validates an alert fingerprint token.
func ValidateFingerprint(fp string) error {
	if fp == "" {
		return fmt.Errorf("fingerprint cannot be empty")
	}
	if !fingerprintPattern.MatchString(fp) {
		return fmt.Errorf("invalid fingerprint %q (alphanumerics plus ._- up to 64 chars)", fp)
	}
	return nil
}

// IsIdentifier is the predicate form used by the gin binding layer.
func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}
