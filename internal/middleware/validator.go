package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

// ValidateJurisdiction checks if the jurisdiction is in the allowed list
func ValidateJurisdiction(jurisdiction string) error {
	allowed := map[string]bool{
		"maharashtra_udcpr": true,
		"mumbai_dcpr":       true,
	}

	if !allowed[strings.ToLower(jurisdiction)] {
		return fmt.Errorf("invalid jurisdiction: %s (allowed: maharashtra_udcpr, mumbai_dcpr)", jurisdiction)
	}
	return nil
}

// ValidateBatchID validates staging batch identifiers (blob object names)
func ValidateBatchID(batchID string) error {
	if batchID == "" {
		return fmt.Errorf("batch ID cannot be empty")
	}

	// Block path traversal attempts
	if strings.Contains(batchID, "..") || strings.Contains(batchID, "/") {
		return fmt.Errorf("invalid batch ID format")
	}

	pattern := `^[a-zA-Z0-9._-]{1,128}$`
	matched, _ := regexp.MatchString(pattern, batchID)
	if !matched {
		return fmt.Errorf("invalid batch ID format (alphanumeric, dot, dash, underscore only)")
	}

	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateTenantID validates tenant ID format
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("tenant ID cannot be empty")
	}

	// Allow alphanumeric, dash, underscore (max 64 chars)
	pattern := `^[a-zA-Z0-9_-]{1,64}$`
	matched, _ := regexp.MatchString(pattern, tenant)
	if !matched {
		return fmt.Errorf("invalid tenant ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}

	return nil
}

// ValidateProjectID validates project ID format (UUID)
func ValidateProjectID(projectID string) error {
	if projectID == "" {
		return fmt.Errorf("project ID cannot be empty")
	}

	pattern := `^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`
	matched, _ := regexp.MatchString(pattern, projectID)
	if !matched {
		return fmt.Errorf("invalid project ID format")
	}

	return nil
}

// ValidatePage validates pagination page number
func ValidatePage(page int) int {
	if page <= 0 {
		return 1 // default
	}
	return page
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 10 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidateDays validates days parameter
func ValidateDays(days int) int {
	if days <= 0 {
		return 7 // default
	}
	if days > 365 {
		return 365 // max 1 year
	}
	return days
}
