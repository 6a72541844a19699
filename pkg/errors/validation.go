package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePrompt validates a deck generation prompt for safety and size.
//
// The validation rules are intentionally conservative:
//   - No empty prompts
//   - No control characters other than whitespace
//   - No null bytes
//   - Maximum length of 4000 characters
//
// Content-level moderation happens upstream; this guards the transport.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return New(ErrCodeInvalidPrompt, "prompt cannot be empty")
	}

	const maxPromptLength = 4000
	if len(prompt) > maxPromptLength {
		return New(ErrCodeInvalidPrompt, "prompt too long (max %d characters)", maxPromptLength)
	}

	for _, r := range prompt {
		if r == '\x00' || (unicode.IsControl(r) && !unicode.IsSpace(r)) {
			return New(ErrCodeInvalidPrompt, "prompt contains invalid control characters")
		}
	}

	return nil
}

// ValidateReferenceURL validates a reference image URL.
// It ensures the URL has a safe scheme (http, https, or data for inline
// base64 payloads).
func ValidateReferenceURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidReference, "reference URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") &&
		!strings.HasPrefix(rawURL, "https://") &&
		!strings.HasPrefix(rawURL, "data:") {
		return New(ErrCodeInvalidReference, "reference URL must use http, https, or data scheme")
	}

	return nil
}

// ValidateExportFormat validates an export format identifier.
func ValidateExportFormat(format string) error {
	switch strings.ToLower(format) {
	case "png", "pdf", "pptx":
		return nil
	case "":
		return New(ErrCodeInvalidFormat, "export format cannot be empty")
	default:
		return New(ErrCodeInvalidFormat, "unsupported export format: %q (want png, pdf, or pptx)", format)
	}
}

// hexColorRegex matches CSS hex colors in #rgb or #rrggbb form.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a CSS hex color string.
func ValidateHexColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}

	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid hex color: %q", color)
	}

	return nil
}

// ValidateDeckTitle validates a user-supplied deck title.
// It rejects titles that could be used for path traversal when the title is
// embedded in export filenames.
func ValidateDeckTitle(title string) error {
	if title == "" {
		return New(ErrCodeInvalidInput, "deck title cannot be empty")
	}

	if len(title) > 256 {
		return New(ErrCodeInvalidInput, "deck title too long (max 256 characters)")
	}

	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "deck title contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(title, pattern) {
			return New(ErrCodeInvalidInput, "deck title contains invalid characters: %q", pattern)
		}
	}

	return nil
}
