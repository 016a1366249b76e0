package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxIDLength bounds node and document ids.
const MaxIDLength = 128

// ValidateNodeID validates a node id received from outside the process.
// Ids are opaque, but they travel in URLs and log lines, so control
// characters and slashes are rejected.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "node id cannot be empty")
	}
	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidID, "node id too long (max %d characters)", MaxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "node id contains invalid control characters")
		}
	}
	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidID, "node id cannot contain slashes")
	}
	return nil
}

// documentIDRegex matches document ids usable as file names, Redis keys
// and Mongo _id values alike.
var documentIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateDocumentID validates a document id for the document stores.
//
// Validation rules:
//   - Id cannot be empty
//   - Maximum length of MaxIDLength characters
//   - Letters, digits, dot, dash and underscore only, starting with a
//     letter or digit
//   - No path traversal sequences (..)
func ValidateDocumentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "document id cannot be empty")
	}
	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidID, "document id too long (max %d characters)", MaxIDLength)
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidID, "document id cannot contain path traversal sequences (..)")
	}
	if !documentIDRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid document id: %q", id)
	}
	return nil
}

// ValidatePath validates a file path given on the command line or in a
// config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a scheme the document stores understand.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes %v", schemes)
}
