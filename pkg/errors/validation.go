package errors

import (
	"strings"
	"unicode"
)

// ValidateImageName validates the name of a scheme image.
// Names are registry keys and are echoed into HTML, so the rules are
// conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateImageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidDocument, "image name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidDocument, "image name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDocument, "image name contains invalid control characters")
		}
	}

	return nil
}

// ValidateMediaType validates an image media type.
// An empty media type is valid and means image/png.
func ValidateMediaType(mediaType string) error {
	if mediaType == "" {
		return nil
	}

	if !strings.HasPrefix(mediaType, "image/") {
		return New(ErrCodeInvalidDocument, "media type %q is not an image type", mediaType)
	}

	if strings.ContainsAny(mediaType, ";, \"'") {
		return New(ErrCodeInvalidDocument, "media type %q contains invalid characters", mediaType)
	}

	return nil
}

// ValidateComponentID validates a component identifier.
func ValidateComponentID(id int) error {
	if id <= 0 {
		return New(ErrCodeInvalidDocument, "component id must be positive, got %d", id)
	}
	return nil
}
