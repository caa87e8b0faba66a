package validation

import (
	"strings"
	"unicode"

	"github.com/xnftlabs/backend/internal/models"
)

// ValidateName checks the display name of an asset. The byte length is
// bounded, not the rune count.
func ValidateName(name string) error {
	if name == "" || len(name) > models.MaxNameLength {
		return models.ErrNameTooLong
	}
	return nil
}

// ValidateUri checks a metadata or review URI
func ValidateUri(uri string) error {
	if uri == "" || len(uri) > models.MaxUriLength {
		return models.ErrUriExceedsMaxLength
	}
	return nil
}

// ValidateCreators checks a royalty creator list: shares are percentages
// that must sum to exactly 100, and the publisher must appear in the list.
func ValidateCreators(publisher string, creators []models.Creator) error {
	if len(creators) == 0 {
		return models.ErrUnknownCreator
	}

	var total uint64
	seenPublisher := false
	seen := make(map[string]bool, len(creators))
	for _, c := range creators {
		if c.Address == "" || seen[c.Address] {
			return models.ErrUnknownCreator
		}
		seen[c.Address] = true
		if c.Address == publisher {
			seenPublisher = true
		}
		total += uint64(c.Share)
	}
	if total != 100 {
		return models.ErrUnknownCreator
	}
	if !seenPublisher {
		return models.ErrUnknownCreator
	}
	return nil
}

// ValidatePassword validates password strength
func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		}
	}

	return hasUpper && hasLower && hasNumber
}

// SanitizeString removes potentially harmful characters
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}
