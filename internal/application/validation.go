package application

import (
	"fmt"
	"strings"

	"mentions/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "oldPath" -> "old path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"sign":    "sign",
		"name":    "name",
		"newName": "new name",
		"path":    "path",
		"oldPath": "old path",
		"query":   "query",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateSign checks that sign belongs to a configured mention type and
// returns that type
func ValidateSign(sign string, types domain.MentionTypes) (domain.MentionType, error) {
	mt, ok := types.Get(sign)
	if !ok {
		return mt, fmt.Errorf("%w: %q is not a configured mention sign", ErrInvalidSign, sign)
	}
	return mt, nil
}

// ValidateMentionName checks that name can become the file name of a new
// mention document
func ValidateMentionName(fieldName, name string) error {
	if err := ValidateRequired(fieldName, name); err != nil {
		return err
	}

	if strings.TrimSpace(name) != name {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must not start or end with whitespace", formatFieldName(fieldName)),
		}
	}

	if strings.ContainsAny(name, `/\:*?"<>|[]#^`) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s contains characters not allowed in file names: %s", formatFieldName(fieldName), name),
		}
	}

	return nil
}

// ValidateMentionPath checks that path is a mentionable document and
// returns its parts
func ValidateMentionPath(fieldName, path string, types domain.MentionTypes) (domain.LinkParts, error) {
	if err := ValidateRequired(fieldName, path); err != nil {
		return domain.LinkParts{}, err
	}

	parts, ok := domain.ParseLinkFromPath(path, types)
	if !ok {
		return parts, fmt.Errorf("%w: %s", ErrNotMention, path)
	}
	return parts, nil
}
