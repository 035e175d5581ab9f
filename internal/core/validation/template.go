package validation

import (
	"errors"
	"regexp"
	"strings"

	"github.com/fgrfn/unraid-templates/internal/core/template"
)

// =============================================================================
// Error Kinds
// =============================================================================

var (
	// ErrMissingIcon is reported when a template has neither an Icon URL
	// nor a local logo file beside it.
	ErrMissingIcon = errors.New("missing icon")

	// ErrMalformedTemplate is reported for schema violations: missing
	// required fields or an unparseable document.
	ErrMalformedTemplate = errors.New("malformed template")
)

// =============================================================================
// Violations
// =============================================================================

// Severity classifies a violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation describes a single validation finding for one template.
type Violation struct {
	Field    string
	Message  string
	Severity Severity
	Err      error // underlying error kind, errors.Is-testable
}

func (v Violation) Error() string {
	if v.Field != "" {
		return v.Field + ": " + v.Message
	}
	return v.Message
}

func (v Violation) Unwrap() error {
	return v.Err
}

// HasErrors reports whether any violation is error severity.
func HasErrors(violations []Violation) bool {
	for _, v := range violations {
		if v.Severity == SeverityError {
			return true
		}
	}
	return false
}

// =============================================================================
// Template Rules
// =============================================================================

// repositoryRegex accepts docker image references: an optional registry host
// (with optional port), lowercase path components, and an optional tag or
// digest.
var repositoryRegex = regexp.MustCompile(
	`^(?:[a-zA-Z0-9](?:[a-zA-Z0-9.-]*[a-zA-Z0-9])?(?::[0-9]+)?/)?` +
		`[a-z0-9]+(?:[._-][a-z0-9]+)*(?:/[a-z0-9]+(?:[._-][a-z0-9]+)*)*` +
		`(?::[A-Za-z0-9_][A-Za-z0-9._-]{0,127})?(?:@sha256:[a-f0-9]{64})?$`)

// ValidateTemplate checks one parsed template against the repository's
// quality rules. hasLocalIcon reports whether a logo file exists beside the
// template on disk; the icon rule passes when either the Icon field or a
// local logo resolves.
//
// All findings are collected; validation never stops at the first failure.
func ValidateTemplate(c *template.Container, hasLocalIcon bool) []Violation {
	var violations []Violation

	if strings.TrimSpace(c.Name) == "" {
		violations = append(violations, Violation{
			Field:    "Name",
			Message:  "missing or empty Name field",
			Severity: SeverityError,
			Err:      ErrMalformedTemplate,
		})
	}

	repo := strings.TrimSpace(c.Repository)
	switch {
	case repo == "":
		violations = append(violations, Violation{
			Field:    "Repository",
			Message:  "missing or empty Repository field",
			Severity: SeverityError,
			Err:      ErrMalformedTemplate,
		})
	case !repositoryRegex.MatchString(repo):
		violations = append(violations, Violation{
			Field:    "Repository",
			Message:  "not a well-formed image reference: " + repo,
			Severity: SeverityError,
			Err:      ErrMalformedTemplate,
		})
	}

	icon := strings.TrimSpace(c.Icon)
	switch {
	case icon == "" && !hasLocalIcon:
		violations = append(violations, Violation{
			Field:    "Icon",
			Message:  "missing icon: no Icon URL and no local logo file",
			Severity: SeverityError,
			Err:      ErrMissingIcon,
		})
	case icon != "" && !strings.HasPrefix(icon, "https://"):
		violations = append(violations, Violation{
			Field:    "Icon",
			Message:  "icon URL should use HTTPS: " + icon,
			Severity: SeverityWarning,
		})
	}

	return violations
}

// MalformedViolation wraps a parse failure as a single error violation so
// unreadable templates flow through the same report as field violations.
func MalformedViolation(err error) Violation {
	return Violation{
		Message:  "XML parsing error: " + err.Error(),
		Severity: SeverityError,
		Err:      ErrMalformedTemplate,
	}
}
