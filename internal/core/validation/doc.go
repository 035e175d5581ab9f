// Package validation provides pure validation functions for Unraid container
// templates.
//
// This package contains the functional core logic for the validate command.
// All functions are pure (no I/O, no side effects); filesystem facts such as
// the presence of a local logo file are resolved by the shell and passed in.
//
// # Functions
//
//   - ValidateTemplate: Check one parsed template against the quality rules
//   - MalformedViolation: Wrap a parse failure as a reportable violation
//   - HasErrors: Decide whether a violation list fails the run
//
// # Usage
//
// The validate command collects violations across every template and exits
// non-zero when any template has an error-severity finding:
//
//	violations := validation.ValidateTemplate(tpl, hasLogo)
//	if validation.HasErrors(violations) {
//	    // report and fail the run
//	}
package validation
