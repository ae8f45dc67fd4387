package asm

import (
	"errors"
	"fmt"

	"github.com/ezrec/retroasm/source"
)

// Severity is the severity of a diagnostic.
type Severity int

//go:generate go tool stringer -linecomment -type=Severity
const (
	SEVERITY_INFO    = Severity(0) // info
	SEVERITY_WARNING = Severity(1) // warning
	SEVERITY_ERROR   = Severity(2) // error
)

// Diagnostic is a message about a source line.
type Diagnostic struct {
	Severity Severity
	Position source.Position
	Err      error
}

func (diag *Diagnostic) Error() string {
	return fmt.Sprintf("%v: %v: %v", diag.Position, diag.Severity, diag.Err)
}

func (diag *Diagnostic) Unwrap() error {
	return diag.Err
}

// Diagnostics is the list of diagnostics of a pass.
type Diagnostics []*Diagnostic

// Add appends a diagnostic.
func (diags *Diagnostics) Add(severity Severity, pos source.Position, err error) *Diagnostic {
	diag := &Diagnostic{Severity: severity, Position: pos, Err: err}
	*diags = append(*diags, diag)
	return diag
}

// Errors returns the diagnostics of error severity.
func (diags Diagnostics) Errors() (errs Diagnostics) {
	for _, diag := range diags {
		if diag.Severity == SEVERITY_ERROR {
			errs = append(errs, diag)
		}
	}
	return
}

// Warnings returns the diagnostics of warning severity.
func (diags Diagnostics) Warnings() (warns Diagnostics) {
	for _, diag := range diags {
		if diag.Severity == SEVERITY_WARNING {
			warns = append(warns, diag)
		}
	}
	return
}

// Err joins the error diagnostics, or returns nil if there are none.
func (diags Diagnostics) Err() error {
	var errs []error
	for _, diag := range diags.Errors() {
		errs = append(errs, diag)
	}
	return errors.Join(errs...)
}
