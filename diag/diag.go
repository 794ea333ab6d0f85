// Copyright (C) 2026 Mucgly Authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package diag formats the diagnostics the macro engine raises: a fixed
// severity/kind taxonomy plus the one-line rendering the driver prints to
// stderr.
package diag

import "fmt"

// Severity classifies how a Diagnostic should affect the overall run.
type Severity int

const (
	Warning Severity = iota
	Error
	Fatal
	Exception
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	case Exception:
		return "exception"
	default:
		return "unknown"
	}
}

// Kind distinguishes the error conditions the engine must tell apart.
type Kind string

const (
	EOFInMacro           Kind = "eof-in-macro"
	UnknownDirective     Kind = "unknown-directive"
	MultihookEscapeClash Kind = "multihook-escape-clash"
	MultihookCapacity    Kind = "multihook-capacity"
	FileOpen             Kind = "file-open"
	InternalInvariant    Kind = "internal-invariant"
	EaterType            Kind = "eater-type"
	EvaluatorException   Kind = "evaluator-exception"

	// DuplicateInclude is reported by includecache as a Warning, never
	// anything more severe, since it never changes scanning semantics.
	DuplicateInclude Kind = "duplicate-include"
)

// Diagnostic is a single reportable condition. Line and Column are 1-based;
// when raised while a macro is open, File/Line/Column name the position
// just after the macro's opening delimiter, not the byte currently under the
// cursor.
type Diagnostic struct {
	Program  string
	Severity Severity
	Kind     Kind
	File     string
	Line     int
	Column   int
	Message  string
}

// Error renders "<program> <severity> in "<file>:<line>:<col>": <message>".
func (d *Diagnostic) Error() string {
	program := d.Program
	if program == "" {
		program = "mucgly"
	}
	return fmt.Sprintf("%s %s in %q: %s", program, d.Severity, fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column), d.Message)
}

// New builds a Diagnostic with a formatted message.
func New(program string, sev Severity, kind Kind, file string, line, col int, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Program:  program,
		Severity: sev,
		Kind:     kind,
		File:     file,
		Line:     line,
		Column:   col,
		Message:  fmt.Sprintf(format, args...),
	}
}
