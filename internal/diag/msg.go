// Package diag is the Warning & Error Sink (spec.md §4.8): structured
// diagnostics routed through a Log, with warnings deduplicated and errors
// fatal to the build. Shaped after the teacher's internal/logger.Log, whose
// Msg{Kind, Data, Notes} record and AddMsg/Done/HasErrors closures this
// package generalizes; the terminal renderer is pterm instead of esbuild's
// hand-rolled ANSI escape codes (SPEC_FULL.md §1.1).
package diag

import "strconv"

// Kind distinguishes a fatal error from an advisory warning.
type Kind uint8

const (
	Warning Kind = iota
	Error
)

func (k Kind) String() string {
	if k == Error {
		return "error"
	}
	return "warning"
}

// Code is one of the diagnostic codes enumerated in spec.md §6.
type Code string

const (
	CodeUnresolvedEntry      Code = "UNRESOLVED_ENTRY"
	CodeDuplicateEntryPoints Code = "DUPLICATE_ENTRY_POINTS"
	CodeBadLoader            Code = "BAD_LOADER"
	CodeUnresolvedImport     Code = "UNRESOLVED_IMPORT"
	CodeCircularDependency   Code = "CIRCULAR_DEPENDENCY"
	CodeNamespaceConflict    Code = "NAMESPACE_CONFLICT"
	CodeInvalidExternalID    Code = "INVALID_EXTERNAL_ID"
	CodeUnusedExternalImport Code = "UNUSED_EXTERNAL_IMPORT"
	CodeConfiguration        Code = "CONFIGURATION"
	CodePluginError          Code = "PLUGIN_ERROR"
)

// Location pinpoints a diagnostic within a source file, matching the
// "(plugin) file (L:C) message" rendering spec.md §4.8 mandates.
type Location struct {
	File   string
	Line   int // 1-based
	Column int // 1-based
}

// Msg is one diagnostic record.
type Msg struct {
	Kind     Kind
	Code     Code
	Text     string
	Plugin   string // "" if not raised from within a plugin hook
	Location *Location
}

// String renders "(plugin) file (L:C) message", omitting absent parts, the
// format spec.md §4.8 specifies for warn(warning).toString().
func (m Msg) String() string {
	s := ""
	if m.Plugin != "" {
		s += "(" + m.Plugin + ") "
	}
	if m.Location != nil {
		s += m.Location.File
		if m.Location.Line > 0 {
			s += formatLineCol(m.Location.Line, m.Location.Column)
		}
		s += " "
	}
	s += m.Text
	return s
}

func formatLineCol(line, col int) string {
	return " (" + strconv.Itoa(line) + ":" + strconv.Itoa(col) + ")"
}
