package diag

import "fmt"

// BuildError is a fatal diagnostic returned from Build when the core aborts
// (spec.md §7: "fatals abort the build future; no partial graph is
// returned"). It carries the same structured Msg every warning does so a
// caller can render it identically.
type BuildError struct {
	Msg Msg
}

func NewBuildError(code Code, text string) *BuildError {
	return &BuildError{Msg: Msg{Kind: Error, Code: code, Text: text}}
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Msg.Code, e.Msg.String())
}
