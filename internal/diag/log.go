package diag

import "sync"

// Log is the sink every core component writes diagnostics through. Its shape
// -- a handful of closures rather than a concrete struct with exported
// fields -- mirrors the teacher's logger.Log, which lets NewStderrLog and
// NewDeferLog share call sites while differing in what AddMsg actually does.
type Log struct {
	AddMsg    func(Msg)
	HasErrors func() bool
	Done      func() []Msg
}

// NewDeferredLog returns a Log that buffers every message (matching the
// teacher's NewDeferLog) deduplicating warnings by their rendered text, the
// way spec.md §4.8's default handler requires. Errors are never deduplicated:
// each is a distinct fatal condition.
func NewDeferredLog() Log {
	var mu sync.Mutex
	var msgs []Msg
	seenWarnings := make(map[string]bool)
	hasErrors := false

	return Log{
		AddMsg: func(m Msg) {
			mu.Lock()
			defer mu.Unlock()
			if m.Kind == Warning {
				key := m.String()
				if seenWarnings[key] {
					return
				}
				seenWarnings[key] = true
			} else {
				hasErrors = true
			}
			msgs = append(msgs, m)
		},
		HasErrors: func() bool {
			mu.Lock()
			defer mu.Unlock()
			return hasErrors
		},
		Done: func() []Msg {
			mu.Lock()
			defer mu.Unlock()
			out := make([]Msg, len(msgs))
			copy(out, msgs)
			return out
		},
	}
}

// AddWarning is a convenience wrapper for the common case of a
// location-free warning.
func (l Log) AddWarning(code Code, text string) {
	l.AddMsg(Msg{Kind: Warning, Code: code, Text: text})
}

// AddError is a convenience wrapper for the common case of a
// location-free error.
func (l Log) AddError(code Code, text string) {
	l.AddMsg(Msg{Kind: Error, Code: code, Text: text})
}
