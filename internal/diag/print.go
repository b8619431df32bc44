package diag

import "github.com/pterm/pterm"

// Print renders msgs to the terminal via pterm, the default onwarn/onerror
// sink spec.md §4.8 describes ("default handler ... writes to standard
// error"). The teacher renders this itself with hand-rolled ANSI escapes
// (internal/logger.PrintMessageToStderr); this core instead leans on pterm,
// already used for CLI-facing diagnostics elsewhere in the retrieval pack
// (SPEC_FULL.md §1.1).
func Print(msgs []Msg) {
	for _, m := range msgs {
		printer := pterm.Warning
		if m.Kind == Error {
			printer = pterm.Error
		}
		printer.Printfln("[%s] %s", m.Code, m.String())
	}
}
