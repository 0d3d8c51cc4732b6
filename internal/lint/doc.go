// Package lint defines the diagnostic model produced by a JavaScript lint
// engine and the reporter that normalises it into line-oriented text.
//
// # Data model
//
// Result is the whole engine verdict for one source text:
//
//   - OK – the engine's overall verdict; a clean result reports nothing.
//   - Errors – engine-ordered diagnostics. A nil entry is the fatal sentinel:
//     the engine aborted before it could attach a position.
//   - Implied – names the engine saw used as globals without a declaration.
//
// Positions inside Error are 0-based, exactly as the engine emits them.
//
// # Report format
//
// Reporter turns a Result into ReportLine records:
//
//	<line>::<character>::<reason>
//
// with 1-based positions. Fatal entries and the implied-globals summary use
// the 0::0 position because they have no location. Lines are joined with a
// single '\n' and carry no trailing separator.
//
// The reporter is a pure function of its input: it never reads engine state
// from globals, never sorts diagnostics, never fails. Malformed entries
// degrade to the fatal line instead of breaking the report.
//
// CheckText adds optional plain-text records (long lines, trailing spaces,
// conflict markers, tabs) positioned at column 0.
//
// ParseReport goes the other way and is used by consumers (and by the CLI
// "parse" command) that read reports produced elsewhere.
package lint
