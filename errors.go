// errors.go — diagnostics and caret-snippet rendering.
//
// Expressions fail in exactly one of three build stages, each with its own
// error type carrying the offending position: *LexError (lexer.go),
// *ParseError (parser.go) and *TypeError (builder.go). Line is 1-based and
// Col is 0-based in all three; rendering converts Col to 1-based.
//
// WrapErrorWithSource turns any of them into a readable multi-line snippet
// with a caret under the offending column:
//
//	TYPE ERROR in --where at 1:8: MATCHES expects STRING, got NUMBER
//
//	   1 | size matches "a.*"
//	       |        ^
//
// Other error kinds pass through unchanged. There is no run-time error type:
// once built, evaluation reports absence through the Empty value instead.
package findit

import (
	"fmt"
	"strings"
)

// LexError is a lexical fault at a source position.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// ParseError is a syntactic fault at a source position.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// TypeError is a static typing fault found while building an evaluator.
type TypeError struct {
	Line int
	Col  int
	Msg  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("TYPE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// WrapErrorWithSource augments lex/parse/type errors with a caret-annotated
// snippet of src. Any other error is returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with an origin label (for example
// the flag the expression came from) woven into the header line.
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "LEXICAL ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "PARSE ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *TypeError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "TYPE ERROR", srcName, e.Line, e.Col+1, e.Msg))
	default:
		return err
	}
}

// prettyErrorStringLabeled builds the snippet: a header, up to one line of
// context before and after, and a caret under the 1-based column. Coordinates
// out of range are clamped so rendering never fails.
func prettyErrorStringLabeled(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad > len(lineTxt) {
		caretPad = len(lineTxt)
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
