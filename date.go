// date.go — date literal parsing and pattern translation.
//
// Date literals `@(...)` and the String-to-Date cast both try RFC-3339 first
// and then a fixed ordered list of layouts: two base forms (02/Jan/2006 and
// 2006-01-02), each optionally followed by a clock (to the minute, the
// second, or with fractional seconds) and optionally a numeric zone offset.
// The first layout that parses wins. Layouts without a zone are read in
// local time, which is also what file timestamps compare against.
//
// FORMAT and PARSE take user patterns in strftime notation and translate
// them to Go layouts; an unsupported directive is reported as an error and
// surfaces as Empty at evaluation time.
package findit

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = buildDateLayouts()

func buildDateLayouts() []string {
	bases := []string{"02/Jan/2006", "2006-01-02"}
	clocks := []string{"", " 15:04", " 15:04:05", " 15:04:05.999999999"}
	zones := []string{"", " -0700"}
	var out []string
	for _, b := range bases {
		for _, c := range clocks {
			for _, z := range zones {
				out = append(out, b+c+z)
			}
		}
	}
	return out
}

// ParseDateLiteral parses the (trimmed) body of a date literal.
func ParseDateLiteral(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range dateLayouts {
		var t time.Time
		var err error
		if strings.HasSuffix(layout, "-0700") {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// strftime directives understood by FORMAT and PARSE, mapped onto the Go
// reference time.
var strftimeTable = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'e': "_2",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'b': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'p': "PM",
	'z': "-0700",
	'Z': "MST",
	'j': "002",
	'D': "01/02/06",
	'F': "2006-01-02",
	'T': "15:04:05",
	'R': "15:04",
	'%': "%",
}

// strftimeLayout translates a strftime pattern into a Go time layout.
func strftimeLayout(pattern string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(pattern) {
			return "", fmt.Errorf("dangling %% at end of date pattern")
		}
		// %.f is fractional seconds; everything else is one letter.
		if pattern[i] == '.' && i+1 < len(pattern) && pattern[i+1] == 'f' {
			b.WriteString(".999999999")
			i++
			continue
		}
		rep, ok := strftimeTable[pattern[i]]
		if !ok {
			return "", fmt.Errorf("unsupported date directive %%%c", pattern[i])
		}
		b.WriteString(rep)
	}
	return b.String(), nil
}

// formatDate renders t with a strftime pattern. ok=false when the pattern
// has an unsupported directive.
func formatDate(t time.Time, pattern string) (string, bool) {
	layout, err := strftimeLayout(pattern)
	if err != nil {
		return "", false
	}
	return t.Format(layout), true
}

// parseDate reads text with a strftime pattern, in local time unless the
// pattern carries a zone.
func parseDate(text, pattern string) (time.Time, bool) {
	layout, err := strftimeLayout(pattern)
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(layout, strings.TrimSpace(text), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
