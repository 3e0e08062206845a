// output.go — rendering result rows.
//
// Three modes. Plain: one row per line, cells tab-separated, no header, for
// pipes. Aligned: the same through a tabwriter with a header row. JSON: one
// object per row with the select labels as keys; numbers and booleans stay
// native, Empty becomes null, everything else is its display string. In
// every mode an empty result set produces no output at all.
package findit

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

type printMode int

const (
	printPlain printMode = iota
	printAligned
	printJSON
)

// Printer writes rows in one of the output modes. Call Flush once after the
// last row.
type Printer struct {
	w       io.Writer
	tab     *tabwriter.Writer
	headers []string
	mode    printMode
	started bool
}

func NewPrinter(w io.Writer, headers []string, jsonMode, aligned bool) *Printer {
	p := &Printer{w: w, headers: headers}
	switch {
	case jsonMode:
		p.mode = printJSON
	case aligned:
		p.mode = printAligned
		p.tab = tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	default:
		p.mode = printPlain
	}
	return p
}

func (p *Printer) Row(row Row) error {
	if p.mode == printJSON {
		return p.jsonRow(row)
	}
	if p.mode == printAligned && !p.started {
		p.started = true
		if _, err := fmt.Fprintln(p.tab, strings.Join(p.headers, "\t")); err != nil {
			return err
		}
	}
	cells := make([]string, len(row.Cells))
	for i, v := range row.Cells {
		cells[i] = v.Display()
	}
	line := strings.Join(cells, "\t")
	if p.mode == printAligned {
		_, err := fmt.Fprintln(p.tab, line)
		return err
	}
	_, err := fmt.Fprintln(p.w, line)
	return err
}

func (p *Printer) jsonRow(row Row) error {
	var b strings.Builder
	b.WriteByte('{')
	for i, v := range row.Cells {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(p.columnLabel(i))
		if err != nil {
			return err
		}
		b.Write(key)
		b.WriteByte(':')
		cell, err := jsonCell(v)
		if err != nil {
			return err
		}
		b.WriteString(cell)
	}
	b.WriteByte('}')
	_, err := fmt.Fprintln(p.w, b.String())
	return err
}

func (p *Printer) columnLabel(i int) string {
	if i < len(p.headers) {
		return p.headers[i]
	}
	return strconv.Itoa(i)
}

func jsonCell(v Value) (string, error) {
	switch v.Tag {
	case TagEmpty:
		return "null", nil
	case TagNumber:
		return strconv.FormatUint(v.asNumber(), 10), nil
	case TagBool:
		return strconv.FormatBool(v.asBool()), nil
	default:
		enc, err := json.Marshal(v.Display())
		return string(enc), err
	}
}

// Flush drains the aligning writer. A no-op in the other modes.
func (p *Printer) Flush() error {
	if p.tab != nil && p.started {
		return p.tab.Flush()
	}
	return nil
}
