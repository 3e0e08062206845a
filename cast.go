// cast.go — the AS conversions.
//
// Casts are total: any value can be asked to become any of the five scalar
// kinds, and a conversion that makes no sense or fails answers Empty. The
// result of a cast to T is always of type T or Empty, so casting it to T
// again changes nothing.
package findit

import (
	"math"
	"strconv"
	"strings"
	"time"
)

func castValue(ctx *Context, v Value, target ValueTag) Value {
	if v.IsEmpty() {
		return Empty
	}
	switch target {
	case TagBool:
		return castBool(v)
	case TagNumber:
		return castNumber(v)
	case TagString:
		return Str(v.Display())
	case TagPath:
		return castPath(v)
	case TagDate:
		return castDate(ctx, v)
	default:
		return Empty
	}
}

func castBool(v Value) Value {
	switch v.Tag {
	case TagBool:
		return v
	case TagNumber:
		return Bool(v.asNumber() != 0)
	case TagString:
		switch strings.ToLower(strings.TrimSpace(v.asString())) {
		case "yes", "true", "y", "t":
			return Bool(true)
		case "no", "false", "n", "f":
			return Bool(false)
		}
		return Empty
	default:
		return Empty
	}
}

func castNumber(v Value) Value {
	switch v.Tag {
	case TagNumber:
		return v
	case TagBool:
		if v.asBool() {
			return Number(1)
		}
		return Number(0)
	case TagString:
		if n, ok := parseNumberText(v.asString()); ok {
			return Number(n)
		}
		return Empty
	case TagDate:
		sec := v.asDate().Unix()
		if sec < 0 {
			return Empty
		}
		return Number(uint64(sec))
	case TagList:
		return Number(uint64(v.asList().Len()))
	default:
		return Empty
	}
}

func castPath(v Value) Value {
	switch v.Tag {
	case TagPath:
		return v
	case TagString:
		return Path(v.asString())
	default:
		return Empty
	}
}

func castDate(ctx *Context, v Value) Value {
	switch v.Tag {
	case TagDate:
		return v
	case TagNumber:
		n := v.asNumber()
		if n > math.MaxInt64 {
			return Empty
		}
		return Date(time.Unix(int64(n), 0))
	case TagString:
		if t, err := ParseDateLiteral(v.asString()); err == nil {
			return Date(t)
		}
		return Empty
	case TagPath:
		m, err := ctx.FS.Target(v.asPath())
		if err != nil || m.Accessed.IsZero() {
			return Empty
		}
		return Date(m.Accessed)
	default:
		return Empty
	}
}

// parseNumberText accepts what the lexer accepts for integer literals, as
// text: a decimal run, or 0x/0o/0b with the matching digits. Surrounding
// whitespace is forgiven.
func parseNumberText(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if len(s) >= 3 && s[0] == '0' {
		var base int
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			return n, err == nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	return n, err == nil
}
