// lexer.go
package findit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Punctuation
	LPAREN   // "("
	RPAREN   // ")"
	LBRACKET // "["
	RBRACKET // "]"
	LBRACE   // "{"
	RBRACE   // "}"
	COMMA    // ","
	DOT      // "." (method invocation)

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	AMP
	PIPE
	CARET
	EQ         // "=" or "=="
	NEQ        // "!=" or "<>"
	LESS       // "<"
	LESS_EQ    // "<="
	GREATER    // ">"
	GREATER_EQ // ">="

	// Literals
	INTEGER // uint64 in Literal
	STRLIT  // decoded string in Literal
	PATHLIT // path text in Literal
	DATELIT // time.Time in Literal

	// Names
	BINDING  // "$name"; name in Literal
	FIELDDEF // ":name"; name in Literal
	FIELDGET // "::name"; name in Literal
	LISTOPEN // ":["
	PROPERTY // file property; canonical name in Literal
	FNNAME   // function name; canonical name in Literal
	METHOD   // method name; canonical name in Literal

	// Control keywords
	AND
	OR
	XOR
	NOT
	IS
	IF
	THEN
	ELSE
	END
	CASE
	WHEN
	BETWEEN
	MATCHES
	AS
	OF
	WITH
	DO
	IN
	FROM
	FOR
	INTO
	TRUE
	FALSE
	EMPTY
	BOOL
	NUMBER
	STRING
	DATE
	DIR
	DIRECTORY
	FILE
	LINK
	SYMLINK
	HIDDEN
	ABSOLUTE
	RELATIVE
	EXISTS
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for literals, canonical name for words
	Line    int
	Col     int
}

// The reserved words live in four disjoint tables. Lookup is done on the
// upper-cased word; an unknown bare word is a lexical error, never an
// identifier.

// properties maps each file property to the type it evaluates to.
var properties = map[string]ValueType{
	"NAME":          TypeString,
	"PATH":          TypePath,
	"ABSOLUTE_PATH": TypePath,
	"PARENT":        TypePath,
	"EXTENSION":     TypeString,
	"STEM":          TypeString,
	"SIZE":          TypeNumber,
	"DEPTH":         TypeNumber,
	"CREATED":       TypeDate,
	"MODIFIED":      TypeDate,
	"ACCESSED":      TypeDate,
	"OWNER":         TypeString,
	"GROUP":         TypeString,
	"PERMISSIONS":   TypeString,
	"KIND":          TypeString,
	"CONTENT":       TypeString,
}

var functionNames = map[string]bool{
	"NOW":       true,
	"UPPER":     true,
	"LOWER":     true,
	"TRIM":      true,
	"CONCAT":    true,
	"COALESCE":  true,
	"CWD":       true,
	"FORMAT":    true,
	"PARSE":     true,
	"REPLACE":   true,
	"POSITION":  true,
	"SUBSTRING": true,
	"SPAWN":     true,
	"EXECUTE":   true,
	"OUTPUT":    true,
}

var methodNames = map[string]bool{
	"MAP":        true,
	"FILTER":     true,
	"FLATMAP":    true,
	"SORTBY":     true,
	"DISTINCTBY": true,
	"GROUPBY":    true,
	"ANY":        true,
	"DEBUG":      true,
	"SUM":        true,
	"AVG":        true,
	"MIN":        true,
	"MAX":        true,
	"FIRST":      true,
	"LAST":       true,
	"TAKE":       true,
	"SKIP":       true,
	"JOIN":       true,
	"CONTAINS":   true,
	"INDEXOF":    true,
	"REVERSE":    true,
	"ENUMERATE":  true,
	"DISTINCT":   true,
	"SORT":       true,
	"LENGTH":     true,
	"LINES":      true,
	"WORDS":      true,
	"WALK":       true,
}

var controlWords = map[string]TokenType{
	"AND":       AND,
	"OR":        OR,
	"XOR":       XOR,
	"NOT":       NOT,
	"IS":        IS,
	"IF":        IF,
	"THEN":      THEN,
	"ELSE":      ELSE,
	"END":       END,
	"CASE":      CASE,
	"WHEN":      WHEN,
	"BETWEEN":   BETWEEN,
	"MATCHES":   MATCHES,
	"AS":        AS,
	"OF":        OF,
	"WITH":      WITH,
	"DO":        DO,
	"IN":        IN,
	"FROM":      FROM,
	"FOR":       FOR,
	"INTO":      INTO,
	"TRUE":      TRUE,
	"FALSE":     FALSE,
	"EMPTY":     EMPTY,
	"BOOL":      BOOL,
	"NUMBER":    NUMBER,
	"STRING":    STRING,
	"DATE":      DATE,
	"DIR":       DIR,
	"DIRECTORY": DIRECTORY,
	"FILE":      FILE,
	"LINK":      LINK,
	"SYMLINK":   SYMLINK,
	"HIDDEN":    HIDDEN,
	"ABSOLUTE":  ABSOLUTE,
	"RELATIVE":  RELATIVE,
	"EXISTS":    EXISTS,
}

// Lexer scans an expression source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 0-based column within line
	tokens []Token

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
		col:  0,
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) Token {
	lex := l.src[l.start:l.cur]
	tok := Token{
		Type:    tt,
		Lexeme:  lex,
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\r', '\n', '\t':
			l.advance()
			l.start = l.cur
		default:
			return
		}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// err reports a lexical error at the current position.
func (l *Lexer) err(msg string) error {
	return &LexError{Line: l.line, Col: l.col, Msg: msg}
}

// errAtStart reports a lexical error at the start of the current token.
func (l *Lexer) errAtStart(msg string) error {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: msg}
}

// ----- scanners -----

// scanStringRest reads the remainder of a double-quoted string. The caller
// has already consumed the opening quote.
func (l *Lexer) scanStringRest() (string, error) {
	var out []rune
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == '"' {
			return string(out), nil
		}
		if ch == '\\' {
			if l.isAtEnd() {
				return "", l.err("unfinished escape sequence")
			}
			esc, _ := l.advance()
			switch esc {
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'u':
				r, err := l.scanUnicodeEscape()
				if err != nil {
					return "", err
				}
				out = append(out, r)
			default:
				return "", l.err(fmt.Sprintf("invalid escape sequence: \\%c", esc))
			}
			continue
		}
		// normal char; non-ASCII bytes are decoded as UTF-8 runes
		if ch < utf8.RuneSelf {
			out = append(out, rune(ch))
			continue
		}
		l.cur-- // step back 1 byte to decode the rune from its first byte
		r, size := utf8.DecodeRuneInString(l.src[l.cur:])
		if r == utf8.RuneError && size == 1 {
			return "", l.err("invalid UTF-8 in source")
		}
		out = append(out, r)
		l.cur += size
		l.col += size - 1
	}
	return "", l.err("string was not terminated")
}

// scanUnicodeEscape reads the 4 hex digits of a \uXXXX escape, pairing UTF-16
// surrogates when a matching low half follows.
func (l *Lexer) scanUnicodeEscape() (rune, error) {
	hex4 := func(what string) (rune, error) {
		var hex string
		for i := 0; i < 4; i++ {
			b, ok := l.peek()
			if !ok || !isHex(b) {
				return 0, l.err(what + " was not terminated (expect 4 hex digits)")
			}
			hex += string(b)
			l.advance()
		}
		v, err := strconv.ParseInt(hex, 16, 32)
		if err != nil {
			return 0, l.err("invalid " + what)
		}
		return rune(v), nil
	}

	r, err := hex4("unicode escape")
	if err != nil {
		return 0, err
	}
	if 0xD800 <= r && r <= 0xDBFF {
		saveCur := l.cur
		saveLine, saveCol := l.line, l.col
		if b1, ok := l.peek(); ok && b1 == '\\' {
			l.advance()
			if b2, ok := l.peek(); ok && b2 == 'u' {
				l.advance()
				r2, err := hex4("unicode surrogate pair low")
				if err != nil {
					return 0, err
				}
				if 0xDC00 <= r2 && r2 <= 0xDFFF {
					return utf16.DecodeRune(r, r2), nil
				}
			}
		}
		// not a valid pair; rewind and emit the half as-is
		l.cur = saveCur
		l.line, l.col = saveLine, saveCol
	}
	return r, nil
}

// scanNumber parses an unsigned integer literal. A leading "0" followed by
// exactly one radix letter switches to hex/octal/binary; anything else is
// decimal.
func (l *Lexer) scanNumber(first byte) (uint64, error) {
	base := 10
	digits := func(b byte) bool { return isDigit(b) }
	if first == '0' {
		if b, ok := l.peek(); ok {
			switch b {
			case 'x', 'X':
				base, digits = 16, isHex
			case 'o', 'O':
				base, digits = 8, func(b byte) bool { return b >= '0' && b <= '7' }
			case 'b', 'B':
				base, digits = 2, func(b byte) bool { return b == '0' || b == '1' }
			}
			if base != 10 {
				l.advance() // radix letter
				if b2, ok2 := l.peek(); !ok2 || !digits(b2) {
					return 0, l.err("malformed number")
				}
			}
		}
	}
	for {
		b, ok := l.peek()
		if !ok || !digits(b) {
			break
		}
		l.advance()
	}
	body := l.src[l.start:l.cur]
	if base != 10 {
		body = body[2:] // strip "0x" and friends
	}
	v, convErr := strconv.ParseUint(body, base, 64)
	if convErr != nil {
		return 0, l.errAtStart("number does not fit in 64 bits")
	}
	return v, nil
}

// scanWord parses [A-Za-z_][A-Za-z0-9_]*; caller consumed the first char.
func (l *Lexer) scanWord() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

// barePathEnd reports whether b terminates a bare path literal.
func barePathEnd(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '(', ')', ',', ']', '}':
		return true
	default:
		return false
	}
}

// scanPathOrDate handles the forms after '@': a quoted path, a bare path run,
// or a parenthesized date literal.
func (l *Lexer) scanPathOrDate() (Token, error) {
	b, ok := l.peek()
	if !ok {
		return Token{}, l.err("path literal expected after '@'")
	}
	switch b {
	case '"':
		l.advance()
		text, err := l.scanStringRest()
		if err != nil {
			return Token{}, err
		}
		return l.addToken(PATHLIT, text), nil
	case '(':
		l.advance()
		bodyStart := l.cur
		for {
			c, ok := l.peek()
			if !ok {
				return Token{}, l.errAtStart("date literal was not terminated with ')'")
			}
			if c == ')' {
				break
			}
			l.advance()
		}
		body := l.src[bodyStart:l.cur]
		l.advance() // ')'
		t, err := ParseDateLiteral(body)
		if err != nil {
			return Token{}, l.errAtStart(err.Error())
		}
		return l.addToken(DATELIT, t), nil
	default:
		from := l.cur
		for {
			c, ok := l.peek()
			if !ok || barePathEnd(c) {
				break
			}
			l.advance()
		}
		if l.cur == from {
			return Token{}, l.err("path literal expected after '@'")
		}
		return l.addToken(PATHLIT, l.src[from:l.cur]), nil
	}
}

// ----- main scanner -----

func (l *Lexer) scanToken() (Token, error) {
	l.skipWhitespace()
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.start = l.cur

	if l.isAtEnd() {
		return l.addToken(EOF, nil), nil
	}

	ch, _ := l.advance()

	switch ch {
	case '(':
		return l.addToken(LPAREN, "("), nil
	case ')':
		return l.addToken(RPAREN, ")"), nil
	case '[':
		return l.addToken(LBRACKET, "["), nil
	case ']':
		return l.addToken(RBRACKET, "]"), nil
	case '{':
		return l.addToken(LBRACE, "{"), nil
	case '}':
		return l.addToken(RBRACE, "}"), nil
	case ',':
		return l.addToken(COMMA, ","), nil
	case '.':
		return l.addToken(DOT, "."), nil
	case '+':
		return l.addToken(PLUS, "+"), nil
	case '-':
		return l.addToken(MINUS, "-"), nil
	case '*':
		return l.addToken(STAR, "*"), nil
	case '/':
		return l.addToken(SLASH, "/"), nil
	case '%':
		return l.addToken(PERCENT, "%"), nil
	case '&':
		return l.addToken(AMP, "&"), nil
	case '|':
		return l.addToken(PIPE, "|"), nil
	case '^':
		return l.addToken(CARET, "^"), nil
	case '=':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(EQ, "=="), nil
		}
		return l.addToken(EQ, "="), nil
	case '!':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(NEQ, "!="), nil
		}
		return Token{}, l.err("unexpected character: '!'")
	case '<':
		if b, ok := l.peek(); ok {
			switch b {
			case '=':
				l.advance()
				return l.addToken(LESS_EQ, "<="), nil
			case '>':
				l.advance()
				return l.addToken(NEQ, "<>"), nil
			}
		}
		return l.addToken(LESS, "<"), nil
	case '>':
		if b, ok := l.peek(); ok && b == '=' {
			l.advance()
			return l.addToken(GREATER_EQ, ">="), nil
		}
		return l.addToken(GREATER, ">"), nil
	case '"':
		text, err := l.scanStringRest()
		if err != nil {
			return Token{}, err
		}
		return l.addToken(STRLIT, text), nil
	case '@':
		return l.scanPathOrDate()
	case '$':
		if b, ok := l.peek(); !ok || !isAlpha(b) {
			return Token{}, l.err("binding name expected after '$'")
		}
		l.advance()
		name := l.scanWord()
		return l.addToken(BINDING, name[1:]), nil
	case ':':
		b, ok := l.peek()
		if !ok {
			return Token{}, l.err("field name expected after ':'")
		}
		switch {
		case b == ':':
			l.advance()
			if b2, ok2 := l.peek(); !ok2 || !isAlpha(b2) {
				return Token{}, l.err("field name expected after '::'")
			}
			l.advance()
			name := l.scanWord()
			return l.addToken(FIELDGET, name[2:]), nil
		case b == '[':
			l.advance()
			return l.addToken(LISTOPEN, ":["), nil
		case isAlpha(b):
			l.advance()
			name := l.scanWord()
			return l.addToken(FIELDDEF, name[1:]), nil
		default:
			return Token{}, l.err("field name expected after ':'")
		}
	}

	if isDigit(ch) {
		v, err := l.scanNumber(ch)
		if err != nil {
			return Token{}, err
		}
		return l.addToken(INTEGER, v), nil
	}

	if isAlpha(ch) {
		word := l.scanWord()
		upper := strings.ToUpper(word)
		if tt, ok := controlWords[upper]; ok {
			return l.addToken(tt, upper), nil
		}
		if _, ok := properties[upper]; ok {
			return l.addToken(PROPERTY, upper), nil
		}
		if functionNames[upper] {
			return l.addToken(FNNAME, upper), nil
		}
		if methodNames[upper] {
			return l.addToken(METHOD, upper), nil
		}
		return Token{}, l.errAtStart(fmt.Sprintf("unknown keyword: %s", word))
	}

	return Token{}, l.err(fmt.Sprintf("unexpected character: %q", ch))
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}
