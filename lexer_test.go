package findit

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// --- helpers -----------------------------------------------------------------

func toks(t *testing.T, src string) []Token {
	t.Helper()
	tokens, err := NewLexer(src).Scan()
	if err != nil {
		t.Fatalf("Scan error for %q: %v", src, err)
	}
	return tokens
}

func typesWithoutEOF(tokens []Token) []TokenType {
	out := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == EOF {
			break
		}
		out = append(out, tok.Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	tokens := toks(t, src)
	got := typesWithoutEOF(tokens)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("token types for %q:\n got %v\nwant %v", src, got, want)
	}
	return tokens
}

func wantLexErr(t *testing.T, src, substr string) *LexError {
	t.Helper()
	_, err := NewLexer(src).Scan()
	if err == nil {
		t.Fatalf("expected a lex error for %q, got none", src)
	}
	le, ok := err.(*LexError)
	if !ok {
		t.Fatalf("expected *LexError for %q, got %T: %v", src, err, err)
	}
	if !strings.Contains(le.Msg, substr) {
		t.Fatalf("lex error for %q should mention %q, got %q", src, substr, le.Msg)
	}
	return le
}

// --- tests -------------------------------------------------------------------

func Test_Lexer_Punctuation_And_Operators(t *testing.T) {
	wantTypes(t, "( ) [ ] { } , .",
		[]TokenType{LPAREN, RPAREN, LBRACKET, RBRACKET, LBRACE, RBRACE, COMMA, DOT})
	wantTypes(t, "+ - * / % & | ^",
		[]TokenType{PLUS, MINUS, STAR, SLASH, PERCENT, AMP, PIPE, CARET})
	wantTypes(t, "= == != <> < <= > >=",
		[]TokenType{EQ, EQ, NEQ, NEQ, LESS, LESS_EQ, GREATER, GREATER_EQ})
}

func Test_Lexer_Numbers_And_Radixes(t *testing.T) {
	cases := []struct {
		src  string
		want uint64
	}{
		{"0", 0},
		{"42", 42},
		{"007", 7},
		{"0x2A", 42},
		{"0XFF", 255},
		{"0o52", 42},
		{"0b101010", 42},
		{"18446744073709551615", 18446744073709551615},
		{"0xFFFFFFFFFFFFFFFF", 18446744073709551615},
	}
	for _, c := range cases {
		tokens := wantTypes(t, c.src, []TokenType{INTEGER})
		if got := tokens[0].Literal.(uint64); got != c.want {
			t.Fatalf("literal of %q: want %d, got %d", c.src, c.want, got)
		}
	}
	wantLexErr(t, "18446744073709551616", "number does not fit in 64 bits")
	wantLexErr(t, "0x10000000000000000", "number does not fit in 64 bits")
	wantLexErr(t, "0x", "malformed number")
	wantLexErr(t, "0b2", "malformed number")
}

func Test_Lexer_Strings_And_Escapes(t *testing.T) {
	cases := []struct{ src, want string }{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"a\"b"`, `a"b`},
		{`"a\\b"`, `a\b`},
		{`"l1\nl2\tend\r"`, "l1\nl2\tend\r"},
		{`"h\u00e9llo"`, "héllo"},
		{`"caf\u00E9"`, "café"},
		{`"\uD83D\uDE00"`, "\U0001F600"},
		{`"héllo"`, "héllo"},
	}
	for _, c := range cases {
		tokens := wantTypes(t, c.src, []TokenType{STRLIT})
		if got := tokens[0].Literal.(string); got != c.want {
			t.Fatalf("literal of %q: want %q, got %q", c.src, c.want, got)
		}
	}
	wantLexErr(t, `"open`, "string was not terminated")
	wantLexErr(t, `"bad \q"`, `invalid escape sequence: \q`)
	wantLexErr(t, `"bad \u12"`, "unicode escape was not terminated")
}

func Test_Lexer_Path_Literals(t *testing.T) {
	cases := []struct{ src, want string }{
		{"@src/main.c", "src/main.c"},
		{"@a.b.c", "a.b.c"}, // bare paths keep their dots
		{"@../up", "../up"},
		{`@"with space/x.txt"`, "with space/x.txt"},
	}
	for _, c := range cases {
		tokens := wantTypes(t, c.src, []TokenType{PATHLIT})
		if got := tokens[0].Literal.(string); got != c.want {
			t.Fatalf("literal of %q: want %q, got %q", c.src, c.want, got)
		}
	}
	// A bare path ends at whitespace, parens, commas, ']' and '}'.
	tokens := wantTypes(t, "(@a/b)", []TokenType{LPAREN, PATHLIT, RPAREN})
	if got := tokens[1].Literal.(string); got != "a/b" {
		t.Fatalf("want a/b, got %q", got)
	}
	tokens = wantTypes(t, "{:a @p}", []TokenType{LBRACE, FIELDDEF, PATHLIT, RBRACE})
	if got := tokens[2].Literal.(string); got != "p" {
		t.Fatalf("a record brace should end the path, got %q", got)
	}
	wantLexErr(t, "@", "path literal expected after '@'")
	wantLexErr(t, "@ x", "path literal expected after '@'")
}

func Test_Lexer_Date_Literals(t *testing.T) {
	cases := []struct {
		src  string
		want time.Time
	}{
		{"@(2021-07-09)", time.Date(2021, 7, 9, 0, 0, 0, 0, time.Local)},
		{"@(2021-07-09 12:30:45)", time.Date(2021, 7, 9, 12, 30, 45, 0, time.Local)},
		{"@(09/Jul/2021 08:05)", time.Date(2021, 7, 9, 8, 5, 0, 0, time.Local)},
	}
	for _, c := range cases {
		tokens := wantTypes(t, c.src, []TokenType{DATELIT})
		if got := tokens[0].Literal.(time.Time); !got.Equal(c.want) {
			t.Fatalf("literal of %q: want %v, got %v", c.src, c.want, got)
		}
	}
	wantLexErr(t, "@(not a date)", "unrecognized date")
	wantLexErr(t, "@(2021-07-09", "date literal was not terminated")
}

func Test_Lexer_Words_Are_Case_Insensitive(t *testing.T) {
	tokens := wantTypes(t, "if THEN Else eNd", []TokenType{IF, THEN, ELSE, END})
	if tokens[3].Literal.(string) != "END" {
		t.Fatalf("control literal should be canonical, got %v", tokens[3].Literal)
	}

	tokens = wantTypes(t, "name SIZE Modified", []TokenType{PROPERTY, PROPERTY, PROPERTY})
	if tokens[0].Literal.(string) != "NAME" || tokens[2].Literal.(string) != "MODIFIED" {
		t.Fatalf("property literals should be canonical, got %v", tokens)
	}

	tokens = wantTypes(t, "Upper now", []TokenType{FNNAME, FNNAME})
	if tokens[0].Literal.(string) != "UPPER" {
		t.Fatalf("function literal should be canonical, got %v", tokens[0].Literal)
	}

	tokens = wantTypes(t, "groupBy FLATMAP", []TokenType{METHOD, METHOD})
	if tokens[0].Literal.(string) != "GROUPBY" {
		t.Fatalf("method literal should be canonical, got %v", tokens[0].Literal)
	}
}

func Test_Lexer_Sigil_Tokens(t *testing.T) {
	tokens := wantTypes(t, "$file_name", []TokenType{BINDING})
	if tokens[0].Literal.(string) != "file_name" {
		t.Fatalf("binding literal: %v", tokens[0].Literal)
	}

	tokens = wantTypes(t, ":size", []TokenType{FIELDDEF})
	if tokens[0].Literal.(string) != "size" {
		t.Fatalf("fielddef literal: %v", tokens[0].Literal)
	}

	tokens = wantTypes(t, "::size", []TokenType{FIELDGET})
	if tokens[0].Literal.(string) != "size" {
		t.Fatalf("fieldget literal: %v", tokens[0].Literal)
	}

	wantTypes(t, ":[1, 2]", []TokenType{LISTOPEN, INTEGER, COMMA, INTEGER, RBRACKET})
	wantTypes(t, "{:a 1}", []TokenType{LBRACE, FIELDDEF, INTEGER, RBRACE})

	wantLexErr(t, "$1", "binding name expected after '$'")
	wantLexErr(t, ":1", "field name expected after ':'")
	wantLexErr(t, "::1", "field name expected after '::'")
}

func Test_Lexer_Whole_Expressions(t *testing.T) {
	wantTypes(t, `name.length() > 3 AND size BETWEEN 1 AND 0x10`,
		[]TokenType{PROPERTY, DOT, METHOD, LPAREN, RPAREN, GREATER, INTEGER,
			AND, PROPERTY, BETWEEN, INTEGER, AND, INTEGER})
	wantTypes(t, `IF extension == "go" THEN upper(name) ELSE EMPTY END`,
		[]TokenType{IF, PROPERTY, EQ, STRLIT, THEN, FNNAME, LPAREN, PROPERTY,
			RPAREN, ELSE, EMPTY, END})
	wantTypes(t, `EXECUTE("ls", "-l") INTO @out.txt`,
		[]TokenType{FNNAME, LPAREN, STRLIT, COMMA, STRLIT, RPAREN, INTO, PATHLIT})
}

func Test_Lexer_Error_Positions(t *testing.T) {
	le := wantLexErr(t, "1 + foo", "unknown keyword: foo")
	if le.Line != 1 || le.Col != 4 {
		t.Fatalf("want 1:4, got %d:%d", le.Line, le.Col)
	}

	le = wantLexErr(t, "size\n> !", "unexpected character: '!'")
	if le.Line != 2 {
		t.Fatalf("want line 2, got %d", le.Line)
	}

	wantLexErr(t, "?", "unexpected character: '?'")
}

func Test_Lexer_Token_Positions_And_EOF(t *testing.T) {
	tokens := toks(t, "1 +\n  name")
	if tokens[0].Line != 1 || tokens[0].Col != 0 {
		t.Fatalf("first token at %d:%d", tokens[0].Line, tokens[0].Col)
	}
	if tokens[1].Line != 1 || tokens[1].Col != 2 {
		t.Fatalf("plus token at %d:%d", tokens[1].Line, tokens[1].Col)
	}
	if tokens[2].Line != 2 || tokens[2].Col != 2 {
		t.Fatalf("name token at %d:%d", tokens[2].Line, tokens[2].Col)
	}
	last := tokens[len(tokens)-1]
	if last.Type != EOF {
		t.Fatalf("Scan should end with EOF, got %v", last.Type)
	}
}
