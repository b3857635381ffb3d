package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/fluid-lang/fluid/internal/diag"
	"github.com/fluid-lang/fluid/internal/token"
)

// Lexer holds the internal state while scanning a Fluid file.
type Lexer struct {
	// file is the name reported in diagnostics.
	file string
	// code is the original source, kept for diagnostic source lines.
	code string

	src   []rune
	index int
	line  int

	diags diag.List
}

// New creates a lexer for the given source. file is only used for
// diagnostics, so "<stdin>" and friends are fine.
func New(code, file string) *Lexer {
	return &Lexer{
		file: file,
		code: code,
		src:  []rune(code),
		line: 1,
	}
}

// Run scans the whole input and returns the token stream, terminated by an
// EOF token. Scanning continues past bad characters so every problem in the
// file is reported; the returned diagnostics are non-empty on failure.
func (l *Lexer) Run() ([]token.Token, diag.List) {
	l.skipShebang()

	var tokens []token.Token
	for {
		tok, ok := l.next()
		if !ok {
			// Panic mode: skip the offending character and resync.
			l.advance()
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens, l.diags
}

func (l *Lexer) eof() bool { return l.index >= len(l.src) }

func (l *Lexer) current() rune { return l.src[l.index] }

func (l *Lexer) peek() (rune, bool) {
	if l.index+1 >= len(l.src) {
		return 0, false
	}
	return l.src[l.index+1], true
}

func (l *Lexer) advance() {
	if l.eof() {
		return
	}
	if l.current() == '\n' {
		l.line++
	}
	l.index++
}

// next scans one token. The boolean is false when the current character does
// not start any token; a diagnostic has been recorded in that case.
func (l *Lexer) next() (token.Token, bool) {
	l.skipTrivia()

	if l.eof() {
		return l.newToken(token.EOF, l.index), true
	}

	if tok, ok := l.scanWord(); ok {
		return tok, true
	}
	if tok, ok := l.scanNumber(); ok {
		return tok, true
	}

	start := l.index
	switch c := l.current(); c {
	case '(':
		return l.single(token.OpenParen), true
	case ')':
		return l.single(token.CloseParen), true
	case '{':
		return l.single(token.OpenBrace), true
	case '}':
		return l.single(token.CloseBrace), true
	case '[':
		return l.single(token.OpenBrack), true
	case ']':
		return l.single(token.CloseBrack), true
	case ';':
		return l.single(token.Semi), true
	case ',':
		return l.single(token.Comma), true
	case '+':
		return l.single(token.Plus), true
	case '/':
		return l.single(token.Slash), true
	case '*':
		return l.single(token.Star), true
	case ':':
		return l.single(token.Colon), true
	case '>':
		return l.single(token.Greater), true
	case '<':
		return l.single(token.Lesser), true
	case '?':
		return l.single(token.Question), true
	case '#':
		return l.single(token.Hash), true
	case '-':
		return l.pair('>', token.TArrow, token.Minus), true
	case '!':
		return l.pair('=', token.BangEq, token.Bang), true
	case '&':
		return l.pair('&', token.AmpAmp, token.Amp), true
	case '|':
		return l.pair('|', token.PipePipe, token.Pipe), true
	case '=':
		if n, ok := l.peek(); ok {
			switch n {
			case '=':
				l.advance()
				l.advance()
				tok := l.newToken(token.EqEq, start)
				return tok, true
			case '>':
				l.advance()
				l.advance()
				tok := l.newToken(token.EArrow, start)
				return tok, true
			}
		}
		return l.single(token.Eq), true
	case '"':
		return l.scanString()
	case '\'':
		return l.scanChar()
	default:
		l.errorf("Unexpected character `%c`.", c)
		return token.Token{}, false
	}
}

// single consumes the current character as a one-character token.
func (l *Lexer) single(kind token.Kind) token.Token {
	tok := l.newToken(kind, l.index)
	l.advance()
	return tok
}

// pair consumes a two-character token when the next character matches,
// otherwise the one-character fallback.
func (l *Lexer) pair(next rune, twoKind, oneKind token.Kind) token.Token {
	start := l.index
	if n, ok := l.peek(); ok && n == next {
		l.advance()
		l.advance()
		return l.newToken(twoKind, start)
	}
	return l.single(oneKind)
}

// scanWord scans an identifier or keyword. Identifiers are runs of letters
// and underscores.
func (l *Lexer) scanWord() (token.Token, bool) {
	start := l.index
	var sb strings.Builder
	for !l.eof() && (isLetter(l.current()) || l.current() == '_') {
		sb.WriteRune(l.current())
		l.advance()
	}
	id := sb.String()
	if id == "" {
		return token.Token{}, false
	}

	tok := l.newToken(token.Identifier, start)
	if w, ok := token.Keywords[id]; ok {
		tok.Kind = token.Keyword
		tok.Word = w
	} else {
		tok.Text = id
	}
	return tok, true
}

// scanNumber scans an integer or floating point literal. A single `.`
// inside the digit run switches to a float.
func (l *Lexer) scanNumber() (token.Token, bool) {
	start := l.index
	var sb strings.Builder
	isFloat := false

	for !l.eof() && isDigit(l.current()) {
		sb.WriteRune(l.current())
		l.advance()

		if !l.eof() && l.current() == '.' && !isFloat {
			if n, ok := l.peek(); ok && isDigit(n) {
				isFloat = true
				sb.WriteRune('.')
				l.advance()
			}
		}
	}

	text := sb.String()
	if text == "" {
		return token.Token{}, false
	}

	if isFloat {
		tok := l.newToken(token.Float, start)
		tok.Fl, _ = strconv.ParseFloat(text, 64)
		return tok, true
	}
	tok := l.newToken(token.Number, start)
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		l.errorf("Integer literal `%s` is too large.", text)
	}
	tok.Int = v
	return tok, true
}

// scanString scans a double-quoted string literal, decoding escapes.
func (l *Lexer) scanString() (token.Token, bool) {
	start := l.index
	startLine := l.line
	l.advance() // opening quote

	var sb strings.Builder
	for {
		if l.eof() {
			l.diags = append(l.diags, l.diagAt(startLine, "Unterminated string literal."))
			return token.Token{}, false
		}
		c := l.current()
		if c == '"' {
			l.advance()
			break
		}
		if c == '\\' {
			l.advance()
			r, ok := l.scanEscape('"')
			if !ok {
				continue
			}
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune(c)
		l.advance()
	}

	tok := l.newToken(token.String, start)
	tok.Text = sb.String()
	return tok, true
}

// scanChar scans a single-quoted character literal.
func (l *Lexer) scanChar() (token.Token, bool) {
	start := l.index
	l.advance() // opening quote

	if l.eof() {
		l.errorf("Unterminated character literal.")
		return token.Token{}, false
	}

	var ch rune
	if l.current() == '\\' {
		l.advance()
		r, ok := l.scanEscape('\'')
		if !ok {
			return token.Token{}, false
		}
		ch = r
	} else {
		ch = l.current()
		l.advance()
	}

	if l.eof() || l.current() != '\'' {
		l.errorf("Expected `'` to close the character literal.")
		return token.Token{}, false
	}
	l.advance() // closing quote

	tok := l.newToken(token.Char, start)
	tok.Ch = ch
	return tok, true
}

// scanEscape decodes one escape sequence after the backslash has been
// consumed. quote is the enclosing quote character, allowed as `\"`/`\'`.
func (l *Lexer) scanEscape(quote rune) (rune, bool) {
	if l.eof() {
		l.errorf("Unterminated escape sequence.")
		return 0, false
	}

	c := l.current()
	l.advance()

	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case 'b':
		return '\b', true
	case '\\':
		return '\\', true
	case quote:
		return quote, true
	case 'x':
		return l.scanHexEscape(2)
	case 'u':
		if l.eof() || l.current() != '{' {
			l.errorf("Expected `{` after `\\u`.")
			return 0, false
		}
		l.advance()
		var v rune
		n := 0
		for !l.eof() && l.current() != '}' {
			d, ok := hexDigit(l.current())
			if !ok {
				l.errorf("Invalid hexadecimal digit `%c` in `\\u` escape.", l.current())
				return 0, false
			}
			v = v<<4 | d
			n++
			l.advance()
		}
		if l.eof() || n == 0 || n > 6 {
			l.errorf("Invalid `\\u` escape sequence.")
			return 0, false
		}
		l.advance() // closing brace
		return v, true
	default:
		l.errorf("Unknown escape sequence `\\%c`.", c)
		return 0, false
	}
}

func (l *Lexer) scanHexEscape(digits int) (rune, bool) {
	var v rune
	for i := 0; i < digits; i++ {
		if l.eof() {
			l.errorf("Unterminated `\\x` escape sequence.")
			return 0, false
		}
		d, ok := hexDigit(l.current())
		if !ok {
			l.errorf("Invalid hexadecimal digit `%c` in `\\x` escape.", l.current())
			return 0, false
		}
		v = v<<4 | d
		l.advance()
	}
	return v, true
}

// skipTrivia skips whitespace, line comments, and nested block comments.
func (l *Lexer) skipTrivia() {
	for !l.eof() {
		switch l.current() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '/':
			n, ok := l.peek()
			if !ok {
				return
			}
			switch n {
			case '/':
				for !l.eof() && l.current() != '\n' {
					l.advance()
				}
			case '*':
				l.skipBlockComment()
			default:
				return
			}
		default:
			return
		}
	}
}

// skipBlockComment consumes a `/* */` comment, honoring nesting.
func (l *Lexer) skipBlockComment() {
	startLine := l.line
	l.advance() // /
	l.advance() // *

	depth := 1
	for depth > 0 {
		if l.eof() {
			l.diags = append(l.diags, l.diagAt(startLine, "Unterminated block comment."))
			return
		}
		c := l.current()
		n, _ := l.peek()
		switch {
		case c == '/' && n == '*':
			depth++
			l.advance()
			l.advance()
		case c == '*' && n == '/':
			depth--
			l.advance()
			l.advance()
		default:
			l.advance()
		}
	}
}

// skipShebang skips a `#!` line, but only at the very start of the file.
func (l *Lexer) skipShebang() {
	if len(l.src) >= 2 && l.src[0] == '#' && l.src[1] == '!' {
		for !l.eof() && l.current() != '\n' {
			l.advance()
		}
	}
}

func (l *Lexer) newToken(kind token.Kind, start int) token.Token {
	return token.Token{
		Kind: kind,
		Pos:  token.Position{Start: start, End: l.index, Line: l.line},
	}
}

func (l *Lexer) errorf(format string, args ...any) {
	l.diags = append(l.diags, l.diagAt(l.line, fmt.Sprintf(format, args...)))
}

func (l *Lexer) diagAt(line int, message string) *diag.Diagnostic {
	return &diag.Diagnostic{
		Stage:    diag.StageLex,
		Severity: diag.Error,
		Message:  message,
		File:     l.file,
		Line:     line,
		Source:   diag.SourceLine(l.code, line),
	}
}

func isLetter(c rune) bool { return unicode.IsLetter(c) }

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func hexDigit(c rune) (rune, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
