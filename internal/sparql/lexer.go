package sparql

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIRI
	tokPName
	tokVar
	tokBlank
	tokString
	tokLang
	tokInteger
	tokDecimal
	tokDouble
	tokWord
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of query"
	case tokIRI:
		return "IRI"
	case tokPName:
		return "prefixed name"
	case tokVar:
		return "variable"
	case tokBlank:
		return "blank node"
	case tokString:
		return "string"
	case tokLang:
		return "language tag"
	case tokInteger, tokDecimal, tokDouble:
		return "number"
	case tokWord:
		return "keyword"
	default:
		return "punctuation"
	}
}

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return t.kind.String()
	}
	return fmt.Sprintf("%s %q", t.kind, t.text)
}

// Multi-character punctuation first so the longest match wins.
var puncts = []string{"^^", "!=", "<=", ">=", "&&", "||", "{", "}", "(", ")", ".", ";", ",", "[", "]", "*", "=", "<", ">", "!"}

type lexer struct {
	src  string
	pos  int
	line int
	col  int
	toks []token
}

// lex splits query text into tokens. The final token is always tokEOF.
func lex(src string) ([]token, error) {
	l := &lexer{src: src, line: 1, col: 1}
	for {
		l.skipSpace()
		if l.pos >= len(l.src) {
			l.toks = append(l.toks, token{kind: tokEOF, line: l.line, col: l.col})
			return l.toks, nil
		}
		if err := l.next(); err != nil {
			return nil, err
		}
	}
}

func (l *lexer) errorf(format string, args ...any) error {
	return &ParseError{Line: l.line, Column: l.col, Message: fmt.Sprintf(format, args...)}
}

func (l *lexer) peekByte(off int) byte {
	if l.pos+off < len(l.src) {
		return l.src[l.pos+off]
	}
	return 0
}

func (l *lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.src); i++ {
		if l.src[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance(1)
			}
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance(1)
		default:
			return
		}
	}
}

func (l *lexer) emit(kind tokenKind, text string, line, col int) {
	l.toks = append(l.toks, token{kind: kind, text: text, line: line, col: col})
}

func (l *lexer) next() error {
	line, col := l.line, l.col
	c := l.src[l.pos]

	switch {
	case c == '<':
		if iri, ok := l.scanIRIRef(); ok {
			l.emit(tokIRI, iri, line, col)
			return nil
		}
	case c == '?' || c == '$':
		name := l.scanWhile(1, isNameChar)
		if name == "" {
			return l.errorf("empty variable name")
		}
		l.advance(1 + len(name))
		l.emit(tokVar, name, line, col)
		return nil
	case c == '_' && l.peekByte(1) == ':':
		label := l.scanWhile(2, isNameChar)
		if label == "" {
			return l.errorf("empty blank node label")
		}
		l.advance(2 + len(label))
		l.emit(tokBlank, label, line, col)
		return nil
	case c == '"' || c == '\'':
		s, err := l.scanString()
		if err != nil {
			return err
		}
		l.emit(tokString, s, line, col)
		return nil
	case c == '@':
		tag := l.scanWhile(1, func(r rune) bool {
			return r == '-' || r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r))
		})
		if tag == "" {
			return l.errorf("empty language tag")
		}
		l.advance(1 + len(tag))
		l.emit(tokLang, tag, line, col)
		return nil
	case isDigit(c) || (c == '.' && isDigit(l.peekByte(1))) ||
		((c == '-' || c == '+') && (isDigit(l.peekByte(1)) || l.peekByte(1) == '.' && isDigit(l.peekByte(2)))):
		kind, text := l.scanNumber()
		l.emit(kind, text, line, col)
		return nil
	case c == ':' || isNameStart(rune(c)) || c >= utf8.RuneSelf:
		if word, kind, ok := l.scanName(); ok {
			l.emit(kind, word, line, col)
			return nil
		}
	}

	for _, p := range puncts {
		if strings.HasPrefix(l.src[l.pos:], p) {
			l.advance(len(p))
			l.emit(tokPunct, p, line, col)
			return nil
		}
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return l.errorf("unexpected character %q", r)
}

// scanIRIRef scans <...>. It fails without consuming input when the text
// is not an IRI reference, in which case '<' is an operator.
func (l *lexer) scanIRIRef() (string, bool) {
	for i := l.pos + 1; i < len(l.src); i++ {
		c := l.src[i]
		if c == '>' {
			iri := l.src[l.pos+1 : i]
			l.advance(i + 1 - l.pos)
			return iri, true
		}
		if c <= ' ' || strings.IndexByte("<\"{}|^`\\", c) >= 0 {
			return "", false
		}
	}
	return "", false
}

func (l *lexer) scanWhile(off int, ok func(rune) bool) string {
	start := l.pos + off
	i := start
	for i < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[i:])
		if !ok(r) {
			break
		}
		i += size
	}
	return l.src[start:i]
}

// scanName scans a keyword or a prefixed name. A trailing '.' is never
// part of a name.
func (l *lexer) scanName() (string, tokenKind, bool) {
	prefix := l.scanWhile(0, isPNChar)
	prefix = strings.TrimRight(prefix, ".")
	if l.pos+len(prefix) < len(l.src) && l.src[l.pos+len(prefix)] == ':' {
		local := l.scanWhile(len(prefix)+1, func(r rune) bool { return isPNChar(r) || r == ':' })
		local = strings.TrimRight(local, ".")
		text := prefix + ":" + local
		l.advance(len(text))
		return text, tokPName, true
	}
	if prefix == "" {
		return "", 0, false
	}
	l.advance(len(prefix))
	return prefix, tokWord, true
}

func (l *lexer) scanNumber() (tokenKind, string) {
	start := l.pos
	i := l.pos
	if l.src[i] == '-' || l.src[i] == '+' {
		i++
	}
	kind := tokInteger
	for i < len(l.src) && isDigit(l.src[i]) {
		i++
	}
	if i+1 < len(l.src) && l.src[i] == '.' && isDigit(l.src[i+1]) {
		kind = tokDecimal
		i++
		for i < len(l.src) && isDigit(l.src[i]) {
			i++
		}
	}
	if i < len(l.src) && (l.src[i] == 'e' || l.src[i] == 'E') {
		j := i + 1
		if j < len(l.src) && (l.src[j] == '+' || l.src[j] == '-') {
			j++
		}
		if j < len(l.src) && isDigit(l.src[j]) {
			kind = tokDouble
			i = j
			for i < len(l.src) && isDigit(l.src[i]) {
				i++
			}
		}
	}
	l.advance(i - start)
	return kind, l.src[start:i]
}

func (l *lexer) scanString() (string, error) {
	quote := l.src[l.pos]
	long := strings.HasPrefix(l.src[l.pos:], strings.Repeat(string(quote), 3))
	if long {
		l.advance(3)
	} else {
		l.advance(1)
	}

	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return "", l.errorf("unterminated string")
		}
		c := l.src[l.pos]
		switch {
		case long && strings.HasPrefix(l.src[l.pos:], strings.Repeat(string(quote), 3)):
			l.advance(3)
			return sb.String(), nil
		case !long && c == quote:
			l.advance(1)
			return sb.String(), nil
		case !long && (c == '\n' || c == '\r'):
			return "", l.errorf("newline in string")
		case c == '\\':
			r, n, err := l.unescape()
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
			l.advance(n)
		default:
			sb.WriteByte(c)
			l.advance(1)
		}
	}
}

func (l *lexer) unescape() (rune, int, error) {
	switch e := l.peekByte(1); e {
	case 't':
		return '\t', 2, nil
	case 'n':
		return '\n', 2, nil
	case 'r':
		return '\r', 2, nil
	case 'b':
		return '\b', 2, nil
	case 'f':
		return '\f', 2, nil
	case '"', '\'', '\\':
		return rune(e), 2, nil
	case 'u', 'U':
		width := 4
		if e == 'U' {
			width = 8
		}
		if l.pos+2+width > len(l.src) {
			return 0, 0, l.errorf("truncated \\%c escape", e)
		}
		n, err := strconv.ParseUint(l.src[l.pos+2:l.pos+2+width], 16, 32)
		if err != nil {
			return 0, 0, l.errorf("invalid \\%c escape", e)
		}
		return rune(n), 2 + width, nil
	default:
		return 0, 0, l.errorf("invalid escape \\%c", e)
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isPNChar(r rune) bool {
	return isNameChar(r) || r == '-' || r == '.'
}
