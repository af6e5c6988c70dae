// Package lexer tokenizes capture expressions into a lazily produced
// token stream with byte positions, the way parser/tokenizer.go
// tokenizes graft expressions.
package lexer

import (
	"fmt"
	"unicode"

	nmpolicyerrors "github.com/nmstate/nmpolicy/pkg/nmpolicy/errors"
)

// TokenKind identifies the shape of a Token.
type TokenKind int

const (
	Identity TokenKind = iota
	Number
	Str
	Dot
	Pipe
	Replace  // :=
	EqFilter // ==
	Merge    // + — tokenized but never accepted by the parser
	True     // kept for forward compatibility; tokenizeIdentity never produces it
	False    // kept for forward compatibility; tokenizeIdentity never produces it
)

// Token is one lexical unit together with the byte offset it started at.
type Token struct {
	Pos  int
	Kind TokenKind
	Text string // Identity / Str literal text
	Num  uint32 // Number literal value
}

func (t Token) String() string {
	switch t.Kind {
	case Dot:
		return "."
	case Pipe:
		return "|"
	case Replace:
		return ":="
	case EqFilter:
		return "=="
	case Merge:
		return "+"
	case True:
		return "true"
	case False:
		return "false"
	case Number:
		return fmt.Sprintf("%d", t.Num)
	default:
		return t.Text
	}
}

var terminators = map[rune]bool{
	' ': true, '.': true, ':': true, '+': true, '|': true, '=': true,
}

// lexError pairs a message with the rune index it points at, so the
// caller can translate it to a byte offset once it knows the full
// expression.
type lexError struct {
	runeIdx int
	err     *nmpolicyerrors.PolicyError
}

// Lexer is a pull iterator over an expression's tokens. Once Next
// returns an error it keeps returning (Token{}, nil, false) forever —
// the sticky-error behaviour lets a caller drain the stream without
// special-casing the error case twice.
type Lexer struct {
	input     []rune
	pos       int // rune index into input
	hasError  bool
	lastError *lexError
}

// New returns a Lexer over expression.
func New(expression string) *Lexer {
	return &Lexer{input: []rune(expression)}
}

// byteOffset converts a rune index back into a byte offset into the
// original expression, since positions are documented as byte offsets.
func byteOffset(input []rune, runeIdx int) int {
	n := 0
	for i := 0; i < runeIdx && i < len(input); i++ {
		n += len(string(input[i]))
	}
	return n
}

func (l *Lexer) peek() (rune, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	return l.input[l.pos], true
}

func (l *Lexer) advance() (rune, bool) {
	ch, ok := l.peek()
	if ok {
		l.pos++
	}
	return ch, ok
}

// Next returns the next token, an error (already positioned at the
// failing byte), or ok=false at end of input.
func (l *Lexer) Next() (Token, *nmpolicyerrors.PolicyError, bool) {
	if l.hasError {
		return Token{}, nil, false
	}
	for {
		ch, ok := l.peek()
		if !ok {
			return Token{}, nil, false
		}
		if ch != ' ' {
			break
		}
		l.pos++
	}

	startRune := l.pos
	ch, _ := l.advance()

	var tok Token
	var lerr *lexError

	switch {
	case ch == '|':
		tok = Token{Pos: byteOffset(l.input, startRune), Kind: Pipe}
	case ch == '.':
		tok = Token{Pos: byteOffset(l.input, startRune), Kind: Dot}
	case ch == '+':
		tok = Token{Pos: byteOffset(l.input, startRune), Kind: Merge}
	case ch == '=':
		tok, lerr = l.tokenizeTwoChar(startRune, '=', EqFilter, "EQFILTER")
	case ch == ':':
		tok, lerr = l.tokenizeTwoChar(startRune, '=', Replace, "REPLACE")
	case ch == '"' || ch == '\'':
		tok, lerr = l.tokenizeString(startRune, ch)
	case unicode.IsDigit(ch):
		tok, lerr = l.tokenizeNumber(startRune, ch)
	case unicode.IsLetter(ch):
		tok, lerr = l.tokenizeIdentity(startRune, ch)
	default:
		lerr = &lexError{runeIdx: startRune, err: nmpolicyerrors.Validationf("illegal char %c", ch)}
	}

	if lerr != nil {
		l.hasError = true
		l.lastError = lerr
		return Token{}, lerr.err.WithPos(byteOffset(l.input, lerr.runeIdx)), true
	}
	return tok, nil, true
}

func (l *Lexer) tokenizeTwoChar(startRune int, want rune, kind TokenKind, name string) (Token, *lexError) {
	ch, ok := l.advance()
	if !ok {
		return Token{}, &lexError{runeIdx: startRune, err: nmpolicyerrors.Validationf("invalid %s operation format (EOF)", name)}
	}
	if ch != want {
		return Token{}, &lexError{runeIdx: l.pos - 1, err: nmpolicyerrors.Validationf("invalid %s operation format (%c is not equal char)", name, ch)}
	}
	return Token{Pos: byteOffset(l.input, startRune), Kind: kind}, nil
}

func (l *Lexer) tokenizeString(startRune int, delim rune) (Token, *lexError) {
	var runes []rune
	closed := false
	lastRune := startRune
	for {
		ch, ok := l.advance()
		if !ok {
			break
		}
		lastRune = l.pos - 1
		if ch == delim {
			closed = true
			break
		}
		runes = append(runes, ch)
	}
	if !closed {
		return Token{}, &lexError{runeIdx: lastRune, err: nmpolicyerrors.Validationf("invalid string format (missing %c terminator)", delim)}
	}
	return Token{Pos: byteOffset(l.input, startRune), Kind: Str, Text: string(runes)}, nil
}

func (l *Lexer) tokenizeNumber(startRune int, first rune) (Token, *lexError) {
	runes := []rune{first}
	for {
		ch, ok := l.peek()
		if !ok || !unicode.IsDigit(ch) {
			break
		}
		runes = append(runes, ch)
		l.pos++
	}
	if ch, ok := l.peek(); ok && !terminators[ch] {
		return Token{}, &lexError{runeIdx: l.pos, err: nmpolicyerrors.Validationf("invalid number format (%c is not a digit)", ch)}
	}
	var n uint32
	for _, r := range runes {
		n = n*10 + uint32(r-'0')
	}
	return Token{Pos: byteOffset(l.input, startRune), Kind: Number, Num: n}, nil
}

func (l *Lexer) tokenizeIdentity(startRune int, first rune) (Token, *lexError) {
	runes := []rune{first}
	for {
		ch, ok := l.peek()
		if !ok || !(unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '-') {
			break
		}
		runes = append(runes, ch)
		l.pos++
	}
	if ch, ok := l.peek(); ok && !terminators[ch] {
		return Token{}, &lexError{runeIdx: l.pos, err: nmpolicyerrors.Validationf("invalid identity format (%c is not a digit, letter or -)", ch)}
	}
	text := string(runes)
	return Token{Pos: byteOffset(l.input, startRune), Kind: Identity, Text: text}, nil
}

// Tokenize drains the lexer into a slice, stopping at the first error.
// A returned error is already decorated with the full expression.
func Tokenize(expression string) ([]Token, error) {
	l := New(expression)
	var toks []Token
	for {
		tok, err, ok := l.Next()
		if err != nil {
			return toks, err.Decorate(expression, err.Pos())
		}
		if !ok {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}
