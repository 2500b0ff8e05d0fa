// SPDX-License-Identifier: MIT

// Package qasm implements text codecs for the OpenQASM 2 and OpenQASM 3
// subsets understood by the transpiler. Both dialects share one lexer and
// one recursive-descent parser; the version header selects the dialect.
package qasm

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseError reports a syntax error with source position.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("qasm: line %d, col %d: %s", e.Line, e.Col, e.Msg)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokSymbol // single-char punctuation, plus "->"
)

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) errf(line, col int, format string, args ...any) error {
	return &ParseError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) advance() byte {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peek2() byte {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// next returns the next token, skipping whitespace and comments.
func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peek2() == '/':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peek2() == '*':
			line, col := l.line, l.col
			l.advance()
			l.advance()
			closed := false
			for l.pos < len(l.src) {
				if l.peek() == '*' && l.peek2() == '/' {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				return token{}, l.errf(line, col, "unterminated block comment")
			}
		default:
			return l.scan()
		}
	}
	return token{kind: tokEOF, line: l.line, col: l.col}, nil
}

func (l *lexer) scan() (token, error) {
	line, col := l.line, l.col
	ch := l.peek()

	switch {
	case isIdentStart(rune(ch)):
		var sb strings.Builder
		for l.pos < len(l.src) && isIdentPart(rune(l.peek())) {
			sb.WriteByte(l.advance())
		}
		return token{kind: tokIdent, text: sb.String(), line: line, col: col}, nil

	case ch >= '0' && ch <= '9' || ch == '.':
		var sb strings.Builder
		for l.pos < len(l.src) {
			c := l.peek()
			if c >= '0' && c <= '9' || c == '.' || c == 'e' || c == 'E' {
				sb.WriteByte(l.advance())
				continue
			}
			// exponent sign
			if (c == '+' || c == '-') && sb.Len() > 0 {
				prev := sb.String()[sb.Len()-1]
				if prev == 'e' || prev == 'E' {
					sb.WriteByte(l.advance())
					continue
				}
			}
			break
		}
		return token{kind: tokNumber, text: sb.String(), line: line, col: col}, nil

	case ch == '"':
		l.advance()
		var sb strings.Builder
		for l.pos < len(l.src) && l.peek() != '"' {
			sb.WriteByte(l.advance())
		}
		if l.pos >= len(l.src) {
			return token{}, l.errf(line, col, "unterminated string")
		}
		l.advance()
		return token{kind: tokString, text: sb.String(), line: line, col: col}, nil

	case ch == '-' && l.peek2() == '>':
		l.advance()
		l.advance()
		return token{kind: tokSymbol, text: "->", line: line, col: col}, nil

	case strings.ContainsRune(";,()[]{}=+-*/", rune(ch)):
		l.advance()
		return token{kind: tokSymbol, text: string(ch), line: line, col: col}, nil
	}

	return token{}, l.errf(line, col, "unexpected character %q", string(ch))
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
