package sun

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// eof marks the end of input. A NUL byte in the source is an ordinary rune.
const eof rune = -1

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

// Tokenize splits source into tokens, ending with an EOF token. The first
// unrecognized character or unterminated string fails with a LexError.
func Tokenize(source string) ([]Token, error) {
	l := newLexer(source)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == tokenIllegal {
			return nil, lexError(source, tok)
		}
		tokens = append(tokens, tok)
		if tok.Type == tokenEOF {
			return tokens, nil
		}
	}
}

func lexError(source string, tok Token) *Error {
	return &Error{
		Kind:      LexError,
		Message:   tok.Literal,
		Pos:       tok.Pos,
		CodeFrame: formatCodeFrame(source, tok.Pos),
	}
}

// lastLine reports the line holding the most recently consumed rune.
func (l *lexer) lastLine() int {
	if l.ch == '\n' {
		return l.line - 1
	}
	return l.line
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = eof
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w

	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}

	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Pos: Position{Line: l.line, Column: l.column}}

	switch l.ch {
	case eof:
		tok.Type = tokenEOF
		tok.Literal = ""
	case '+':
		tok = l.makeToken(tokenPlus, "+")
		l.readRune()
	case '-':
		tok = l.makeToken(tokenMinus, "-")
		l.readRune()
	case '*':
		tok = l.makeToken(tokenAsterisk, "*")
		l.readRune()
	case '/':
		tok = l.makeToken(tokenSlash, "/")
		l.readRune()
	case '%':
		tok = l.makeToken(tokenPercent, "%")
		l.readRune()
	case '^':
		tok = l.makeToken(tokenCaret, "^")
		l.readRune()
	case '(':
		tok = l.makeToken(tokenLParen, "(")
		l.readRune()
	case ')':
		tok = l.makeToken(tokenRParen, ")")
		l.readRune()
	case '[':
		tok = l.makeToken(tokenLBracket, "[")
		l.readRune()
	case ']':
		tok = l.makeToken(tokenRBracket, "]")
		l.readRune()
	case ',':
		tok = l.makeToken(tokenComma, ",")
		l.readRune()
	case ':':
		tok = l.makeToken(tokenColon, ":")
		l.readRune()
	case '!':
		if l.peekRune() == '=' {
			first := l.ch
			l.readRune()
			tok = l.makeToken(tokenNotEQ, string(first)+string(l.ch))
			l.readRune()
		} else {
			tok = l.makeToken(tokenBang, "!")
			l.readRune()
		}
	case '=':
		if l.peekRune() == '=' {
			first := l.ch
			l.readRune()
			tok = l.makeToken(tokenEQ, string(first)+string(l.ch))
			l.readRune()
		} else {
			tok = l.makeToken(tokenAssign, "=")
			l.readRune()
		}
	case '>':
		if l.peekRune() == '=' {
			first := l.ch
			l.readRune()
			tok = l.makeToken(tokenGTE, string(first)+string(l.ch))
			l.readRune()
		} else {
			tok = l.makeToken(tokenGT, ">")
			l.readRune()
		}
	case '<':
		if l.peekRune() == '=' {
			first := l.ch
			l.readRune()
			tok = l.makeToken(tokenLTE, string(first)+string(l.ch))
			l.readRune()
		} else {
			tok = l.makeToken(tokenLT, "<")
			l.readRune()
		}
	case '"', '\'':
		literal, err := l.readString(l.ch)
		if err != "" {
			tok.Type = tokenIllegal
			tok.Literal = err
		} else {
			tok.Type = tokenString
			tok.Literal = literal
		}
	default:
		switch {
		case isIdentifierStart(l.ch):
			literal := l.readIdentifier()
			if literal == "Loop" && l.readHyphenatedEnd() {
				tok.Type = tokenLoopEnd
				tok.Literal = "Loop-End"
				return tok
			}
			tok.Type = lookupIdent(literal)
			tok.Literal = literal
			return tok
		case isDigit(l.ch):
			literal, isFloat := l.readNumber()
			tok.Literal = literal
			if isFloat {
				tok.Type = tokenFloat
			} else {
				tok.Type = tokenInt
			}
			return tok
		default:
			tok = l.makeToken(tokenIllegal, fmt.Sprintf("unexpected character %q", l.ch))
			l.readRune()
		}
	}

	return tok
}

func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func (l *lexer) makeToken(tt TokenType, literal string) Token {
	return Token{Type: tt, Literal: literal, Pos: Position{Line: l.line, Column: l.column}}
}

func (l *lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readRune()
	}
}

func (l *lexer) readIdentifier() string {
	start := l.currentOffset()
	for isIdentifierRune(l.peekRune()) {
		l.readRune()
	}
	literal := l.input[start:l.offset]
	l.readRune()
	return literal
}

// readHyphenatedEnd consumes "-End" or "-end" directly after "Loop".
func (l *lexer) readHyphenatedEnd() bool {
	if l.ch != '-' {
		return false
	}
	rest := l.input[l.offset:]
	var suffix string
	switch {
	case strings.HasPrefix(rest, "End"):
		suffix = "End"
	case strings.HasPrefix(rest, "end"):
		suffix = "end"
	default:
		return false
	}
	if len(rest) > len(suffix) && isIdentifierRune(rune(rest[len(suffix)])) {
		return false
	}
	for range len(suffix) + 1 {
		l.readRune()
	}
	return true
}

func (l *lexer) readNumber() (string, bool) {
	var sb strings.Builder
	hasDot := false

	// current rune is part of the number
	sb.WriteRune(l.ch)

	for {
		r := l.peekRune()
		switch {
		case r == '.' && !hasDot && isDigit(l.peekRuneAfterNext()):
			hasDot = true
			l.readRune()
			sb.WriteRune('.')
		case isDigit(r):
			l.readRune()
			sb.WriteRune(r)
		default:
			literal := sb.String()
			l.readRune()
			return literal, hasDot
		}
	}
}

func (l *lexer) peekRuneAfterNext() rune {
	idx := l.offset
	if idx >= len(l.input) {
		return eof
	}
	_, w := utf8.DecodeRuneInString(l.input[idx:])
	idx += w
	if idx >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[idx:])
	return r
}

func (l *lexer) readString(quote rune) (string, string) {
	var sb strings.Builder

	for {
		l.readRune()
		switch l.ch {
		case eof:
			return "", "unterminated string"
		case quote:
			l.readRune()
			return sb.String(), ""
		case '\\':
			next := l.peekRune()
			switch next {
			case '"', '\'', '\\':
				l.readRune()
				sb.WriteRune(next)
			case 'n':
				l.readRune()
				sb.WriteByte('\n')
			case 't':
				l.readRune()
				sb.WriteByte('\t')
			default:
				sb.WriteRune('\\')
			}
		default:
			sb.WriteRune(l.ch)
		}
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentifierRune(r rune) bool {
	return isIdentifierStart(r) || isDigit(r)
}
