package sun

import (
	"errors"
	"fmt"
)

type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

type parser struct {
	source string
	tokens []Token
	next   int

	curToken  Token
	peekToken Token

	errors []error

	prefixFns map[TokenType]prefixParseFn
	infixFns  map[TokenType]infixParseFn

	functionDepth    int
	statementNesting int
	bracketDepth     int
}

// Parse tokenizes and parses source into a Program. Lexing stops at the
// first bad character; parse errors are collected and returned together.
func Parse(source string) (*Program, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	p := newParser(source, tokens)
	program := p.parseProgram()
	switch len(p.errors) {
	case 0:
		return program, nil
	case 1:
		return nil, p.errors[0]
	default:
		return nil, errors.Join(p.errors...)
	}
}

func newParser(source string, tokens []Token) *parser {
	p := &parser{source: source, tokens: tokens}

	p.prefixFns = make(map[TokenType]prefixParseFn)
	p.infixFns = make(map[TokenType]infixParseFn)

	p.registerPrefix(tokenIdent, p.parseIdentifier)
	p.registerPrefix(tokenInt, p.parseNumberLiteral)
	p.registerPrefix(tokenFloat, p.parseNumberLiteral)
	p.registerPrefix(tokenString, p.parseTextLiteral)
	p.registerPrefix(tokenTrue, p.parseBooleanLiteral)
	p.registerPrefix(tokenFalse, p.parseBooleanLiteral)
	p.registerPrefix(tokenLParen, p.parseGroupedExpression)
	p.registerPrefix(tokenBang, p.parsePrefixExpression)
	p.registerPrefix(tokenMinus, p.parsePrefixExpression)

	for tt := range binaryOps {
		p.infixFns[tt] = p.parseInfixExpression
	}
	p.infixFns[tokenCaret] = p.parsePowerExpression
	p.infixFns[tokenAssign] = p.parseAssignExpression

	p.nextToken()
	p.nextToken()

	return p
}

func (p *parser) registerPrefix(tt TokenType, fn prefixParseFn) {
	p.prefixFns[tt] = fn
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	if p.next < len(p.tokens) {
		p.peekToken = p.tokens[p.next]
		p.next++
		return
	}
	// Past the end every read yields the trailing EOF.
	p.peekToken = Token{Type: tokenEOF, Pos: p.curToken.Pos}
}

func (p *parser) parseProgram() *Program {
	program := &Program{}
	var (
		sawMain bool
		loose   []Statement
	)

	for p.curToken.Type != tokenEOF {
		if p.curToken.Type == tokenStart {
			if sawMain {
				p.addParseError(p.curToken.Pos, "only one Start block is allowed")
			}
			sawMain = true
			program.Statements = append(program.Statements, p.parseMainBlock()...)
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
			if _, ok := stmt.(*FunctionStmt); !ok {
				loose = append(loose, stmt)
			}
		}
		p.nextToken()
	}

	// With a Start block present only function definitions may sit beside it.
	if sawMain && len(loose) > 0 {
		p.addParseError(loose[0].Pos(), "statements outside the Start block are not allowed")
	}
	return program
}

// parseMainBlock returns the statements between Start and its End. They are
// inlined into the program in place of the block.
func (p *parser) parseMainBlock() []Statement {
	p.nextToken()
	body := p.parseBlock(tokenEnd)
	if p.curToken.Type != tokenEnd {
		p.errorExpected(p.curToken, "'End'")
	}
	return body
}

func (p *parser) expectPeek(tt TokenType) bool {
	if p.peekToken.Type == tt {
		p.nextToken()
		return true
	}
	p.errorExpected(p.peekToken, tokenLabel(tt))
	return false
}

func (p *parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func (p *parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func (p *parser) errorExpected(tok Token, expected string) {
	p.addParseError(tok.Pos, fmt.Sprintf("expected %s, got %s", expected, tokenLabel(tok.Type)))
}

func (p *parser) errorUnexpected(tok Token) {
	p.addParseError(tok.Pos, fmt.Sprintf("unexpected token %s", tokenLabel(tok.Type)))
}

func (p *parser) addParseError(pos Position, msg string) {
	p.errors = append(p.errors, &Error{
		Kind:      ParseError,
		Message:   msg,
		Pos:       pos,
		CodeFrame: formatCodeFrame(p.source, pos),
	})
}

func tokenLabel(tt TokenType) string {
	switch tt {
	case tokenIllegal:
		return "invalid token"
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return "identifier"
	case tokenInt:
		return "integer"
	case tokenFloat:
		return "float"
	case tokenString:
		return "string"
	case tokenLoopEnd:
		return "'EndLoop'"
	case tokenWhileEnd:
		return "'EndWhile'"
	case tokenEndIf:
		return "'EndIf'"
	}
	if word, ok := keywordSpelling(tt); ok {
		return "'" + word + "'"
	}
	return fmt.Sprintf("%q", string(tt))
}

func keywordSpelling(tt TokenType) (string, bool) {
	for word, kw := range keywords {
		if kw == tt {
			return word, true
		}
	}
	return "", false
}
