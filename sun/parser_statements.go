package sun

import "fmt"

func (p *parser) parseStatement() Statement {
	switch p.curToken.Type {
	case tokenPrint:
		return p.parseKeywordStatement(KeywordPrint)
	case tokenEnter:
		return p.parseKeywordStatement(KeywordEnter)
	case tokenIf:
		return p.parseIfStatement()
	case tokenLoop:
		return p.parseLoopStatement()
	case tokenWhile:
		return p.parseWhileStatement()
	case tokenFunction:
		return p.parseFunctionStatement()
	case tokenReturn:
		return p.parseReturnStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *parser) parseBlock(stop ...TokenType) []Statement {
	stmts := []Statement{}
	stopSet := make(map[TokenType]struct{}, len(stop))
	for _, tt := range stop {
		stopSet[tt] = struct{}{}
	}
	p.statementNesting++
	defer func() {
		p.statementNesting--
	}()

	for {
		if _, ok := stopSet[p.curToken.Type]; ok || p.curToken.Type == tokenEOF {
			return stmts
		}
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
	}
}

func (p *parser) parseExpressionStatement() Statement {
	pos := p.curToken.Pos
	expr := p.parseExpression(lowestPrec)
	if expr == nil {
		return nil
	}
	return &ExprStmt{Expr: expr, position: pos}
}

func (p *parser) parseKeywordStatement(keyword Keyword) Statement {
	pos := p.curToken.Pos
	p.nextToken()
	operand := p.parseExpression(lowestPrec)
	if operand == nil {
		return nil
	}
	return &KeywordStmt{Keyword: keyword, Operand: operand, position: pos}
}

func (p *parser) parseIfStatement() Statement {
	pos := p.curToken.Pos
	p.nextToken()
	condition := p.parseExpression(lowestPrec)
	if condition == nil {
		return nil
	}
	if !p.expectPeek(tokenThen) {
		return nil
	}

	p.nextToken()
	consequent := p.parseBlock(tokenElse, tokenEndIf)

	var alternate []Statement
	if p.curToken.Type == tokenElse {
		p.nextToken()
		alternate = p.parseBlock(tokenEndIf)
	}

	if p.curToken.Type != tokenEndIf {
		p.errorExpected(p.curToken, "'EndIf'")
		return nil
	}

	return &IfStmt{Condition: condition, Then: consequent, Else: alternate, position: pos}
}

// parseLoopStatement parses Loop:v=start to stop ... EndLoop:v. The
// terminator must repeat the loop variable.
func (p *parser) parseLoopStatement() Statement {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenColon) || !p.expectPeek(tokenIdent) {
		return nil
	}
	name := p.curToken.Literal
	if !p.expectPeek(tokenAssign) {
		return nil
	}

	p.nextToken()
	start := p.parseExpression(precAssign)
	if start == nil {
		return nil
	}
	if p.peekToken.Type != tokenIdent || p.peekToken.Literal != "to" {
		p.errorExpected(p.peekToken, "'to'")
		return nil
	}
	p.nextToken()

	p.nextToken()
	stop := p.parseExpression(precAssign)
	if stop == nil {
		return nil
	}

	p.nextToken()
	body := p.parseBlock(tokenLoopEnd)
	if p.curToken.Type != tokenLoopEnd {
		p.errorExpected(p.curToken, "'EndLoop'")
		return nil
	}
	if !p.expectPeek(tokenColon) || !p.expectPeek(tokenIdent) {
		return nil
	}
	if p.curToken.Literal != name {
		p.addParseError(p.curToken.Pos, fmt.Sprintf("loop over %s closed with %s", name, p.curToken.Literal))
		return nil
	}

	return &LoopStmt{Var: name, Start: start, Stop: stop, Body: body, position: pos}
}

func (p *parser) parseWhileStatement() Statement {
	pos := p.curToken.Pos
	p.nextToken()
	condition := p.parseExpression(lowestPrec)
	if condition == nil {
		return nil
	}

	p.nextToken()
	body := p.parseBlock(tokenWhileEnd)
	if p.curToken.Type != tokenWhileEnd {
		p.errorExpected(p.curToken, "'EndWhile'")
		return nil
	}

	return &WhileStmt{Condition: condition, Body: body, position: pos}
}

func (p *parser) parseFunctionStatement() Statement {
	pos := p.curToken.Pos
	if p.statementNesting > 0 {
		p.addParseError(pos, "functions can only be defined at the top level")
	}
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	name := p.curToken.Literal

	if !p.expectPeek(tokenLParen) {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}

	p.functionDepth++
	p.nextToken()
	body := p.parseBlock(tokenEnd)
	p.functionDepth--

	if p.curToken.Type != tokenEnd {
		p.errorExpected(p.curToken, "'End'")
		return nil
	}

	return &FunctionStmt{Name: name, Params: params, Body: body, position: pos}
}

// parseParams reads a parenthesised parameter list. A leading "*" marks a
// reference parameter.
func (p *parser) parseParams() ([]Param, bool) {
	params := []Param{}
	if p.peekToken.Type == tokenRParen {
		p.nextToken()
		return params, true
	}

	for {
		p.nextToken()
		param := Param{}
		if p.curToken.Type == tokenAsterisk {
			param.ByRef = true
			p.nextToken()
		}
		if p.curToken.Type != tokenIdent {
			p.errorExpected(p.curToken, "parameter name")
			return nil, false
		}
		param.Name = p.curToken.Literal
		for _, existing := range params {
			if existing.Name == param.Name {
				p.addParseError(p.curToken.Pos, "duplicate parameter "+param.Name)
				return nil, false
			}
		}
		params = append(params, param)

		if p.peekToken.Type != tokenComma {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(tokenRParen) {
		return nil, false
	}
	return params, true
}

func (p *parser) parseReturnStatement() Statement {
	pos := p.curToken.Pos
	if p.functionDepth == 0 {
		p.addParseError(pos, "Return is only allowed inside a function")
	}
	p.nextToken()
	value := p.parseExpression(lowestPrec)
	if value == nil {
		return nil
	}
	return &ReturnStmt{Value: value, position: pos}
}
