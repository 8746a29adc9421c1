package sun

import "strconv"

func (p *parser) parseExpression(precedence int) Expression {
	prefix := p.prefixFns[p.curToken.Type]
	if prefix == nil {
		p.errorUnexpected(p.curToken)
		return nil
	}

	left := prefix()
	if left == nil {
		return nil
	}

	for p.peekToken.Type != tokenEOF && precedence < p.peekPrecedence() {
		if p.startsNegation() {
			return left
		}
		infix := p.infixFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

// startsNegation reports a "-" that opens a new line outside any brackets.
// It begins the next statement rather than continuing the current expression.
func (p *parser) startsNegation() bool {
	return p.bracketDepth == 0 && p.peekToken.Type == tokenMinus && p.peekToken.Pos.Line > p.curToken.Pos.Line
}

// parseIdentifier handles the three identifier-led atoms: a call when the
// name is followed by "(", otherwise a variable with optional indices.
func (p *parser) parseIdentifier() Expression {
	tok := p.curToken
	if p.peekToken.Type == tokenLParen {
		p.nextToken()
		args, ok := p.parseCallArguments()
		if !ok {
			return nil
		}
		return &CallExpr{Name: tok.Literal, Args: args, position: tok.Pos}
	}

	variable := &Variable{Name: tok.Literal, position: tok.Pos}
	for p.peekToken.Type == tokenLBracket {
		p.nextToken()
		if p.peekToken.Type == tokenRBracket {
			p.addParseError(p.peekToken.Pos, "empty index on "+tok.Literal)
			p.nextToken()
			return nil
		}
		p.nextToken()
		p.bracketDepth++
		index := p.parseExpression(lowestPrec)
		p.bracketDepth--
		if index == nil {
			return nil
		}
		if !p.expectPeek(tokenRBracket) {
			return nil
		}
		variable.Indices = append(variable.Indices, index)
	}
	return variable
}

func (p *parser) parseCallArguments() ([]Expression, bool) {
	p.bracketDepth++
	defer func() { p.bracketDepth-- }()

	args := []Expression{}
	if p.peekToken.Type == tokenRParen {
		p.nextToken()
		return args, true
	}

	p.nextToken()
	arg := p.parseExpression(lowestPrec)
	if arg == nil {
		return nil, false
	}
	args = append(args, arg)
	for p.peekToken.Type == tokenComma {
		p.nextToken()
		p.nextToken()
		arg := p.parseExpression(lowestPrec)
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
	}

	if !p.expectPeek(tokenRParen) {
		return nil, false
	}
	return args, true
}

func (p *parser) parseNumberLiteral() Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addParseError(p.curToken.Pos, "invalid number literal "+p.curToken.Literal)
		return nil
	}
	return &NumberLiteral{Value: value, position: p.curToken.Pos}
}

func (p *parser) parseTextLiteral() Expression {
	return &TextLiteral{Value: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseBooleanLiteral() Expression {
	return &BooleanLiteral{Value: p.curToken.Type == tokenTrue, position: p.curToken.Pos}
}

func (p *parser) parseGroupedExpression() Expression {
	p.nextToken()
	p.bracketDepth++
	expr := p.parseExpression(lowestPrec)
	p.bracketDepth--
	if expr == nil {
		return nil
	}
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	return expr
}

func (p *parser) parsePrefixExpression() Expression {
	pos := p.curToken.Pos
	op := prefixOps[p.curToken.Type]
	p.nextToken()
	operand := p.parseExpression(precPrefix)
	if operand == nil {
		return nil
	}
	return &UnaryExpr{Op: op, Operand: operand, position: pos}
}

func (p *parser) parseInfixExpression(left Expression) Expression {
	pos := p.curToken.Pos
	op := binaryOps[p.curToken.Type]
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &BinaryExpr{Op: op, Left: left, Right: right, position: pos}
}

// parsePowerExpression binds right to left: 2^3^2 is 2^(3^2).
func (p *parser) parsePowerExpression(left Expression) Expression {
	pos := p.curToken.Pos
	p.nextToken()
	right := p.parseExpression(precPower - 1)
	if right == nil {
		return nil
	}
	return &BinaryExpr{Op: OpExponentiation, Left: left, Right: right, position: pos}
}

func (p *parser) parseAssignExpression(left Expression) Expression {
	pos := p.curToken.Pos
	target, ok := left.(*Variable)
	if !ok {
		p.addParseError(pos, "left side of assignment must be a variable")
		return nil
	}
	p.nextToken()
	value := p.parseExpression(precAssign - 1)
	if value == nil {
		return nil
	}
	return &AssignExpr{Target: target, Value: value, position: target.Pos()}
}
