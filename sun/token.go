package sun

import "slices"

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenIllegal TokenType = "ILLEGAL"
	tokenEOF     TokenType = "EOF"

	tokenIdent  TokenType = "IDENT"
	tokenInt    TokenType = "INT"
	tokenFloat  TokenType = "FLOAT"
	tokenString TokenType = "STRING"

	tokenAssign   TokenType = "="
	tokenPlus     TokenType = "+"
	tokenMinus    TokenType = "-"
	tokenBang     TokenType = "!"
	tokenAsterisk TokenType = "*"
	tokenSlash    TokenType = "/"
	tokenPercent  TokenType = "%"
	tokenCaret    TokenType = "^"
	tokenLT       TokenType = "<"
	tokenGT       TokenType = ">"
	tokenLTE      TokenType = "<="
	tokenGTE      TokenType = ">="
	tokenEQ       TokenType = "=="
	tokenNotEQ    TokenType = "!="

	tokenComma    TokenType = ","
	tokenColon    TokenType = ":"
	tokenLParen   TokenType = "("
	tokenRParen   TokenType = ")"
	tokenLBracket TokenType = "["
	tokenRBracket TokenType = "]"

	tokenPrint    TokenType = "PRINT"
	tokenEnter    TokenType = "ENTER"
	tokenIf       TokenType = "IF"
	tokenThen     TokenType = "THEN"
	tokenElse     TokenType = "ELSE"
	tokenEndIf    TokenType = "ENDIF"
	tokenLoop     TokenType = "LOOP"
	tokenLoopEnd  TokenType = "LOOPEND"
	tokenWhile    TokenType = "WHILE"
	tokenWhileEnd TokenType = "WHILEEND"
	tokenFunction TokenType = "FUNCTION"
	tokenEnd      TokenType = "END"
	tokenReturn   TokenType = "RETURN"
	tokenStart    TokenType = "START"
	tokenTrue     TokenType = "TRUE"
	tokenFalse    TokenType = "FALSE"
	tokenAnd      TokenType = "AND"
	tokenOr       TokenType = "OR"
)

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position identifies a line and column in the source text.
type Position struct {
	Line   int
	Column int
}

var keywords = map[string]TokenType{
	"Print":    tokenPrint,
	"Enter":    tokenEnter,
	"If":       tokenIf,
	"Then":     tokenThen,
	"Else":     tokenElse,
	"EndIf":    tokenEndIf,
	"Loop":     tokenLoop,
	"EndLoop":  tokenLoopEnd,
	"LoopEnd":  tokenLoopEnd,
	"While":    tokenWhile,
	"EndWhile": tokenWhileEnd,
	"WhileEnd": tokenWhileEnd,
	"Function": tokenFunction,
	"End":      tokenEnd,
	"Return":   tokenReturn,
	"Start":    tokenStart,
	"True":     tokenTrue,
	"False":    tokenFalse,
	"AND":      tokenAnd,
	"OR":       tokenOr,
}

func lookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return tokenIdent
}

// Keywords returns the reserved words of the language in source spelling.
func Keywords() []string {
	out := make([]string, 0, len(keywords)+2)
	for word := range keywords {
		out = append(out, word)
	}
	out = append(out, "Loop-End", "Loop-end")
	slices.Sort(out)
	return out
}
