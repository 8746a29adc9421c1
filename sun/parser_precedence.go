package sun

const (
	lowestPrec = iota
	precAssign
	precOr
	precAnd
	precCompare
	precSum
	precProduct
	precPower
	precPrefix
)

var precedences = map[TokenType]int{
	tokenAssign:   precAssign,
	tokenOr:       precOr,
	tokenAnd:      precAnd,
	tokenEQ:       precCompare,
	tokenNotEQ:    precCompare,
	tokenLT:       precCompare,
	tokenLTE:      precCompare,
	tokenGT:       precCompare,
	tokenGTE:      precCompare,
	tokenPlus:     precSum,
	tokenMinus:    precSum,
	tokenAsterisk: precProduct,
	tokenSlash:    precProduct,
	tokenPercent:  precProduct,
	tokenCaret:    precPower,
}

// binaryOps maps left-associative infix operators to their operation tag.
var binaryOps = map[TokenType]OpTag{
	tokenOr:       OpDisjunction,
	tokenAnd:      OpConjunction,
	tokenEQ:       OpEqual,
	tokenNotEQ:    OpInequal,
	tokenLT:       OpLess,
	tokenLTE:      OpLessEqual,
	tokenGT:       OpGreater,
	tokenGTE:      OpGreaterEqual,
	tokenPlus:     OpAddition,
	tokenMinus:    OpSubtraction,
	tokenAsterisk: OpMultiplication,
	tokenSlash:    OpDivision,
	tokenPercent:  OpModulo,
}

var prefixOps = map[TokenType]OpTag{
	tokenMinus: OpNegation,
	tokenBang:  OpInversion,
}
