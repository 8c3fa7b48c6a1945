package parser

import "spool/internal/token"

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precLogical        = 1 // and or xor
	precEquality       = 2 // == !=
	precComparison     = 3 // < <= > >=
	precAdditive       = 4 // + -
	precMultiplicative = 5 // * / %
)

// getBinaryOperatorPrec возвращает приоритет оператора или -1
func getBinaryOperatorPrec(kind token.Kind) int {
	switch kind {
	case token.OpAnd, token.OpOr, token.OpXor:
		return precLogical
	case token.OpEquals, token.OpNotEquals:
		return precEquality
	case token.OpLess, token.OpLessEqual, token.OpGreater, token.OpGreaterEqual:
		return precComparison
	case token.OpAdd, token.OpSub:
		return precAdditive
	case token.OpMul, token.OpDiv, token.OpMod:
		return precMultiplicative
	default:
		return -1 // не бинарный оператор
	}
}
