package token

// commandKeywords maps the first word of a `<<...>>` command to its kind.
var commandKeywords = map[string]Kind{
	"if":      CommandIf,
	"elseif":  CommandElseIf,
	"else":    CommandElse,
	"endif":   CommandEndIf,
	"set":     CommandSet,
	"declare": CommandDeclare,
	"call":    CommandCall,
	"jump":    CommandJump,
}

// wordKeywords covers identifiers with special meaning inside expressions.
var wordKeywords = map[string]Kind{
	"true":  KeywordTrue,
	"false": KeywordFalse,
	"null":  KeywordNull,
	"as":    KeywordAs,
	"is":    OpEquals,
	"eq":    OpEquals,
	"neq":   OpNotEquals,
	"lt":    OpLess,
	"lte":   OpLessEqual,
	"gt":    OpGreater,
	"gte":   OpGreaterEqual,
	"and":   OpAnd,
	"or":    OpOr,
	"xor":   OpXor,
	"not":   OpNot,
	"to":    OpAssign,
}

// LookupCommand reports the keyword kind for a command word.
func LookupCommand(word string) (Kind, bool) {
	k, ok := commandKeywords[word]
	return k, ok
}

// LookupWord reports the keyword or word-operator kind for an expression identifier.
func LookupWord(word string) (Kind, bool) {
	k, ok := wordKeywords[word]
	return k, ok
}
