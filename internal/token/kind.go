package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// WS is a run of spaces or tabs (hidden).
	WS
	// Comment is a `//` comment running to the end of the line (hidden).
	Comment
	// Newline is a line break plus the following line's indentation.
	Newline

	// ID is an identifier: header keys and jump destinations.
	ID
	// HeaderDelimiter is the ':' (plus trailing spaces) after a header key.
	HeaderDelimiter
	// RestOfLine is a header value.
	RestOfLine
	// Hashtag is the '#' introducing a tag.
	Hashtag
	// HashtagText is the text of a tag.
	HashtagText
	// BodyStart is the '---' opening a node body.
	BodyStart
	// BodyEnd is the '===' closing a node body.
	BodyEnd

	// ShortcutArrow is the '->' starting a shortcut option.
	ShortcutArrow
	// Text is a run of user-visible line text.
	Text
	// ExpressionStart is '{' opening an inline expression.
	ExpressionStart
	// ExpressionEnd is '}' closing an inline expression.
	ExpressionEnd

	// CommandStart is '<<'.
	CommandStart
	// CommandEnd is '>>' closing a keyword command.
	CommandEnd
	// CommandTextEnd is '>>' closing a free-text command.
	CommandTextEnd
	// CommandText is the free text of a generic command.
	CommandText
	// CommandExpressionStart is '{' inside a free-text command.
	CommandExpressionStart
	CommandIf
	CommandElseIf
	CommandElse
	CommandEndIf
	CommandSet
	CommandDeclare
	CommandCall
	CommandJump

	// Number is a numeric literal.
	Number
	// String is a double-quoted string literal.
	String
	KeywordTrue
	KeywordFalse
	KeywordNull
	KeywordAs
	// VarID is a variable reference such as $gold.
	VarID
	// FuncID is a function name in a call.
	FuncID

	OpEquals       // == is eq
	OpNotEquals    // != neq
	OpLess         // < lt
	OpLessEqual    // <= lte
	OpGreater      // > gt
	OpGreaterEqual // >= gte
	OpAnd          // && and
	OpOr           // || or
	OpXor          // ^ xor
	OpNot          // ! not
	OpAssign       // = to
	OpAdd          // +
	OpSub          // -
	OpMul          // *
	OpDiv          // /
	OpMod          // %
	OpAddAssign    // +=
	OpSubAssign    // -=
	OpMulAssign    // *=
	OpDivAssign    // /=
	OpModAssign    // %=
	LParen         // (
	RParen         // )
	Comma          // ,

	// Indent is synthesized when a shortcut option's body is indented deeper.
	Indent
	// Dedent is synthesized when an indented option body ends.
	Dedent
	// BlankLineFollowingOption is synthesized for a blank line directly
	// after an option line; it ends the option group.
	BlankLineFollowingOption
)

var kindNames = [...]string{
	Invalid:                  "Invalid",
	EOF:                      "EOF",
	WS:                       "WS",
	Comment:                  "Comment",
	Newline:                  "Newline",
	ID:                       "ID",
	HeaderDelimiter:          "HeaderDelimiter",
	RestOfLine:               "RestOfLine",
	Hashtag:                  "Hashtag",
	HashtagText:              "HashtagText",
	BodyStart:                "BodyStart",
	BodyEnd:                  "BodyEnd",
	ShortcutArrow:            "ShortcutArrow",
	Text:                     "Text",
	ExpressionStart:          "ExpressionStart",
	ExpressionEnd:            "ExpressionEnd",
	CommandStart:             "CommandStart",
	CommandEnd:               "CommandEnd",
	CommandTextEnd:           "CommandTextEnd",
	CommandText:              "CommandText",
	CommandExpressionStart:   "CommandExpressionStart",
	CommandIf:                "CommandIf",
	CommandElseIf:            "CommandElseIf",
	CommandElse:              "CommandElse",
	CommandEndIf:             "CommandEndIf",
	CommandSet:               "CommandSet",
	CommandDeclare:           "CommandDeclare",
	CommandCall:              "CommandCall",
	CommandJump:              "CommandJump",
	Number:                   "Number",
	String:                   "String",
	KeywordTrue:              "KeywordTrue",
	KeywordFalse:             "KeywordFalse",
	KeywordNull:              "KeywordNull",
	KeywordAs:                "KeywordAs",
	VarID:                    "VarID",
	FuncID:                   "FuncID",
	OpEquals:                 "OpEquals",
	OpNotEquals:              "OpNotEquals",
	OpLess:                   "OpLess",
	OpLessEqual:              "OpLessEqual",
	OpGreater:                "OpGreater",
	OpGreaterEqual:           "OpGreaterEqual",
	OpAnd:                    "OpAnd",
	OpOr:                     "OpOr",
	OpXor:                    "OpXor",
	OpNot:                    "OpNot",
	OpAssign:                 "OpAssign",
	OpAdd:                    "OpAdd",
	OpSub:                    "OpSub",
	OpMul:                    "OpMul",
	OpDiv:                    "OpDiv",
	OpMod:                    "OpMod",
	OpAddAssign:              "OpAddAssign",
	OpSubAssign:              "OpSubAssign",
	OpMulAssign:              "OpMulAssign",
	OpDivAssign:              "OpDivAssign",
	OpModAssign:              "OpModAssign",
	LParen:                   "LParen",
	RParen:                   "RParen",
	Comma:                    "Comma",
	Indent:                   "Indent",
	Dedent:                   "Dedent",
	BlankLineFollowingOption: "BlankLineFollowingOption",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Channel separates tokens the parser consumes from tokens it skips.
type Channel uint8

const (
	// ChannelDefault carries tokens the parser consumes.
	ChannelDefault Channel = iota
	// ChannelHidden carries whitespace, comments and body-level line breaks.
	ChannelHidden
)

func (c Channel) String() string {
	if c == ChannelHidden {
		return "hidden"
	}
	return "default"
}
