package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0
	// Лексические
	LexInfo                Code = 1000
	LexUnknownChar         Code = 1001
	LexUnterminatedString  Code = 1002
	LexMixedIndentation    Code = 1003
	LexUnterminatedCommand Code = 1004
	LexBadNumber           Code = 1005

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynMissingTitle       Code = 2002
	SynExpectBodyStart    Code = 2003
	SynExpectBodyEnd      Code = 2004
	SynUnclosedExpression Code = 2005
	SynUnclosedCommand    Code = 2006
	SynExpectExpression   Code = 2007
	SynExpectVariable     Code = 2008
	SynExpectNodeName     Code = 2009
	SynUnclosedIf         Code = 2010
	SynUnclosedParen      Code = 2011
	SynExpectHeader       Code = 2012

	// Семантические
	SemaInfo                    Code = 3000
	SemaDuplicateLineID         Code = 3001
	SemaNonConstantInitializer  Code = 3002
	SemaDeclarationTypeMismatch Code = 3003
	SemaUnknownType             Code = 3004

	IOLoadFileError Code = 4001

	ProjInfo            Code = 5000
	ProjInvalidManifest Code = 5001
	ProjNoSources       Code = 5002

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexMixedIndentation:         "Indentation mixes tabs and spaces",
		LexUnterminatedCommand:      "Unterminated command",
		LexBadNumber:                "Bad number literal",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynMissingTitle:             "Node has no title",
		SynExpectBodyStart:          "Expected '---' to start the node body",
		SynExpectBodyEnd:            "Expected '===' to end the node body",
		SynUnclosedExpression:       "Unclosed inline expression",
		SynUnclosedCommand:          "Unclosed command",
		SynExpectExpression:         "Expected expression",
		SynExpectVariable:           "Expected variable",
		SynExpectNodeName:           "Expected node name",
		SynUnclosedIf:               "Missing <<endif>>",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynExpectHeader:             "Expected header",
		SemaInfo:                    "Semantic information",
		SemaDuplicateLineID:         "Duplicate line ID",
		SemaNonConstantInitializer:  "Initial value is not a constant",
		SemaDeclarationTypeMismatch: "Declared type does not match initial value",
		SemaUnknownType:             "Unknown type name",
		IOLoadFileError:             "I/O load file error",
		ProjInfo:                    "Project information",
		ProjInvalidManifest:         "Invalid project manifest",
		ProjNoSources:               "Project has no source files",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
