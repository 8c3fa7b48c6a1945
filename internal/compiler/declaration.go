package compiler

import (
	"spool/internal/diag"
	"spool/internal/types"
)

// Origin tells declared variables from compiler-generated ones.
type Origin uint8

const (
	Explicit Origin = iota
	Derived
)

func (o Origin) String() string {
	if o == Derived {
		return "derived"
	}
	return "explicit"
}

// Declaration describes one variable.
type Declaration struct {
	Name        string      `msgpack:"name"`
	Type        types.Kind  `msgpack:"type"`
	Default     types.Value `msgpack:"default"`
	Description string      `msgpack:"description,omitempty"`
	SourceFile  string      `msgpack:"file,omitempty"`
	SourceNode  string      `msgpack:"node,omitempty"`
	Range       diag.Range  `msgpack:"range"`
	Origin      Origin      `msgpack:"origin"`
}

// NewDeclaration returns an explicit declaration whose type follows def.
func NewDeclaration(name string, def types.Value, description string) Declaration {
	return Declaration{
		Name:        name,
		Type:        def.Kind,
		Default:     def,
		Description: description,
	}
}
