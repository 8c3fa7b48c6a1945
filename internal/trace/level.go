package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelDriver              // compile boundaries only
	LevelPass                // + pass boundaries
	LevelFile                // + per-file work
	LevelDebug               // everything, per-node included
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelDriver:
		return "driver"
	case LevelPass:
		return "pass"
	case LevelFile:
		return "file"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a flag value to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off":
		return LevelOff, nil
	case "driver":
		return LevelDriver, nil
	case "pass":
		return LevelPass, nil
	case "file":
		return LevelFile, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|driver|pass|file|debug)", s)
	}
}

// ShouldEmit reports whether events of scope pass at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelDriver:
		return scope <= ScopeDriver
	case LevelPass:
		return scope <= ScopePass
	case LevelFile:
		return scope <= ScopeFile
	case LevelDebug:
		return true
	}
	return false
}
