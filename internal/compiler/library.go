package compiler

import (
	"sort"

	"spool/internal/types"
)

// Function is the signature of a callable dialogue function.
type Function struct {
	Name    string
	Params  []types.Kind
	Returns types.Kind
}

// Library maps function names to signatures.
type Library struct {
	funcs map[string]Function
}

func NewLibrary() *Library {
	return &Library{funcs: make(map[string]Function)}
}

// Register adds or replaces fn.
func (l *Library) Register(fn Function) {
	l.funcs[fn.Name] = fn
}

func (l *Library) Lookup(name string) (Function, bool) {
	if l == nil {
		return Function{}, false
	}
	fn, ok := l.funcs[name]
	return fn, ok
}

// Names returns registered function names sorted.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.funcs))
	for n := range l.funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

const (
	VisitedFunc      = "visited"
	VisitedCountFunc = "visited_count"
)

// IsVisitTracking reports whether name is a registered member of the
// visit-tracking family.
func (l *Library) IsVisitTracking(name string) bool {
	if name != VisitedFunc && name != VisitedCountFunc {
		return false
	}
	_, ok := l.Lookup(name)
	return ok
}

// VisitedVariableName is the variable that counts visits of node.
func VisitedVariableName(node string) string {
	return "$Yarn.Internal.Visiting." + node
}

// StandardLibrary returns the functions every dialogue can call.
func StandardLibrary() *Library {
	l := NewLibrary()
	num, str, boolean := types.Number, types.String, types.Bool
	for _, fn := range []Function{
		{Name: VisitedFunc, Params: []types.Kind{str}, Returns: boolean},
		{Name: VisitedCountFunc, Params: []types.Kind{str}, Returns: num},
		{Name: "random", Returns: num},
		{Name: "random_range", Params: []types.Kind{num, num}, Returns: num},
		{Name: "dice", Params: []types.Kind{num}, Returns: num},
		{Name: "round", Params: []types.Kind{num}, Returns: num},
		{Name: "round_places", Params: []types.Kind{num, num}, Returns: num},
		{Name: "floor", Params: []types.Kind{num}, Returns: num},
		{Name: "ceil", Params: []types.Kind{num}, Returns: num},
		{Name: "inc", Params: []types.Kind{num}, Returns: num},
		{Name: "dec", Params: []types.Kind{num}, Returns: num},
		{Name: "decimal", Params: []types.Kind{num}, Returns: num},
		{Name: "int", Params: []types.Kind{num}, Returns: num},
		{Name: "string", Params: []types.Kind{num}, Returns: str},
		{Name: "number", Params: []types.Kind{str}, Returns: num},
		{Name: "bool", Params: []types.Kind{num}, Returns: boolean},
	} {
		l.Register(fn)
	}
	return l
}
