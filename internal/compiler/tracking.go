package compiler

import (
	"fmt"
	"sort"
	"strings"

	"spool/internal/ast"
	"spool/internal/trace"
	"spool/internal/types"
)

const trackingHeader = "tracking"

// scanTracking returns the nodes a file asks to track and those it opts out.
// A node's `tracking: always|never` header decides for itself; a call of a
// visit-tracking function with a literal node name asks for that node.
func scanTracking(tree *ast.Dialogue, lib *Library) (requested, ignored []string) {
	for _, node := range tree.Nodes {
		title := node.Title()
		if mode, ok := node.Header(trackingHeader); ok && title != "" {
			switch strings.ToLower(mode) {
			case "always":
				requested = append(requested, title)
			case "never":
				ignored = append(ignored, title)
			}
		}
		ast.Inspect(node, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok || !lib.IsVisitTracking(call.Name) || len(call.Args) == 0 {
				return true
			}
			if lit, ok := ast.Unparen(call.Args[0]).(*ast.StringLit); ok {
				requested = append(requested, lit.Value)
			}
			return true
		})
	}
	return requested, ignored
}

// findTrackingNodes computes (all requested) minus (all opted out) across
// every file, so file order does not matter.
func findTrackingNodes(st *state) {
	requested := make(map[string]struct{})
	ignored := make(map[string]struct{})
	for _, pf := range st.parsed {
		req, ign := scanTracking(pf.tree, st.lib)
		for _, n := range req {
			requested[n] = struct{}{}
		}
		for _, n := range ign {
			ignored[n] = struct{}{}
		}
	}

	st.tracked = st.tracked[:0]
	for n := range requested {
		if _, skip := ignored[n]; !skip {
			st.tracked = append(st.tracked, n)
		}
	}
	sort.Strings(st.tracked)
}

// addTrackingDeclarations derives one Number variable, default 0, per
// tracked node. A variable that is already known is not declared twice, so
// the derived list can be shorter than the tracked set when a manifest or
// a <<declare>> already names $Yarn.Internal.Visiting.<node>.
func addTrackingDeclarations(st *state) {
	tracer := trace.FromContext(st.ctx)
	parent := trace.CurrentSpan(st.ctx).SpanID
	known := make(map[string]bool, len(st.known))
	for _, d := range st.known {
		known[d.Name] = true
	}
	for _, node := range st.tracked {
		name := VisitedVariableName(node)
		if known[name] {
			continue
		}
		known[name] = true
		d := Declaration{
			Name:        name,
			Type:        types.Number,
			Default:     types.NumberValue(0),
			Description: fmt.Sprintf("The generated variable for tracking visits of node %s", node),
			Origin:      Derived,
		}
		st.known = append(st.known, d)
		st.derived = append(st.derived, d)
		trace.Point(tracer, trace.ScopeNode, "track:"+node, name, parent)
	}
}
