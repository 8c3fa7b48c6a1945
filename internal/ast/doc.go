// Package ast holds the parse tree of a dialogue script: file hashtags, nodes
// with headers, and the statements and expressions of node bodies.
//
// Nodes are plain pointer structs. Inspect walks a tree depth-first in
// source order; compiler passes build their per-file visitors on it.
package ast
