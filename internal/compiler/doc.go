// Package compiler turns a job of dialogue files into a Result: the
// diagnostics, the cross-file string table, the variable declarations and
// per-file tags.
//
// Compile runs four passes in a fixed order over one accumulating state:
//
//	register_strings           lex, parse, tag lines before options, build the string table
//	get_declarations           explicit <<declare>> statements and file tags
//	find_tracking_nodes        nodes that need a visit counter, minus opted-out nodes
//	add_tracking_declarations  one Number variable per tracked node
//
// Each file is lexed and parsed once; later passes walk the retained tree.
package compiler
