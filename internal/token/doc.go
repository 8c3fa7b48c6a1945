// Package token defines lexical token kinds and channels for the spool
// dialogue-script compiler.
// Invariants:
//   - Token.Text is the exact source text for lexed tokens; synthetic tokens
//     (Indent, Dedent, BlankLineFollowingOption) carry empty text and an
//     empty span positioned where the lexer stood when they were made.
//   - Whitespace, comments and body-level line breaks are emitted on the
//     Hidden channel; the parser skips them but they stay in the stream.
//   - A Newline token is one line break followed by the next line's leading
//     spaces and tabs, so its text encodes that line's indentation.
package token
