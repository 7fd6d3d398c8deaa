// Package codegen translates a small subset of stash programs into x86-64
// assembly in NASM syntax.
//
// The generator uses fixed registers: eax is the accumulator and ebx holds
// the second operand of a binary operation. Every variable becomes a 32-bit
// slot in the .data section, and the program exits with status 0 after the
// last statement.
//
// Only the following statements are accepted, all of type int or bool:
//
//	store x as int = 5          declaration with a literal
//	store y as int = x + 1      IDENT (+|-|*) INT, or INT (+|-|*) IDENT
//	y = 2 * x                   reassignment of either form
//
// Any other construct yields [ErrUnsupported] naming the offending span.
package codegen
