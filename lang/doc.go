// Package lang implements the stash scripting language: a tokenizer, a
// recursive-descent parser producing a syntax tree, a closed set of runtime
// value types, chained variable scopes, and a tree-walking interpreter.
//
// # Pipeline
//
// Source text flows through three stages:
//
//	tokens, err := lang.Lex(ctx, src, "main.stash")   // []Token
//	root, err := lang.Parse(ctx, tokens)              // *Node (ListNode)
//	values, err := interp.Run(ctx, root, scope)       // []*Value
//
// [Session] wraps the pipeline and keeps one [Context] alive across batches,
// which is how the command-line runner and the REPL execute input.
//
// # Grammar
//
// Informal EBNF, lowest precedence first:
//
//	program     → NEWLINE* (statement (NEWLINE+ statement)*)? NEWLINE* EOF
//	statement   → declaration
//	declaration → "store" IDENT "as" TYPE ("=" declaration)?
//	            | "define" IDENT "as" TYPE "=" declaration
//	            | logic
//	logic       → negation (("and" | "or") negation)*
//	negation    → ("not" | "!") negation | additive
//	additive    → term (("+" | "-") term)*
//	term        → sign (("*" | "/" | "%" | "**") sign)*
//	sign        → ("+" | "-") sign | cast
//	cast        → primary ("as" TYPE)*
//	primary     → "(" declaration ")" | INT | DOUBLE | STRING+
//	            | "true" | "false" | IDENT "=" declaration | IDENT
//
// Multiplication, division, modulo, and exponentiation share one precedence
// tier and associate to the left, so 2 * 3 ** 2 is (2 * 3) ** 2.
//
// TYPE is one of int, double, string, bool, or list. A "#" starts a comment
// that runs to the end of the line.
//
// # Example
//
//	store width as int = 1_024
//	define ratio as double = .5
//	store label as string = "w=" "x"      # adjacent "…" literals join
//	width * ratio                          # 512
//	"ab" * 3                               # ababab
//	false and (store x as int = 1)         # false; x stays undeclared
//	width = width + 1                      # 1025
//
// # Values
//
// Integers are 32-bit and wrap on overflow; doubles are 64-bit. Mixing an
// Integer with a Double promotes the result to Double. Integer division and
// modulo truncate toward zero, so 10 % -3 is 1 and -10 % 3 is -1. Adding a
// string to any value concatenates their text.
//
// Reading a variable always yields a copy of the stored value.
//
// # Scopes
//
// A [Context] owns a [SymbolTable] chained to the tables of its enclosing
// contexts. Declarations bind in the innermost scope and may shadow outer
// names; redeclaring a name in the same scope is a fault.
//
// # Faults
//
// Every failure in user input is reported as a [*Fault] carrying a
// [FaultKind] and a source span. Lexing and parsing stop at the first fault.
// Evaluation stops at the first fault too, but statements already evaluated
// keep their effects. Use errors.Is with the sentinel faults, such as
// [ErrUndefinedVariable], to test the kind.
package lang
