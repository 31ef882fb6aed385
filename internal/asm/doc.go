// Package asm implements the front end of the LC-3 assembler: tokenizing,
// statement parsing, and instruction encoding for one source unit.
//
// A unit is read, lexed, and parsed line by line; each parsed statement is
// handed to the encoder, which interprets directives and translates
// instructions into sixteen-bit object words. Labels with unresolved
// PC-relative targets are left as deferred references for the linker
// (package link) to resolve once every unit has finished assembling.
//
//	LOOP    AND R3, R3, R2
//	        ADD R1, R1, #-1
//	        BRp LOOP
//
//	        .ORIG x3000
//	IDENT   .FILL xff00
//	        .END
//
// See Grammar for the syntax this package accepts.
//
// # Bugs
//
// Grammar ambiguities around label-only lines and trailing commentary are
// resolved by the statement parser's fixed six-step procedure (see
// ParseLine), not by this grammar sketch.
package asm

// Grammar declares the syntax of LC-3 assembly source in EBNF (with some
// liberties).
const Grammar = `
program     = { line } ;
line        = label [ statement ] [ comment ]
            | statement [ comment ]
            | comment ;
comment     = ';' { char } ;
label       = ident ;
statement   = directive | instruction ;
directive   = '.' ident { operand } ;
instruction = ident { operand } ;
operand     = register | immediate | label | string ;
register    = ( 'R' | 'r' ) octaldigit ;
immediate   = '#' [ '-' ] digit { digit }
            | digit { digit }
            | ( 'x' | 'X' ) [ '-' ] hexdigit { hexdigit }
            | ( 'b' | 'B' ) [ '-' ] bindigit { bindigit } ;
string      = '"' { char | escape } '"' ;
escape      = '\' ( 'n' | 'r' | 't' | '0' | '"' | '\' ) ;
ident       = letter { letter | digit } ;
`
