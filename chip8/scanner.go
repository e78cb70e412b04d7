/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package chip8

import (
	"fmt"
	"strconv"
	"strings"
)

// tokenType is the lexical class of a token.
type tokenType int

const (
	TOKEN_END tokenType = iota
	TOKEN_CHAR
	TOKEN_LABEL
	TOKEN_EQU
	TOKEN_REF
	TOKEN_INSTRUCTION
	TOKEN_OPERAND
	TOKEN_EFFECTIVE_ADDRESS
	TOKEN_V
	TOKEN_I
	TOKEN_B
	TOKEN_F
	TOKEN_K
	TOKEN_DT
	TOKEN_ST
	TOKEN_LIT
	TOKEN_TEXT
)

// token is a parsed, lexical token. Tokens can have an optional value
// associated with them.
type token struct {
	typ tokenType
	val interface{}
}

// tokenScanner splits a single, upper-cased, source line into tokens.
type tokenScanner struct {
	bytes []byte

	// scan position
	pos int
}

// scanToken reads the next token.
func (s *tokenScanner) scanToken() token {
	for len(s.bytes) > s.pos && s.bytes[s.pos] < 33 {
		s.pos++
	}

	// nothing left on the line
	if len(s.bytes) <= s.pos {
		return token{typ: TOKEN_END, val: ""}
	}

	c := s.bytes[s.pos]

	switch {
	case c == ';':
		return s.scanToEnd()
	case s.pos == 0 && (isIdentStart(c) || c == '.'):
		return s.scanLabel()
	case s.pos == 0:
		panic("expected label")
	case c == '[':
		return s.scanIndirection()
	case c == ',':
		return s.scanOperand()
	case c == '#':
		return s.scanHexLit()
	case c == '$':
		return s.scanBinLit()
	case c == '-' || (c >= '0' && c <= '9'):
		return s.scanDecLit()
	case isIdentStart(c):
		return s.scanIdentifier()
	case c == '"' || c == '\'':
		return s.scanString(c)
	}

	return s.scanChar()
}

// scanOperands reads a comma-separated list of operands up to the end of
// the line.
func (s *tokenScanner) scanOperands() []token {
	tokens := make([]token, 0, 3)

	for t := s.scanToken(); t.typ != TOKEN_END; {
		tokens = append(tokens, t)

		// either the end of the list or another operand
		if t = s.scanToken(); t.typ != TOKEN_OPERAND {
			if t.typ == TOKEN_END {
				break
			}

			panic("unexpected token")
		}

		t = t.val.(token)
	}

	return tokens
}

// scanChar returns a single character token.
func (s *tokenScanner) scanChar() token {
	i := s.pos

	s.pos++

	return token{typ: TOKEN_CHAR, val: s.bytes[i]}
}

// scanToEnd skips the rest of the line.
func (s *tokenScanner) scanToEnd() token {
	text := string(s.bytes[s.pos:])

	s.pos = len(s.bytes)

	return token{typ: TOKEN_END, val: strings.TrimSpace(text)}
}

// scanOperand scans the token following a comma.
func (s *tokenScanner) scanOperand() token {
	s.pos++

	t := s.scanToken()
	if t.typ == TOKEN_END {
		panic("expected operand")
	}

	return token{typ: TOKEN_OPERAND, val: t}
}

// scanLabel scans a label at the start of a line. A leading '.' and a
// trailing ':' are both optional.
func (s *tokenScanner) scanLabel() token {
	if s.bytes[s.pos] == '.' {
		s.pos++
	}

	if s.pos >= len(s.bytes) || !isIdentStart(s.bytes[s.pos]) {
		panic("expected label")
	}

	id := s.scanIdentifier()
	if id.typ != TOKEN_REF {
		panic(fmt.Errorf("reserved word used as label: %v", id.val))
	}

	// optional colon
	if s.pos < len(s.bytes) && s.bytes[s.pos] == ':' {
		s.pos++
	}

	return token{typ: TOKEN_LABEL, val: id.val}
}

// scanIdentifier scans an instruction, register, or label reference.
func (s *tokenScanner) scanIdentifier() token {
	i := s.pos

	for ; s.pos < len(s.bytes); s.pos++ {
		if c := s.bytes[s.pos]; !isIdentStart(c) && (c < '0' || c > '9') {
			break
		}
	}

	id := string(s.bytes[i:s.pos])

	// v-registers
	if len(id) == 2 && id[0] == 'V' {
		if n := strings.IndexByte("0123456789ABCDEF", id[1]); n >= 0 {
			return token{typ: TOKEN_V, val: n}
		}
	}

	switch id {
	case "I":
		return token{typ: TOKEN_I}
	case "B":
		return token{typ: TOKEN_B}
	case "F":
		return token{typ: TOKEN_F}
	case "K":
		return token{typ: TOKEN_K}
	case "DT":
		return token{typ: TOKEN_DT}
	case "ST":
		return token{typ: TOKEN_ST}
	case "EQU":
		return token{typ: TOKEN_EQU}
	case "CLS", "RET", "JP", "CALL", "SE", "SNE", "LD", "ADD", "OR", "AND", "XOR", "SUB", "SUBN", "SHR", "SHL", "RND", "DRW", "BYTE", "WORD", "ALIGN", "PAD":
		return token{typ: TOKEN_INSTRUCTION, val: id}
	}

	return token{typ: TOKEN_REF, val: id}
}

// scanIndirection scans [I].
func (s *tokenScanner) scanIndirection() token {
	s.pos++

	if t := s.scanToken(); t.typ != TOKEN_I {
		panic("illegal indirection")
	}

	if c := s.scanToken(); c.typ != TOKEN_CHAR || c.val.(byte) != ']' {
		panic("illegal indirection")
	}

	return token{typ: TOKEN_EFFECTIVE_ADDRESS}
}

// scanDecLit scans a decimal literal.
func (s *tokenScanner) scanDecLit() token {
	i := s.pos

	// skip a unary minus negation
	if s.bytes[i] == '-' {
		s.pos++
	}

	for ; s.pos < len(s.bytes); s.pos++ {
		if strings.IndexByte("0123456789", s.bytes[s.pos]) < 0 {
			break
		}
	}

	if n, err := strconv.ParseInt(string(s.bytes[i:s.pos]), 10, 32); err == nil {
		return token{typ: TOKEN_LIT, val: int(n)}
	}

	panic(fmt.Errorf("illegal decimal value: %s", string(s.bytes[i:s.pos])))
}

// scanHexLit scans a #hex literal.
func (s *tokenScanner) scanHexLit() token {
	i := s.pos

	for s.pos++; s.pos < len(s.bytes); s.pos++ {
		if strings.IndexByte("0123456789ABCDEF", s.bytes[s.pos]) < 0 {
			break
		}
	}

	if n, err := strconv.ParseInt(string(s.bytes[i+1:s.pos]), 16, 32); err == nil {
		return token{typ: TOKEN_LIT, val: int(n)}
	}

	panic(fmt.Errorf("illegal hex value: %s", string(s.bytes[i:s.pos])))
}

// scanBinLit scans a $binary literal, where '.' may be used for 0.
func (s *tokenScanner) scanBinLit() token {
	i := s.pos

	for s.pos++; s.pos < len(s.bytes); s.pos++ {
		if strings.IndexByte(".01", s.bytes[s.pos]) < 0 {
			break
		}
	}

	v := strings.ReplaceAll(string(s.bytes[i+1:s.pos]), ".", "0")

	if n, err := strconv.ParseInt(v, 2, 32); err == nil {
		return token{typ: TOKEN_LIT, val: int(n)}
	}

	panic(fmt.Errorf("illegal binary value: %s", string(s.bytes[i:s.pos])))
}

// scanString scans a quoted string.
func (s *tokenScanner) scanString(term byte) token {
	s.pos++

	i := s.pos

	for s.pos < len(s.bytes) && s.bytes[s.pos] != term {
		s.pos++
	}

	if s.pos >= len(s.bytes) {
		panic("unterminated string")
	}

	text := string(s.bytes[i:s.pos])

	// skip the closing quote
	s.pos++

	return token{typ: TOKEN_TEXT, val: text}
}

func isIdentStart(c byte) bool {
	return (c >= 'A' && c <= 'Z') || c == '_'
}
