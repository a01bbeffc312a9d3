// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	errExprSyntax   = errors.New("expression syntax error")
	errDivideByZero = errors.New("division by zero")
)

type tokenKind byte

const (
	tokEnd tokenKind = iota
	tokIdent
	tokNumber
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind  tokenKind
	num   int64
	ident string
	op    *operator
}

type opcode byte

const (
	opNone opcode = iota
	opMul
	opDiv
	opMod
	opAdd
	opSub
	opShl
	opShr
	opAnd
	opXor
	opOr
	opNot
	opNeg
	opPlus
	opLoByte
	opHiByte
)

// An operator is evaluated with one or two operands. Binary operators that
// may also appear in prefix position name their prefix form in unary.
type operator struct {
	symbol     string
	precedence byte
	rightAssoc bool
	operands   byte
	unary      opcode
	eval       func(a, b int64) (int64, error)
}

func binop(fn func(a, b int64) int64) func(a, b int64) (int64, error) {
	return func(a, b int64) (int64, error) { return fn(a, b), nil }
}

func divop(fn func(a, b int64) int64) func(a, b int64) (int64, error) {
	return func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errDivideByZero
		}
		return fn(a, b), nil
	}
}

var operators = [...]operator{
	opNone:   {},
	opMul:    {"*", 6, false, 2, opNone, binop(func(a, b int64) int64 { return a * b })},
	opDiv:    {"/", 6, false, 2, opNone, divop(func(a, b int64) int64 { return a / b })},
	opMod:    {"%", 6, false, 2, opNone, divop(func(a, b int64) int64 { return a % b })},
	opAdd:    {"+", 5, false, 2, opPlus, binop(func(a, b int64) int64 { return a + b })},
	opSub:    {"-", 5, false, 2, opNeg, binop(func(a, b int64) int64 { return a - b })},
	opShl:    {"<<", 4, false, 2, opNone, binop(func(a, b int64) int64 { return a << uint(b&63) })},
	opShr:    {">>", 4, false, 2, opNone, binop(func(a, b int64) int64 { return a >> uint(b&63) })},
	opAnd:    {"&", 3, false, 2, opNone, binop(func(a, b int64) int64 { return a & b })},
	opXor:    {"^", 2, false, 2, opNone, binop(func(a, b int64) int64 { return a ^ b })},
	opOr:     {"|", 1, false, 2, opNone, binop(func(a, b int64) int64 { return a | b })},
	opNot:    {"~", 7, true, 1, opNone, binop(func(a, _ int64) int64 { return ^a })},
	opNeg:    {"-", 7, true, 1, opNone, binop(func(a, _ int64) int64 { return -a })},
	opPlus:   {"+", 7, true, 1, opNone, binop(func(a, _ int64) int64 { return a })},
	opLoByte: {"<", 7, true, 1, opNone, binop(func(a, _ int64) int64 { return a & 0xff })},
	opHiByte: {">", 7, true, 1, opNone, binop(func(a, _ int64) int64 { return (a >> 8) & 0xff })},
}

// An identResolver maps a name appearing in an expression to its value.
type identResolver interface {
	resolveIdentifier(name string) (int64, error)
}

// An exprParser evaluates infix expressions with the shunting-yard
// algorithm. Numbers are decimal unless prefixed with $ or 0x (hex), % or
// 0b (binary), or unless hexMode is set. 'c' is the character code of c.
type exprParser struct {
	output  []token
	opstack []token
	prev    tokenKind
	hexMode bool
}

func (p *exprParser) reset() {
	p.output = p.output[:0]
	p.opstack = p.opstack[:0]
	p.prev = tokEnd
}

// Parse evaluates expr, resolving identifiers through r.
func (p *exprParser) Parse(expr string, r identResolver) (int64, error) {
	defer p.reset()
	p.reset()

	s := expr
	for {
		tok, remain, err := p.next(s)
		if err != nil {
			return 0, err
		}
		if tok.kind == tokEnd {
			break
		}
		s = remain

		switch tok.kind {
		case tokNumber:
			p.output = append(p.output, tok)

		case tokIdent:
			v, err := r.resolveIdentifier(tok.ident)
			if err != nil {
				return 0, err
			}
			p.output = append(p.output, token{kind: tokNumber, num: v})

		case tokLParen:
			p.opstack = append(p.opstack, tok)

		case tokRParen:
			matched := false
			for len(p.opstack) > 0 {
				top := p.pop()
				if top.kind == tokLParen {
					matched = true
					break
				}
				p.output = append(p.output, top)
			}
			if !matched {
				return 0, errExprSyntax
			}

		case tokOp:
			if tok.op.unary != opNone && p.expectOperand() {
				tok.op = &operators[tok.op.unary]
			}
			for p.collapses(tok.op) {
				p.output = append(p.output, p.pop())
			}
			p.opstack = append(p.opstack, tok)
		}
		p.prev = tok.kind
	}

	for len(p.opstack) > 0 {
		top := p.pop()
		if top.kind == tokLParen {
			return 0, errExprSyntax
		}
		p.output = append(p.output, top)
	}

	v, err := p.eval()
	if err != nil {
		return 0, err
	}
	if len(p.output) > 0 {
		return 0, errExprSyntax
	}
	return v, nil
}

// An operand is expected at the start of the expression and after an
// operator or a left parenthesis.
func (p *exprParser) expectOperand() bool {
	return p.prev == tokEnd || p.prev == tokOp || p.prev == tokLParen
}

func (p *exprParser) pop() token {
	top := p.opstack[len(p.opstack)-1]
	p.opstack = p.opstack[:len(p.opstack)-1]
	return top
}

func (p *exprParser) collapses(op *operator) bool {
	if len(p.opstack) == 0 {
		return false
	}
	top := p.opstack[len(p.opstack)-1]
	if top.kind != tokOp {
		return false
	}
	if op.operands == 1 {
		return false
	}
	return top.op.precedence > op.precedence ||
		(top.op.precedence == op.precedence && !op.rightAssoc)
}

// Evaluate the postfix output, consuming it from the end.
func (p *exprParser) eval() (int64, error) {
	if len(p.output) == 0 {
		return 0, errExprSyntax
	}
	tok := p.output[len(p.output)-1]
	p.output = p.output[:len(p.output)-1]

	switch tok.kind {
	case tokNumber:
		return tok.num, nil
	case tokOp:
	default:
		return 0, errExprSyntax
	}

	b, err := p.eval()
	if err != nil {
		return 0, err
	}
	if tok.op.operands == 1 {
		return tok.op.eval(b, 0)
	}
	a, err := p.eval()
	if err != nil {
		return 0, err
	}
	return tok.op.eval(a, b)
}

func (p *exprParser) next(s string) (tok token, remain string, err error) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return token{}, s, nil
	}

	c := s[0]
	switch {
	case c == '(':
		return token{kind: tokLParen}, s[1:], nil
	case c == ')':
		return token{kind: tokRParen}, s[1:], nil
	case c == '\'':
		if len(s) < 3 || s[2] != '\'' {
			return token{}, s, errExprSyntax
		}
		return token{kind: tokNumber, num: int64(s[1])}, s[3:], nil
	case c == '$':
		return p.number(s[1:], 16)
	case c == '%' && p.expectOperand():
		return p.number(s[1:], 2)
	case isDigit(c):
		return p.prefixedNumber(s)
	case isIdentChar(c):
		return p.word(s)
	}
	return p.operator(s)
}

func (p *exprParser) prefixedNumber(s string) (tok token, remain string, err error) {
	if len(s) > 1 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			return p.number(s[2:], 16)
		case 'b', 'B':
			if !p.hexMode {
				return p.number(s[2:], 2)
			}
		case 'd', 'D':
			if !p.hexMode {
				return p.number(s[2:], 10)
			}
		}
	}
	if p.hexMode {
		return p.number(s, 16)
	}
	return p.number(s, 10)
}

func (p *exprParser) number(s string, base int) (tok token, remain string, err error) {
	n := 0
	for n < len(s) && digitValue(s[n]) < base {
		n++
	}
	if n == 0 {
		return token{}, s, errExprSyntax
	}
	v, err := strconv.ParseInt(s[:n], base, 64)
	if err != nil {
		return token{}, s, errExprSyntax
	}
	return token{kind: tokNumber, num: v}, s[n:], nil
}

// A word is an identifier, or a number when hexMode is set and it holds
// only hex digits.
func (p *exprParser) word(s string) (tok token, remain string, err error) {
	n := 0
	for n < len(s) && isIdentChar(s[n]) {
		n++
	}
	w := s[:n]
	if p.hexMode && strings.IndexFunc(w, func(r rune) bool { return r > 0x7f || digitValue(byte(r)) >= 16 }) < 0 {
		return p.number(s, 16)
	}
	return token{kind: tokIdent, ident: w}, s[n:], nil
}

func (p *exprParser) operator(s string) (tok token, remain string, err error) {
	var code opcode
	n := 1
	switch s[0] {
	case '*':
		code = opMul
	case '/':
		code = opDiv
	case '%':
		code = opMod
	case '+':
		code = opAdd
	case '-':
		code = opSub
	case '&':
		code = opAnd
	case '^':
		code = opXor
	case '|':
		code = opOr
	case '~':
		code = opNot
	case '<', '>':
		switch {
		case len(s) > 1 && s[1] == s[0]:
			code, n = opShl, 2
			if s[0] == '>' {
				code = opShr
			}
		case p.expectOperand():
			code = opLoByte
			if s[0] == '>' {
				code = opHiByte
			}
		default:
			return token{}, s, errExprSyntax
		}
	default:
		return token{}, s, fmt.Errorf("unexpected character '%c' in expression", s[0])
	}
	return token{kind: tokOp, op: &operators[code]}, s[n:], nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || isDigit(c) || c == '_' || c == '.'
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 99
}
