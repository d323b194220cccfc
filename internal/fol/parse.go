package fol

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokLParen
	tokRParen
	tokComma
	tokDot
	tokNot
	tokAnd
	tokOr
	tokImp
	tokIff
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

type lexer struct {
	src  []rune
	pos  int
	toks []token
}

func lex(src string) ([]token, error) {
	l := &lexer{src: []rune(src)}
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		switch {
		case unicode.IsSpace(r):
			l.pos++
		case r == '(':
			l.emit(tokLParen, "(")
		case r == ')':
			l.emit(tokRParen, ")")
		case r == ',':
			l.emit(tokComma, ",")
		case r == '.':
			l.emit(tokDot, ".")
		case r == '&':
			l.emit(tokAnd, "&")
		case r == '|':
			l.emit(tokOr, "|")
		case r == '-':
			if l.peek(1) == '>' {
				l.emitN(tokImp, "->", 2)
			} else {
				l.emit(tokNot, "-")
			}
		case r == '<':
			if l.peek(1) == '-' && l.peek(2) == '>' {
				l.emitN(tokIff, "<->", 3)
			} else {
				return nil, fmt.Errorf("unexpected character %q at position %d", r, l.pos)
			}
		case r == '~' || r == '!':
			l.emit(tokNot, string(r))
		case isIdentStart(r):
			start := l.pos
			for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
				l.pos++
			}
			l.toks = append(l.toks, token{kind: tokIdent, text: string(l.src[start:l.pos]), pos: start})
		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", r, l.pos)
		}
	}
	l.toks = append(l.toks, token{kind: tokEOF, pos: len(l.src)})
	return l.toks, nil
}

func (l *lexer) peek(ahead int) rune {
	if l.pos+ahead >= len(l.src) {
		return 0
	}
	return l.src[l.pos+ahead]
}

func (l *lexer) emit(kind tokenKind, text string) {
	l.toks = append(l.toks, token{kind: kind, text: text, pos: l.pos})
	l.pos++
}

func (l *lexer) emitN(kind tokenKind, text string, n int) {
	l.toks = append(l.toks, token{kind: kind, text: text, pos: l.pos})
	l.pos += n
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Parse reads a formula in surface syntax. Connectives in decreasing binding
// strength: -, &, |, -> (right associative), <->. Quantifiers "all x." and
// "exists x." take the widest scope to their right.
func Parse(src string) (*Formula, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("empty formula")
	}
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &folParser{toks: toks}
	f, err := p.formula()
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tokEOF {
		return nil, fmt.Errorf("unexpected %s after formula", p.cur())
	}
	return f, nil
}

type folParser struct {
	toks []token
	idx  int
}

func (p *folParser) cur() token { return p.toks[p.idx] }
func (p *folParser) advance()   { p.idx++ }

func (p *folParser) at(k tokenKind) bool {
	return p.cur().kind == k
}

func (p *folParser) expect(k tokenKind, what string) (token, error) {
	if !p.at(k) {
		return token{}, fmt.Errorf("expected %s, found %s", what, p.cur())
	}
	t := p.cur()
	p.advance()
	return t, nil
}

func (p *folParser) formula() (*Formula, error) {
	return p.iff()
}

func (p *folParser) iff() (*Formula, error) {
	left, err := p.imp()
	if err != nil {
		return nil, err
	}
	if p.at(tokIff) {
		p.advance()
		right, err := p.iff()
		if err != nil {
			return nil, err
		}
		return &Formula{Op: OpIff, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *folParser) imp() (*Formula, error) {
	left, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.at(tokImp) {
		p.advance()
		right, err := p.imp()
		if err != nil {
			return nil, err
		}
		return &Formula{Op: OpImp, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *folParser) or() (*Formula, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.at(tokOr) {
		p.advance()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = &Formula{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *folParser) and() (*Formula, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.at(tokAnd) {
		p.advance()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &Formula{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *folParser) unary() (*Formula, error) {
	switch {
	case p.at(tokNot):
		p.advance()
		sub, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Formula{Op: OpNot, Sub: sub}, nil
	case p.at(tokIdent) && (p.cur().text == "all" || p.cur().text == "forall" || p.cur().text == "exists"):
		return p.quantifier()
	default:
		return p.atomOrGroup()
	}
}

func (p *folParser) quantifier() (*Formula, error) {
	op := OpAll
	if p.cur().text == "exists" {
		op = OpExists
	}
	p.advance()

	var vars []string
	for p.at(tokIdent) {
		vars = append(vars, p.cur().text)
		p.advance()
	}
	if len(vars) == 0 {
		return nil, fmt.Errorf("expected variable after quantifier, found %s", p.cur())
	}
	if _, err := p.expect(tokDot, "'.'"); err != nil {
		return nil, err
	}
	body, err := p.formula()
	if err != nil {
		return nil, err
	}
	for i := len(vars) - 1; i >= 0; i-- {
		body = &Formula{Op: op, Var: vars[i], Sub: body}
	}
	return body, nil
}

func (p *folParser) atomOrGroup() (*Formula, error) {
	if p.at(tokLParen) {
		p.advance()
		f, err := p.formula()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return f, nil
	}

	name, err := p.expect(tokIdent, "an atom")
	if err != nil {
		return nil, err
	}
	atom := &Formula{Op: OpAtom, Pred: name.text}
	if p.at(tokLParen) {
		p.advance()
		for {
			t, err := p.term()
			if err != nil {
				return nil, err
			}
			atom.Args = append(atom.Args, t)
			if p.at(tokComma) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
	}
	return atom, nil
}

func (p *folParser) term() (Term, error) {
	name, err := p.expect(tokIdent, "a term")
	if err != nil {
		return Term{}, err
	}
	t := Term{Name: name.text}
	if p.at(tokLParen) {
		p.advance()
		for {
			arg, err := p.term()
			if err != nil {
				return Term{}, err
			}
			t.Args = append(t.Args, arg)
			if p.at(tokComma) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return Term{}, err
		}
	}
	return t, nil
}
