package argdown

import (
	"fmt"
	"regexp"
	"strings"
)

// ParseError reports a syntax problem with its 1-based line number.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("argdown syntax error on line %d: %s", e.Line, e.Msg)
}

var (
	pcsLineRe   = regexp.MustCompile(`^\(([^)\s]+)\)\s*(.*)$`)
	claimLineRe = regexp.MustCompile(`^\[([^\[\]]+)\]\s*(?::\s*(.*))?$`)
	argLineRe   = regexp.MustCompile(`^<([^<>]+)>\s*(?::\s*(.*))?$`)
	ruleLineRe  = regexp.MustCompile(`^-{3,}\s*(\{.*\})?\s*$`)
	blockCmtRe  = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// Parse reads Argdown source into a Document. Parsing the same source twice
// yields equal documents.
func Parse(src string) (*Document, error) {
	p := &parser{
		doc:      &Document{},
		props:    make(map[string]*Proposition),
		args:     make(map[string]*Argument),
		relIndex: make(map[string]*Relation),
	}
	return p.run(src)
}

type nodeFrame struct {
	indent int
	ref    NodeRef
}

type parser struct {
	doc      *Document
	props    map[string]*Proposition
	args     map[string]*Argument
	relIndex map[string]*Relation

	stack  []nodeFrame
	pcsArg *Argument

	// pendingInference holds the separator data awaiting the next pcs line;
	// pendingLine remembers where the separator appeared for diagnostics.
	pendingInference map[string]any
	pendingLine      int

	// Continuation targets: a bare text line directly below a statement
	// extends that statement's latest text or gist.
	lastProp *Proposition
	lastArg  *Argument

	autoProps int
	autoArgs  int

	// Multi-line inference separator state.
	inRule    bool
	ruleData  map[string]any
	ruleStart int
}

func (p *parser) run(src string) (*Document, error) {
	src = blockCmtRe.ReplaceAllString(src, "")
	lines := strings.Split(src, "\n")

	for i, raw := range lines {
		if err := p.line(i+1, stripLineComment(raw)); err != nil {
			return nil, err
		}
	}
	if p.inRule {
		return nil, &ParseError{Line: p.ruleStart, Msg: "inference separator '--' is never closed"}
	}
	if p.pendingInference != nil {
		return nil, &ParseError{Line: p.pendingLine, Msg: "inference separator must be followed by a conclusion"}
	}
	return p.doc, nil
}

func (p *parser) line(lineNo int, raw string) error {
	indent, content := measureIndent(raw)
	content = strings.TrimRight(content, " \t")

	if content == "" {
		p.lastProp, p.lastArg = nil, nil
		return nil
	}

	if p.inRule {
		return p.ruleBody(lineNo, content)
	}

	switch {
	case strings.HasPrefix(content, "("):
		if m := pcsLineRe.FindStringSubmatch(content); m != nil {
			return p.pcsLine(lineNo, indent, m[1], m[2])
		}
	case ruleLineRe.MatchString(content):
		m := ruleLineRe.FindStringSubmatch(content)
		return p.separator(lineNo, m[1])
	case content == "--":
		if err := p.requireNoPending(); err != nil {
			return err
		}
		p.inRule = true
		p.ruleData = map[string]any{}
		p.ruleStart = lineNo
		p.lastProp, p.lastArg = nil, nil
		return nil
	case strings.HasPrefix(content, "--") && strings.HasSuffix(content, "--") && len(content) > 4:
		inner := strings.TrimSpace(content[2 : len(content)-2])
		_, data, err := splitTrailingData(inner)
		if err != nil {
			return &ParseError{Line: lineNo, Msg: err.Error()}
		}
		return p.separator(lineNo, data)
	}

	if sym, rest, ok := relationSymbol(content); ok {
		return p.relationLine(lineNo, indent, sym, rest)
	}

	if strings.HasPrefix(content, "[") || strings.HasPrefix(content, "<") {
		text, data, err := splitTrailingData(content)
		if err != nil {
			return &ParseError{Line: lineNo, Msg: err.Error()}
		}
		if m := claimLineRe.FindStringSubmatch(text); m != nil {
			return p.claimLine(lineNo, indent, m[1], m[2], data)
		}
		if m := argLineRe.FindStringSubmatch(text); m != nil {
			return p.argumentLine(lineNo, indent, m[1], m[2], data)
		}
	}

	return p.textLine(lineNo, indent, content)
}

// stripLineComment removes a // comment unless it sits inside quotes.
func stripLineComment(line string) string {
	var inSingle, inDouble bool
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inDouble:
			if r == '\\' {
				i++
			} else if r == '"' {
				inDouble = false
			}
		case inSingle:
			if r == '\'' {
				inSingle = false
			}
		case r == '"':
			inDouble = true
		case r == '\'':
			inSingle = true
		case r == '/':
			if i+1 < len(runes) && runes[i+1] == '/' {
				return string(runes[:i])
			}
		}
	}
	return line
}

// measureIndent counts leading whitespace, expanding tabs to four columns.
func measureIndent(line string) (int, string) {
	width := 0
	for i, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width, line[i:]
		}
	}
	return width, ""
}

// relationSymbol matches a leading relation operator. Two-character forms
// are checked before their one-character prefixes.
func relationSymbol(content string) (string, string, bool) {
	for _, sym := range []string{"><", "<+", "+>", "<-", "->", "+", "-"} {
		if strings.HasPrefix(content, sym) {
			rest := strings.TrimSpace(content[len(sym):])
			return sym, rest, true
		}
	}
	return "", "", false
}

func (p *parser) requireNoPending() error {
	if p.pendingInference != nil {
		return &ParseError{Line: p.pendingLine, Msg: "inference separator must be followed by a conclusion"}
	}
	return nil
}

func (p *parser) separator(lineNo int, dataStr string) error {
	if err := p.requireNoPending(); err != nil {
		return err
	}
	data, err := parseInlineData(dataStr)
	if err != nil {
		return &ParseError{Line: lineNo, Msg: err.Error()}
	}
	p.pendingInference = data
	p.pendingLine = lineNo
	p.lastProp, p.lastArg = nil, nil
	return nil
}

func (p *parser) ruleBody(lineNo int, content string) error {
	if content == "--" {
		p.inRule = false
		p.pendingInference = p.ruleData
		p.pendingLine = lineNo
		p.ruleData = nil
		return nil
	}
	_, dataStr, err := splitTrailingData(content)
	if err != nil {
		return &ParseError{Line: lineNo, Msg: err.Error()}
	}
	if dataStr != "" {
		data, err := parseInlineData(dataStr)
		if err != nil {
			return &ParseError{Line: lineNo, Msg: err.Error()}
		}
		p.ruleData = mergeData(p.ruleData, data)
	}
	return nil
}

func (p *parser) pcsLine(lineNo, indent int, label, rest string) error {
	text, dataStr, err := splitTrailingData(rest)
	if err != nil {
		return &ParseError{Line: lineNo, Msg: err.Error()}
	}
	data, err := parseInlineData(dataStr)
	if err != nil {
		return &ParseError{Line: lineNo, Msg: err.Error()}
	}
	text = strings.TrimSpace(text)

	var prop *Proposition
	if m := claimLineRe.FindStringSubmatch(text); m != nil {
		prop = p.claim(m[1])
		if t := strings.TrimSpace(m[2]); t != "" {
			prop.Texts = append(prop.Texts, t)
		}
	} else if text != "" {
		prop = p.anonymousClaim()
		prop.Texts = append(prop.Texts, text)
	} else {
		return &ParseError{Line: lineNo, Msg: fmt.Sprintf("pcs step (%s) carries neither a label nor a text", label)}
	}
	prop.Data = mergeData(prop.Data, data)

	if p.pcsArg == nil {
		p.pcsArg = p.anonymousArgument()
	}
	item := PCSItem{Label: label, PropositionLabel: prop.Label}
	if p.pendingInference != nil {
		item.IsConclusion = true
		item.InferenceData = p.pendingInference
		p.pendingInference = nil
	}
	p.pcsArg.PCS = append(p.pcsArg.PCS, item)

	p.stack = []nodeFrame{{indent: indent, ref: NodeRef{Label: prop.Label, Kind: ClaimNode}}}
	p.lastProp, p.lastArg = prop, nil
	return nil
}

func (p *parser) claimLine(lineNo, indent int, label, text, dataStr string) error {
	if err := p.requireNoPending(); err != nil {
		return err
	}
	data, err := parseInlineData(dataStr)
	if err != nil {
		return &ParseError{Line: lineNo, Msg: err.Error()}
	}
	prop := p.claim(label)
	if t := strings.TrimSpace(text); t != "" {
		prop.Texts = append(prop.Texts, t)
	}
	prop.Data = mergeData(prop.Data, data)

	p.reframe(indent, NodeRef{Label: prop.Label, Kind: ClaimNode})
	if indent == 0 {
		p.pcsArg = nil
	}
	p.lastProp, p.lastArg = prop, nil
	return nil
}

func (p *parser) argumentLine(lineNo, indent int, label, gist, dataStr string) error {
	if err := p.requireNoPending(); err != nil {
		return err
	}
	data, err := parseInlineData(dataStr)
	if err != nil {
		return &ParseError{Line: lineNo, Msg: err.Error()}
	}
	arg := p.argument(label)
	if g := strings.TrimSpace(gist); g != "" {
		arg.Gists = append(arg.Gists, g)
	}
	arg.Data = mergeData(arg.Data, data)

	p.reframe(indent, NodeRef{Label: arg.Label, Kind: ArgumentNode})
	if indent == 0 {
		p.pcsArg = arg
	}
	p.lastProp, p.lastArg = nil, arg
	return nil
}

func (p *parser) relationLine(lineNo, indent int, sym, rest string) error {
	if err := p.requireNoPending(); err != nil {
		return err
	}
	parent, ok := p.parentFor(indent)
	if !ok {
		return &ParseError{Line: lineNo, Msg: fmt.Sprintf("relation '%s' has no parent statement", sym)}
	}

	text, dataStr, err := splitTrailingData(rest)
	if err != nil {
		return &ParseError{Line: lineNo, Msg: err.Error()}
	}
	data, err := parseInlineData(dataStr)
	if err != nil {
		return &ParseError{Line: lineNo, Msg: err.Error()}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return &ParseError{Line: lineNo, Msg: fmt.Sprintf("relation '%s' has no target", sym)}
	}

	target, err := p.relationTarget(lineNo, text, data)
	if err != nil {
		return err
	}

	switch sym {
	case "<+", "+":
		p.addRelation(target, parent, Support, Sketched)
	case "+>":
		p.addRelation(parent, target, Support, Sketched)
	case "<-", "-":
		p.addRelation(target, parent, Attack, Sketched)
	case "->":
		p.addRelation(parent, target, Attack, Sketched)
	case "><":
		p.addRelation(parent, target, Contradict, Axiomatic)
	}

	p.stack = append(p.stack, nodeFrame{indent: indent, ref: target})
	return nil
}

func (p *parser) relationTarget(lineNo int, text string, data map[string]any) (NodeRef, error) {
	if m := claimLineRe.FindStringSubmatch(text); m != nil {
		prop := p.claim(m[1])
		if t := strings.TrimSpace(m[2]); t != "" {
			prop.Texts = append(prop.Texts, t)
		}
		prop.Data = mergeData(prop.Data, data)
		p.lastProp, p.lastArg = prop, nil
		return NodeRef{Label: prop.Label, Kind: ClaimNode}, nil
	}
	if m := argLineRe.FindStringSubmatch(text); m != nil {
		arg := p.argument(m[1])
		if g := strings.TrimSpace(m[2]); g != "" {
			arg.Gists = append(arg.Gists, g)
		}
		arg.Data = mergeData(arg.Data, data)
		p.lastProp, p.lastArg = nil, arg
		return NodeRef{Label: arg.Label, Kind: ArgumentNode}, nil
	}
	prop := p.anonymousClaim()
	prop.Texts = append(prop.Texts, text)
	prop.Data = mergeData(prop.Data, data)
	p.lastProp, p.lastArg = prop, nil
	return NodeRef{Label: prop.Label, Kind: ClaimNode}, nil
}

func (p *parser) textLine(lineNo, indent int, content string) error {
	if err := p.requireNoPending(); err != nil {
		return err
	}
	text, dataStr, err := splitTrailingData(content)
	if err != nil {
		return &ParseError{Line: lineNo, Msg: err.Error()}
	}
	data, err := parseInlineData(dataStr)
	if err != nil {
		return &ParseError{Line: lineNo, Msg: err.Error()}
	}
	text = strings.TrimSpace(text)

	// A bare line directly below a statement continues its text.
	if p.lastProp != nil {
		p.lastProp.extendText(text)
		p.lastProp.Data = mergeData(p.lastProp.Data, data)
		return nil
	}
	if p.lastArg != nil {
		p.lastArg.extendGist(text)
		p.lastArg.Data = mergeData(p.lastArg.Data, data)
		return nil
	}

	prop := p.anonymousClaim()
	if text != "" {
		prop.Texts = append(prop.Texts, text)
	}
	prop.Data = mergeData(prop.Data, data)
	p.reframe(indent, NodeRef{Label: prop.Label, Kind: ClaimNode})
	if indent == 0 {
		p.pcsArg = nil
	}
	p.lastProp, p.lastArg = prop, nil
	return nil
}

func (p *Proposition) extendText(text string) {
	if text == "" {
		return
	}
	if len(p.Texts) == 0 {
		p.Texts = append(p.Texts, text)
		return
	}
	p.Texts[len(p.Texts)-1] += " " + text
}

func (a *Argument) extendGist(gist string) {
	if gist == "" {
		return
	}
	if len(a.Gists) == 0 {
		a.Gists = append(a.Gists, gist)
		return
	}
	a.Gists[len(a.Gists)-1] += " " + gist
}

// parentFor pops frames at or below the given indentation and returns the
// nesting parent.
func (p *parser) parentFor(indent int) (NodeRef, bool) {
	for len(p.stack) > 0 && p.stack[len(p.stack)-1].indent >= indent {
		p.stack = p.stack[:len(p.stack)-1]
	}
	if len(p.stack) == 0 {
		return NodeRef{}, false
	}
	return p.stack[len(p.stack)-1].ref, true
}

// reframe resets the nesting stack for a statement line at the given indent.
func (p *parser) reframe(indent int, ref NodeRef) {
	for len(p.stack) > 0 && p.stack[len(p.stack)-1].indent >= indent {
		p.stack = p.stack[:len(p.stack)-1]
	}
	p.stack = append(p.stack, nodeFrame{indent: indent, ref: ref})
}

func (p *parser) claim(label string) *Proposition {
	if prop, ok := p.props[label]; ok {
		return prop
	}
	prop := &Proposition{Label: label}
	p.props[label] = prop
	p.doc.Propositions = append(p.doc.Propositions, prop)
	return prop
}

func (p *parser) anonymousClaim() *Proposition {
	p.autoProps++
	label := fmt.Sprintf("untitled-%d", p.autoProps)
	prop := &Proposition{Label: label, AutoLabel: true}
	p.props[label] = prop
	p.doc.Propositions = append(p.doc.Propositions, prop)
	return prop
}

func (p *parser) argument(label string) *Argument {
	if arg, ok := p.args[label]; ok {
		return arg
	}
	arg := &Argument{Label: label}
	p.args[label] = arg
	p.doc.Arguments = append(p.doc.Arguments, arg)
	return arg
}

func (p *parser) anonymousArgument() *Argument {
	p.autoArgs++
	label := fmt.Sprintf("untitled-argument-%d", p.autoArgs)
	arg := &Argument{Label: label, AutoLabel: true}
	p.args[label] = arg
	p.doc.Arguments = append(p.doc.Arguments, arg)
	return arg
}

func (p *parser) addRelation(source, target NodeRef, valence Valence, dialectics Dialectics) {
	key := fmt.Sprintf("%d:%s|%d:%s|%d", source.Kind, source.Label, target.Kind, target.Label, valence)
	if rel, ok := p.relIndex[key]; ok {
		rel.Dialectics |= dialectics
		return
	}
	rel := &Relation{Source: source, Target: target, Valence: valence, Dialectics: dialectics}
	p.relIndex[key] = rel
	p.doc.Relations = append(p.doc.Relations, rel)
}
