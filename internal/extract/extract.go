// Package extract pulls fenced code blocks out of a raw input blob and
// parses their brace-delimited metadata headers.
package extract

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/debatelab/argdown-feedback-sub001/internal/model"
)

// Block is one fenced code block found in the input. Body holds the fenced
// content verbatim, excluding the fence lines themselves.
type Block struct {
	// Lang is the language tag on the opening fence, empty when absent.
	Lang string
	// Header is the raw text following the language tag, typically a
	// brace-delimited metadata list.
	Header string
	// Body is the fenced content.
	Body string
	// Metadata holds the parsed header pairs in header order.
	Metadata *model.Metadata
}

// Blocks scans inputs for fenced code blocks and returns them in document
// order. Inputs without any fenced block yield an empty slice.
func Blocks(inputs string) []Block {
	src := []byte(inputs)
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var info string
		if fcb.Info != nil {
			info = string(fcb.Info.Segment.Value(src))
		}
		lang, header := splitInfo(info)

		var body strings.Builder
		lines := fcb.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			body.Write(seg.Value(src))
		}

		blocks = append(blocks, Block{
			Lang:     lang,
			Header:   header,
			Body:     body.String(),
			Metadata: ParseHeader(header),
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

// splitInfo separates the language tag from the rest of the info string.
func splitInfo(info string) (lang, header string) {
	info = strings.TrimSpace(info)
	if info == "" {
		return "", ""
	}
	if idx := strings.IndexFunc(info, func(r rune) bool { return r == ' ' || r == '\t' || r == '{' }); idx >= 0 {
		return info[:idx], strings.TrimSpace(info[idx:])
	}
	return info, ""
}

// ParseHeader reads a brace-delimited metadata header of the form
// {key="value" key2="value2"} into an ordered Metadata. Values are
// double-quoted per the header grammar; unquoted tokens are accepted
// leniently up to the next whitespace or closing brace. A missing or
// malformed header yields empty Metadata.
func ParseHeader(header string) *model.Metadata {
	meta := model.NewMetadata()
	header = strings.TrimSpace(header)
	if len(header) < 2 || header[0] != '{' {
		return meta
	}
	if end := strings.LastIndexByte(header, '}'); end > 0 {
		header = header[1:end]
	} else {
		header = header[1:]
	}

	i := 0
	for i < len(header) {
		// Skip separators between pairs.
		for i < len(header) && (header[i] == ' ' || header[i] == '\t' || header[i] == ',') {
			i++
		}
		if i >= len(header) {
			break
		}

		keyStart := i
		for i < len(header) && header[i] != '=' && header[i] != ' ' && header[i] != '\t' && header[i] != ',' {
			i++
		}
		key := header[keyStart:i]
		if key == "" {
			i++
			continue
		}

		if i >= len(header) || header[i] != '=' {
			meta.Set(key, "")
			continue
		}
		i++ // consume '='

		var value string
		if i < len(header) && header[i] == '"' {
			i++
			valueStart := i
			for i < len(header) && header[i] != '"' {
				i++
			}
			value = header[valueStart:i]
			if i < len(header) {
				i++ // consume closing quote
			}
		} else {
			valueStart := i
			for i < len(header) && header[i] != ' ' && header[i] != '\t' && header[i] != ',' {
				i++
			}
			value = header[valueStart:i]
		}
		meta.Set(key, value)
	}
	return meta
}
