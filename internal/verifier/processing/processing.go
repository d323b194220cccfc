// Package processing holds the pipeline stage every verifier starts with:
// extracting fenced code blocks into primary data items and parsing them
// into typed artifacts.
package processing

import (
	"fmt"

	"github.com/debatelab/argdown-feedback-sub001/internal/annotation"
	"github.com/debatelab/argdown-feedback-sub001/internal/argdown"
	"github.com/debatelab/argdown-feedback-sub001/internal/extract"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
)

// Handler names of the processing stage.
const (
	CompositeName     = "processing"
	ExtractorName     = "processing.fenced_code_block_extractor"
	ArgdownParserName = "processing.argdown_parser"
	XMLParserName     = "processing.xml_parser"
)

// FallbackID is the id of the item synthesized when the input carries no
// fenced code block at all.
const FallbackID = "input_0"

// FencedCodeBlockExtractor turns the raw inputs into PrimaryData items, one
// per fenced block with a known language tag. Ids are `<dtype>_<index>` with
// a per-dtype counter. Inputs without any usable block yield a single
// argdown item holding the whole input.
type FencedCodeBlockExtractor struct{}

// Name implements verifier.Handler.
func (FencedCodeBlockExtractor) Name() string { return ExtractorName }

// Handle implements verifier.Handler.
func (FencedCodeBlockExtractor) Handle(req *model.Request) error {
	counters := make(map[model.DType]int)
	for _, block := range extract.Blocks(req.Inputs) {
		dtype, ok := model.ParseDType(block.Lang)
		if !ok {
			continue
		}
		item := &model.PrimaryData{
			ID:          fmt.Sprintf("%s_%d", dtype, counters[dtype]),
			DType:       dtype,
			CodeSnippet: block.Body,
			Metadata:    block.Metadata,
		}
		counters[dtype]++
		req.Items = append(req.Items, item)
	}

	if len(req.Items) == 0 {
		req.Items = append(req.Items, &model.PrimaryData{
			ID:          FallbackID,
			DType:       model.DTypeArgdown,
			CodeSnippet: req.Inputs,
			Metadata:    model.NewMetadata(),
		})
	}
	return nil
}

// ArgdownParser parses every argdown item's snippet into a typed document.
type ArgdownParser struct{}

// Name implements verifier.Handler.
func (ArgdownParser) Name() string { return ArgdownParserName }

// Handle implements verifier.Handler.
func (ArgdownParser) Handle(req *model.Request) error {
	items := req.ItemsOf(model.DTypeArgdown)
	if len(items) == 0 {
		req.AddResult(model.InvalidResult(ArgdownParserName, "No fenced argdown block"))
		return nil
	}
	for _, item := range items {
		doc, err := argdown.Parse(item.CodeSnippet)
		if err != nil {
			req.AddResult(model.InvalidResult(
				ArgdownParserName,
				fmt.Sprintf("Failed to parse argdown snippet: %v", err),
				item.ID,
			))
			continue
		}
		item.Data = doc
	}
	return nil
}

// XMLParser parses every xml item's snippet into an annotation document.
type XMLParser struct{}

// Name implements verifier.Handler.
func (XMLParser) Name() string { return XMLParserName }

// Handle implements verifier.Handler.
func (XMLParser) Handle(req *model.Request) error {
	items := req.ItemsOf(model.DTypeXML)
	if len(items) == 0 {
		req.AddResult(model.InvalidResult(XMLParserName, "No fenced xml block"))
		return nil
	}
	for _, item := range items {
		doc, err := annotation.Parse(item.CodeSnippet)
		if err != nil {
			req.AddResult(model.InvalidResult(
				XMLParserName,
				fmt.Sprintf("Failed to parse annotation snippet: %v", err),
				item.ID,
			))
			continue
		}
		item.Data = doc
	}
	return nil
}

// Default assembles the processing composite for a verifier's input types:
// the extractor followed by the parser of each requested artifact type, in
// declared order.
func Default(inputTypes ...model.DType) *verifier.Composite {
	comp := verifier.NewComposite(CompositeName, FencedCodeBlockExtractor{})
	seen := make(map[model.DType]bool)
	for _, dtype := range inputTypes {
		if seen[dtype] {
			continue
		}
		seen[dtype] = true
		switch dtype {
		case model.DTypeArgdown:
			comp.Append(ArgdownParser{})
		case model.DTypeXML:
			comp.Append(XMLParser{})
		}
	}
	return comp
}

// HasArgdown returns the existence check behind the has_argdown verifier:
// at least one argdown item must parse to a document with content.
func HasArgdown() verifier.Handler {
	return &verifier.Func{HandlerName: "has_argdown.existence", Fn: func(req *model.Request) error {
		var refs []string
		for _, item := range req.ItemsOf(model.DTypeArgdown) {
			doc, ok := item.Data.(*argdown.Document)
			if !ok || doc == nil {
				continue
			}
			if len(doc.Arguments)+len(doc.Propositions) == 0 {
				continue
			}
			refs = append(refs, item.ID)
		}
		if len(refs) == 0 {
			req.AddResult(model.InvalidResult("has_argdown.existence", "No argdown content found"))
			return nil
		}
		req.AddResult(model.ValidResult("has_argdown.existence", refs...))
		return nil
	}}
}

// HasAnnotations returns the existence check behind the has_annotations
// verifier: at least one xml item must parse to a document with at least
// one annotation element.
func HasAnnotations() verifier.Handler {
	return &verifier.Func{HandlerName: "has_annotations.existence", Fn: func(req *model.Request) error {
		var refs []string
		for _, item := range req.ItemsOf(model.DTypeXML) {
			doc, ok := item.Data.(*annotation.Document)
			if !ok || doc == nil {
				continue
			}
			if len(doc.Elements) == 0 {
				continue
			}
			refs = append(refs, item.ID)
		}
		if len(refs) == 0 {
			req.AddResult(model.InvalidResult("has_annotations.existence", "No annotation elements found"))
			return nil
		}
		req.AddResult(model.ValidResult("has_annotations.existence", refs...))
		return nil
	}}
}
