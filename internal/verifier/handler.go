// Package verifier contains the handler framework every check family builds
// on: the Handler contract, the fixed outer execution routine, composite
// chaining, and item selection.
package verifier

import (
	"fmt"

	"github.com/debatelab/argdown-feedback-sub001/internal/logger"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
)

// Handler is one synchronous pipeline step operating on the shared request.
type Handler interface {
	Name() string
	Handle(req *model.Request) error
}

// Run executes a handler under the fixed outer routine: it skips execution
// once the request has stopped processing, records the handler as executed,
// and converts returned errors and panics into invalid results so the chain
// keeps running.
func Run(h Handler, req *model.Request, log *logger.Logger) {
	if req == nil || !req.ContinueProcessing {
		return
	}
	req.MarkExecuted(h.Name())

	defer func() {
		if r := recover(); r != nil {
			log.Error(fmt.Errorf("%v", r), "handler panicked")
			req.AddResult(model.InvalidResult(h.Name(), fmt.Sprintf("Processing error: %v", r)))
		}
	}()

	if err := h.Handle(req); err != nil {
		log.Error(err, "handler failed")
		req.AddResult(model.InvalidResult(h.Name(), fmt.Sprintf("Processing error: %v", err)))
	}
}

// Composite is a named ordered handler group. Children run sequentially; the
// chain breaks as soon as a child stops the request.
type Composite struct {
	name     string
	children []Handler
	log      *logger.Logger
}

// NewComposite builds a composite handler from the given children.
func NewComposite(name string, children ...Handler) *Composite {
	return &Composite{name: name, children: children}
}

// WithLogger attaches a logger used for per-child execution records and
// returns the composite.
func (c *Composite) WithLogger(log *logger.Logger) *Composite {
	c.log = log
	return c
}

// Append adds children to the end of the chain.
func (c *Composite) Append(children ...Handler) *Composite {
	c.children = append(c.children, children...)
	return c
}

// Len returns the number of direct children.
func (c *Composite) Len() int { return len(c.children) }

// Name implements Handler.
func (c *Composite) Name() string { return c.name }

// Handle implements Handler by running each child in order.
func (c *Composite) Handle(req *model.Request) error {
	for _, child := range c.children {
		if !req.ContinueProcessing {
			break
		}
		Run(child, req, c.log)
	}
	return nil
}

// ItemCheck evaluates one parsed item at a time, recording a Result per
// matched item. It is the shape of almost every family check.
type ItemCheck struct {
	CheckName string
	Pred      ItemPredicate
	Eval      func(req *model.Request, item *model.PrimaryData) model.Result
}

// Name implements Handler.
func (c *ItemCheck) Name() string { return c.CheckName }

// Handle implements Handler.
func (c *ItemCheck) Handle(req *model.Request) error {
	EachItem(req, c.Pred, func(item *model.PrimaryData) {
		req.AddResult(c.Eval(req, item))
	})
	return nil
}

// Func adapts a plain function to a Handler.
type Func struct {
	HandlerName string
	Fn          func(req *model.Request) error
}

// Name implements Handler.
func (f *Func) Name() string { return f.HandlerName }

// Handle implements Handler.
func (f *Func) Handle(req *model.Request) error { return f.Fn(req) }
