package dispatch

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/debatelab/argdown-feedback-sub001/internal/logger"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/registry"
	errs "github.com/debatelab/argdown-feedback-sub001/pkg/errors"
)

// Service validates, builds, and runs verification requests against the
// registry. One Service owns one worker pool; Close joins it.
type Service struct {
	reg     *registry.Registry
	log     *logger.Logger
	opts    Options
	pool    *workerPool
	metrics *Metrics
}

// NewService constructs the dispatcher and starts its worker pool.
func NewService(reg *registry.Registry, log *logger.Logger, opts Options) (*Service, error) {
	opts = opts.normalized()
	if err := optionsValidator().Struct(opts); err != nil {
		return nil, fmt.Errorf("dispatch options: %w", err)
	}
	s := &Service{
		reg:     reg,
		log:     log.WithComponent("dispatch"),
		opts:    opts,
		metrics: newMetrics(),
	}
	s.pool = newWorkerPool(opts.MaxWorkers, opts.QueueSize, s.metrics.setQueueDepth)
	return s, nil
}

// Metrics exposes the dispatcher's Prometheus collectors.
func (s *Service) Metrics() *Metrics { return s.metrics }

// Verifiers lists the registered verifier descriptions in registration
// order.
func (s *Service) Verifiers() []model.VerifierInfo { return s.reg.Infos() }

// VerifierInfo returns the description of one verifier.
func (s *Service) VerifierInfo(name string) (model.VerifierInfo, error) {
	b, ok := s.reg.Get(name)
	if !ok {
		return model.VerifierInfo{}, errs.NewVerifierNotFoundError(name, s.reg.Names())
	}
	return b.Info(), nil
}

// Listing returns the grouped verifier names plus their descriptions.
func (s *Service) Listing() VerifierListing {
	return VerifierListing{Groups: s.reg.Groups(), Verifiers: s.reg.Infos()}
}

// Close stops the worker pool. Queued work is drained first.
func (s *Service) Close(ctx context.Context) error {
	return s.pool.shutdown(ctx)
}

// VerifySync runs one verification request to completion on the calling
// goroutine. Handler findings are reported inside the response; only
// envelope-level problems (unknown verifier, bad config, bad filters, broken
// pipeline) surface as errors.
func (s *Service) VerifySync(ctx context.Context, name string, req Request) (resp *Response, err error) {
	start := time.Now()
	log := s.log.WithRequestID(uuid.NewString()).WithVerifier(name)

	defer func() {
		if r := recover(); r != nil {
			err = errs.NewVerificationError(name, fmt.Errorf("panic: %v", r))
			resp = nil
		}
		if err != nil {
			s.metrics.observe(name, outcomeError, time.Since(start))
			log.Error(err, "verification failed")
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, errs.NewVerificationError(name, err)
	}

	b, ok := s.reg.Get(name)
	if !ok {
		return nil, errs.NewVerifierNotFoundError(name, s.reg.Names())
	}

	if unknown := b.ValidateConfig(req.Config); len(unknown) > 0 {
		return nil, errs.NewInvalidConfigError(name, unknown)
	}

	spec, err := model.DecodeFilterSpec(req.Config[model.OptionFilters])
	if err != nil {
		return nil, errs.NewFilteringError("", err)
	}
	if bad := b.ValidateFilters(spec.Roles()); len(bad) > 0 {
		return nil, errs.NewInvalidFilterError(name, bad)
	}

	cfg, badTyped := model.ResolveConfig(req.Config, b.Info().ConfigOptions)
	if len(badTyped) > 0 {
		return nil, errs.NewInvalidConfigError(name, badTyped)
	}

	root, err := b.Build(spec, cfg)
	if err != nil {
		return nil, asServiceError(name, err)
	}

	vreq := model.NewRequest(req.Inputs, req.Source, cfg)
	if err := root.Handle(vreq); err != nil {
		return nil, asServiceError(name, err)
	}

	elapsed := time.Since(start)
	resp = buildResponse(name, vreq, elapsed)

	outcome := outcomeValid
	if !resp.IsValid {
		outcome = outcomeInvalid
	}
	s.metrics.observe(name, outcome, elapsed)
	log.Debug("verification finished")
	return resp, nil
}

// VerifyAsync runs the request on the worker pool and waits for the result
// or the configured deadline. On timeout the worker finishes undisturbed and
// its result is discarded.
func (s *Service) VerifyAsync(ctx context.Context, name string, req Request) (*Response, error) {
	type outcome struct {
		resp *Response
		err  error
	}
	done := make(chan outcome, 1)

	workerCtx := context.WithoutCancel(ctx)
	if err := s.pool.enqueue(func() {
		resp, err := s.VerifySync(workerCtx, name, req)
		done <- outcome{resp: resp, err: err}
	}); err != nil {
		return nil, err
	}

	timer := time.NewTimer(s.opts.Timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.resp, out.err
	case <-timer.C:
		return nil, errs.NewTimeoutError(name, s.opts.Timeout)
	case <-ctx.Done():
		return nil, errs.NewVerificationError(name, ctx.Err())
	}
}

// asServiceError passes typed errors through and wraps everything else as a
// VerificationError.
func asServiceError(verifier string, err error) error {
	var svcErr errs.ServiceError
	if stderrors.As(err, &svcErr) {
		return err
	}
	return errs.NewVerificationError(verifier, err)
}
