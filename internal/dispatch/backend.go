package dispatch

import (
	"context"
	"sync"

	"github.com/debatelab/argdown-feedback-sub001/internal/model"
)

// Backend is the client-side abstraction over a verification service. The
// local backend calls the dispatcher in-process; the remote backend speaks
// the HTTP protocol. Both expose identical sync and async entry points.
type Backend interface {
	VerifySync(ctx context.Context, verifier string, req Request) (*Response, error)
	VerifyAsync(ctx context.Context, verifier string, req Request) (*Response, error)
	Verifiers(ctx context.Context) ([]model.VerifierInfo, error)
	VerifierInfo(ctx context.Context, verifier string) (model.VerifierInfo, error)
	Close(ctx context.Context) error
}

// LocalBackend runs verifications on an in-process dispatcher.
type LocalBackend struct {
	svc *Service

	closeOnce sync.Once
	closeErr  error
}

// NewLocalBackend wraps a dispatcher service.
func NewLocalBackend(svc *Service) *LocalBackend {
	return &LocalBackend{svc: svc}
}

// VerifySync implements Backend.
func (b *LocalBackend) VerifySync(ctx context.Context, verifier string, req Request) (*Response, error) {
	return b.svc.VerifySync(ctx, verifier, req)
}

// VerifyAsync implements Backend.
func (b *LocalBackend) VerifyAsync(ctx context.Context, verifier string, req Request) (*Response, error) {
	return b.svc.VerifyAsync(ctx, verifier, req)
}

// Verifiers implements Backend.
func (b *LocalBackend) Verifiers(_ context.Context) ([]model.VerifierInfo, error) {
	return b.svc.Verifiers(), nil
}

// VerifierInfo implements Backend.
func (b *LocalBackend) VerifierInfo(_ context.Context, verifier string) (model.VerifierInfo, error) {
	return b.svc.VerifierInfo(verifier)
}

// Close shuts the underlying service down once; repeated calls return the
// first outcome.
func (b *LocalBackend) Close(ctx context.Context) error {
	b.closeOnce.Do(func() {
		b.closeErr = b.svc.Close(ctx)
	})
	return b.closeErr
}
