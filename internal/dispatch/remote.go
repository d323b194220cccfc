package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/debatelab/argdown-feedback-sub001/internal/logger"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	errs "github.com/debatelab/argdown-feedback-sub001/pkg/errors"
)

// Defaults for the remote backend.
const (
	DefaultRemoteSyncTimeout  = 35 * time.Second
	DefaultRemoteAsyncTimeout = 65 * time.Second
	DefaultRetryBudget        = 10 * time.Second
)

// RemoteOptions configures the HTTP backend.
type RemoteOptions struct {
	// BaseURL is the service root, e.g. "http://localhost:8000".
	BaseURL string `validate:"required,url"`
	// SyncTimeout bounds one synchronous verification attempt.
	SyncTimeout time.Duration
	// AsyncTimeout bounds one asynchronous verification attempt. It should
	// exceed the server-side dispatch timeout.
	AsyncTimeout time.Duration
	// RetryBudget caps the total time spent retrying transport failures.
	// Zero disables retries.
	RetryBudget time.Duration
}

// RemoteBackend speaks the verification HTTP protocol. Transport-level
// failures are retried with exponential backoff inside the budget; responses
// carrying an error envelope are decoded into the typed taxonomy and never
// retried.
type RemoteBackend struct {
	baseURL     string
	syncClient  *http.Client
	asyncClient *http.Client
	budget      time.Duration
	log         *logger.Logger

	closeOnce sync.Once
}

// NewRemoteBackend validates the options and builds the backend with one
// connection pool per entry point.
func NewRemoteBackend(opts RemoteOptions, log *logger.Logger) (*RemoteBackend, error) {
	if err := optionsValidator().Struct(opts); err != nil {
		return nil, fmt.Errorf("remote options: %w", err)
	}
	syncTimeout := opts.SyncTimeout
	if syncTimeout == 0 {
		syncTimeout = DefaultRemoteSyncTimeout
	}
	asyncTimeout := opts.AsyncTimeout
	if asyncTimeout == 0 {
		asyncTimeout = DefaultRemoteAsyncTimeout
	}
	return &RemoteBackend{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		syncClient:  &http.Client{Timeout: syncTimeout},
		asyncClient: &http.Client{Timeout: asyncTimeout},
		budget:      opts.RetryBudget,
		log:         log.WithComponent("remote_backend"),
	}, nil
}

// VerifySync implements Backend.
func (b *RemoteBackend) VerifySync(ctx context.Context, verifier string, req Request) (*Response, error) {
	return b.verify(ctx, b.syncClient, verifier, req)
}

// VerifyAsync implements Backend. The server runs every verification on its
// pool, so sync and async differ only in the client-side timeout.
func (b *RemoteBackend) VerifyAsync(ctx context.Context, verifier string, req Request) (*Response, error) {
	return b.verify(ctx, b.asyncClient, verifier, req)
}

func (b *RemoteBackend) verify(ctx context.Context, client *http.Client, verifier string, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errs.NewVerificationError(verifier, err)
	}
	url := b.baseURL + "/api/v1/verify/" + verifier

	var resp *Response
	attempt := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(errs.NewVerificationError(verifier, err))
		}
		httpReq.Header.Set("Content-Type", "application/json")

		httpResp, err := client.Do(httpReq)
		if err != nil {
			b.log.Warn(fmt.Sprintf("verification request transport failure: %v", err))
			return err
		}
		defer httpResp.Body.Close()

		if httpResp.StatusCode != http.StatusOK {
			return backoff.Permanent(decodeError(httpResp.Body, httpResp.StatusCode))
		}
		var out Response
		if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
			return backoff.Permanent(errs.NewVerificationError(verifier, err))
		}
		resp = &out
		return nil
	}

	if err := backoff.Retry(attempt, b.retryPolicy(ctx)); err != nil {
		return nil, transportError(verifier, err)
	}
	return resp, nil
}

// Verifiers implements Backend.
func (b *RemoteBackend) Verifiers(ctx context.Context) ([]model.VerifierInfo, error) {
	var listing VerifierListing
	if err := b.get(ctx, "/api/v1/verifiers", &listing); err != nil {
		return nil, err
	}
	return listing.Verifiers, nil
}

// VerifierInfo implements Backend.
func (b *RemoteBackend) VerifierInfo(ctx context.Context, verifier string) (model.VerifierInfo, error) {
	var info model.VerifierInfo
	if err := b.get(ctx, "/api/v1/verifiers/"+verifier, &info); err != nil {
		return model.VerifierInfo{}, err
	}
	return info, nil
}

func (b *RemoteBackend) get(ctx context.Context, path string, out any) error {
	attempt := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		httpResp, err := b.syncClient.Do(httpReq)
		if err != nil {
			return err
		}
		defer httpResp.Body.Close()

		if httpResp.StatusCode != http.StatusOK {
			return backoff.Permanent(decodeError(httpResp.Body, httpResp.StatusCode))
		}
		return backoffPermanentIf(json.NewDecoder(httpResp.Body).Decode(out))
	}
	if err := backoff.Retry(attempt, b.retryPolicy(ctx)); err != nil {
		return transportError("", err)
	}
	return nil
}

// Close releases both connection pools. Safe to call more than once.
func (b *RemoteBackend) Close(_ context.Context) error {
	b.closeOnce.Do(func() {
		b.syncClient.CloseIdleConnections()
		b.asyncClient.CloseIdleConnections()
	})
	return nil
}

func (b *RemoteBackend) retryPolicy(ctx context.Context) backoff.BackOffContext {
	if b.budget <= 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 100 * time.Millisecond
	policy.MaxElapsedTime = b.budget
	return backoff.WithContext(policy, ctx)
}

// decodeError turns a non-200 response into a typed error. Bodies that are
// not an error envelope degrade to a VerificationError with the raw text.
func decodeError(body io.Reader, status int) error {
	raw, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil {
		return errs.NewVerificationError("", fmt.Errorf("status %d: %w", status, err))
	}
	var env errs.Envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Error == "" {
		return errs.NewVerificationError("", fmt.Errorf("status %d: %s", status, strings.TrimSpace(string(raw))))
	}
	return errs.FromEnvelope(env)
}

// transportError wraps exhausted-retry transport failures; typed errors pass
// through unchanged.
func transportError(verifier string, err error) error {
	var svcErr errs.ServiceError
	if stderrors.As(err, &svcErr) {
		return err
	}
	return errs.NewVerificationError(verifier, err)
}

func backoffPermanentIf(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}
