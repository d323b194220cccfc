package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestServiceErrorSurface(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        ServiceError
		wantCode   string
		wantStatus int
		wantMsg    string
		detailKey  string
	}{
		{
			name:       "verifier not found",
			err:        NewVerifierNotFoundError("nope", []string{"arganno", "argmap"}),
			wantCode:   CodeVerifierNotFound,
			wantStatus: 404,
			wantMsg:    "verifier 'nope' not found (available: arganno, argmap)",
			detailKey:  "available",
		},
		{
			name:       "invalid config",
			err:        NewInvalidConfigError("infreco", []string{"bogus"}),
			wantCode:   CodeInvalidConfig,
			wantStatus: 422,
			wantMsg:    "invalid config options for verifier 'infreco': bogus",
			detailKey:  "invalid_options",
		},
		{
			name:       "invalid filter",
			err:        NewInvalidFilterError("argmap_infreco", []string{"annotations"}),
			wantCode:   CodeInvalidFilter,
			wantStatus: 422,
			wantMsg:    "invalid filter roles for verifier 'argmap_infreco': annotations",
			detailKey:  "invalid_roles",
		},
		{
			name:       "verification",
			err:        NewVerificationError("arganno", stderrors.New("worker lost")),
			wantCode:   CodeVerification,
			wantStatus: 400,
			wantMsg:    "verification error in 'arganno': worker lost",
		},
		{
			name:       "filtering",
			err:        NewFilteringError("argmap", stderrors.New("bad regex")),
			wantCode:   CodeFiltering,
			wantStatus: 422,
			wantMsg:    "filtering error for role 'argmap': bad regex",
			detailKey:  "role",
		},
		{
			name:       "timeout",
			err:        NewTimeoutError("logreco", 1500*time.Millisecond),
			wantCode:   CodeTimeout,
			wantStatus: 504,
			wantMsg:    "verification of 'logreco' timed out after 1.5s",
			detailKey:  "timeout_ms",
		},
		{
			name:       "queue full",
			err:        NewQueueFullError(64),
			wantCode:   CodeQueueFull,
			wantStatus: 429,
			wantMsg:    "verification queue is full (capacity 64)",
			detailKey:  "capacity",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.wantCode, tc.err.Code())
			require.Equal(t, tc.wantStatus, tc.err.HTTPStatus())
			require.Equal(t, tc.wantMsg, tc.err.Error())
			if tc.detailKey != "" {
				require.Contains(t, tc.err.Detail(), tc.detailKey)
			}
		})
	}
}

func TestKindMatchingIgnoresFields(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("dispatch: %w", NewTimeoutError("arganno", time.Second))
	require.True(t, stderrors.Is(err, &TimeoutError{}))
	require.False(t, stderrors.Is(err, &QueueFullError{}))

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	require.Equal(t, "arganno", timeoutErr.Verifier)
}

func TestVerificationErrorUnwraps(t *testing.T) {
	t.Parallel()

	underlying := stderrors.New("context canceled")
	err := NewVerificationError("", underlying)
	require.True(t, stderrors.Is(err, underlying))
	require.Equal(t, "verification error: context canceled", err.Error())
}

func TestFilteringErrorUnwraps(t *testing.T) {
	t.Parallel()

	underlying := stderrors.New("missing parenthesis")
	err := NewFilteringError("infreco", underlying)
	require.True(t, stderrors.Is(err, underlying))
}

func TestToEnvelope(t *testing.T) {
	t.Parallel()

	env := ToEnvelope(NewInvalidConfigError("arganno", []string{"oops"}))
	require.Equal(t, CodeInvalidConfig, env.Error)
	require.Contains(t, env.Message, "oops")
	require.Equal(t, []string{"oops"}, env.Detail["invalid_options"])

	wrapped := fmt.Errorf("call failed: %w", NewQueueFullError(8))
	env = ToEnvelope(wrapped)
	require.Equal(t, CodeQueueFull, env.Error)
}

func TestToEnvelopeOutsideTaxonomy(t *testing.T) {
	t.Parallel()

	env := ToEnvelope(stderrors.New("disk on fire"))
	require.Equal(t, CodeInternal, env.Error)
	require.Equal(t, "disk on fire", env.Message)
	require.Empty(t, env.Detail)
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	require.Equal(t, 404, StatusFor(NewVerifierNotFoundError("x", nil)))
	require.Equal(t, 429, StatusFor(fmt.Errorf("wrapped: %w", NewQueueFullError(1))))
	require.Equal(t, 500, StatusFor(stderrors.New("plain")))
}

func TestFromEnvelopeReconstructsKinds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		env  Envelope
		want error
	}{
		{
			name: "verifier not found",
			env:  Envelope{Error: CodeVerifierNotFound, Detail: map[string]any{"available": []any{"arganno"}}},
			want: &VerifierNotFoundError{},
		},
		{
			name: "invalid config",
			env:  Envelope{Error: CodeInvalidConfig, Detail: map[string]any{"invalid_options": []any{"N"}}},
			want: &InvalidConfigError{},
		},
		{
			name: "invalid filter",
			env:  Envelope{Error: CodeInvalidFilter},
			want: &InvalidFilterError{},
		},
		{
			name: "filtering",
			env:  Envelope{Error: CodeFiltering, Message: "bad regex", Detail: map[string]any{"role": "argmap"}},
			want: &FilteringError{},
		},
		{
			name: "timeout",
			env:  Envelope{Error: CodeTimeout, Detail: map[string]any{"timeout_ms": float64(2000)}},
			want: &TimeoutError{},
		},
		{
			name: "queue full",
			env:  Envelope{Error: CodeQueueFull, Detail: map[string]any{"capacity": float64(16)}},
			want: &QueueFullError{},
		},
		{
			name: "unknown code degrades to verification",
			env:  Envelope{Error: "something_new", Message: "??"},
			want: &VerificationError{},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.ErrorIs(t, FromEnvelope(tc.env), tc.want)
		})
	}
}

func TestFromEnvelopeCarriesDetail(t *testing.T) {
	t.Parallel()

	err := FromEnvelope(Envelope{
		Error:  CodeTimeout,
		Detail: map[string]any{"timeout_ms": float64(2500)},
	})
	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	require.Equal(t, 2500*time.Millisecond, timeoutErr.Limit)

	err = FromEnvelope(Envelope{
		Error:  CodeVerifierNotFound,
		Detail: map[string]any{"available": []any{"arganno", "argmap"}},
	})
	var nfErr *VerifierNotFoundError
	require.ErrorAs(t, err, &nfErr)
	require.Equal(t, []string{"arganno", "argmap"}, nfErr.Available)
}
