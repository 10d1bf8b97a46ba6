package llmagent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func retryableServerError() error {
	return &ServerError{ProviderError: ProviderError{
		ClientError: ClientError{Message: "server error"}, Retryable: true,
	}}
}

func TestRetryPolicyDelayBackoff(t *testing.T) {
	policy := RetryPolicy{
		BaseDelay:         1.0,
		BackoffMultiplier: 2.0,
		MaxDelay:          60.0,
	}
	require.Equal(t, 1*time.Second, policy.Delay(0))
	require.Equal(t, 2*time.Second, policy.Delay(1))
	require.Equal(t, 4*time.Second, policy.Delay(2))
}

func TestRetryPolicyDelayCapped(t *testing.T) {
	policy := RetryPolicy{
		BaseDelay:         1.0,
		BackoffMultiplier: 2.0,
		MaxDelay:          5.0,
	}
	require.Equal(t, 5*time.Second, policy.Delay(10))
}

func TestRetryPolicyDelayJitterRange(t *testing.T) {
	policy := RetryPolicy{
		BaseDelay:         1.0,
		BackoffMultiplier: 2.0,
		MaxDelay:          60.0,
		Jitter:            true,
	}
	for i := 0; i < 100; i++ {
		d := policy.Delay(0)
		require.GreaterOrEqual(t, d, 500*time.Millisecond)
		require.LessOrEqual(t, d, 1500*time.Millisecond)
	}
}

func TestRetrySucceedsAfterRetryableFailures(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 3, BaseDelay: 0.001, BackoffMultiplier: 1, MaxDelay: 0.001}

	calls := 0
	result, err := Retry(context.Background(), policy, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", retryableServerError()
		}
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", result)
	require.Equal(t, 3, calls)
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 3, BaseDelay: 0.001, BackoffMultiplier: 1, MaxDelay: 0.001}

	calls := 0
	_, err := Retry(context.Background(), policy, func(ctx context.Context) (string, error) {
		calls++
		return "", &AuthenticationError{ProviderError: ProviderError{
			ClientError: ClientError{Message: "invalid key"},
		}}
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestRetryExhausted(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 2, BaseDelay: 0.001, BackoffMultiplier: 1, MaxDelay: 0.001}

	calls := 0
	_, err := Retry(context.Background(), policy, func(ctx context.Context) (string, error) {
		calls++
		return "", retryableServerError()
	})
	require.Error(t, err)
	require.Equal(t, 3, calls) // 1 initial + 2 retries
}

func TestRetryCancelled(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 5, BaseDelay: 1.0, BackoffMultiplier: 1, MaxDelay: 1.0}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := Retry(ctx, policy, func(ctx context.Context) (string, error) {
		return "", retryableServerError()
	})
	var abort *AbortError
	require.ErrorAs(t, err, &abort)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRetryReportsAttempts(t *testing.T) {
	var attempts []int
	policy := RetryPolicy{
		MaxRetries: 2, BaseDelay: 0.001, BackoffMultiplier: 1, MaxDelay: 0.001,
		OnRetry: func(err error, attempt int, delay time.Duration) {
			attempts = append(attempts, attempt)
		},
	}

	_, err := Retry(context.Background(), policy, func(ctx context.Context) (string, error) {
		return "", retryableServerError()
	})
	require.Error(t, err)
	require.Equal(t, []int{1, 2}, attempts)
}

func TestIsRetryableClassification(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{&AuthenticationError{}, false},
		{&ContextLengthError{}, false},
		{&AbortError{}, false},
		{&DecisionError{}, false},
		{&RateLimitError{}, true},
		{&ServerError{}, true},
		{&RequestTimeoutError{}, true},
		{&ProviderError{Retryable: false}, false},
		{&ProviderError{Retryable: true}, true},
		{errors.New("mystery"), true},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, IsRetryable(tc.err), "error %v", tc.err)
	}
}
