package llmagent

import (
	"context"
	"fmt"
	"strings"

	"github.com/teilomillet/gollm"
)

// Prompt is one self-contained request to a language model. The
// strategist renders the goal, the available actions, and the transcript
// tail into the user text; multi-turn state lives in the Transcript, not
// in the model session.
type Prompt struct {
	System    string
	User      string
	MaxTokens int
}

// LLM produces a text completion for a prompt. Implementations must be
// safe for use from a single pursuit at a time.
type LLM interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// Client is an LLM backed by gollm. All calls run under the configured
// retry policy, and provider failures surface as the package's error
// taxonomy.
type Client struct {
	provider string
	llm      gollm.LLM
	policy   RetryPolicy
}

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	apiKey      string
	maxTokens   int
	temperature float64
	policy      RetryPolicy
	extraOpts   []gollm.ConfigOption
}

// WithAPIKey sets the API key. If unset, gollm reads it from the
// provider's environment variable.
func WithAPIKey(key string) ClientOption {
	return func(c *clientConfig) {
		c.apiKey = key
	}
}

// WithMaxTokens sets the default completion budget.
func WithMaxTokens(n int) ClientOption {
	return func(c *clientConfig) {
		c.maxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ClientOption {
	return func(c *clientConfig) {
		c.temperature = t
	}
}

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(policy RetryPolicy) ClientOption {
	return func(c *clientConfig) {
		c.policy = policy
	}
}

// WithGollmOptions adds extra gollm configuration options.
func WithGollmOptions(opts ...gollm.ConfigOption) ClientOption {
	return func(c *clientConfig) {
		c.extraOpts = append(c.extraOpts, opts...)
	}
}

// NewClient creates a Client for the given provider and model.
func NewClient(provider, model string, opts ...ClientOption) (*Client, error) {
	cfg := &clientConfig{
		maxTokens:   2048,
		temperature: 0.2,
		policy:      DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	gollmOpts := []gollm.ConfigOption{
		gollm.SetProvider(provider),
		gollm.SetModel(model),
		gollm.SetMaxTokens(cfg.maxTokens),
		gollm.SetTemperature(cfg.temperature),
		gollm.SetMaxRetries(0), // retries are handled here, not in gollm
		gollm.SetLogLevel(gollm.LogLevelWarn),
	}
	if cfg.apiKey != "" {
		gollmOpts = append(gollmOpts, gollm.SetAPIKey(cfg.apiKey))
	}
	gollmOpts = append(gollmOpts, cfg.extraOpts...)

	llm, err := gollm.NewLLM(gollmOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gollm LLM for provider %s: %w", provider, err)
	}

	return &Client{
		provider: provider,
		llm:      llm,
		policy:   cfg.policy,
	}, nil
}

// NewClientFromLLM wraps an existing gollm.LLM instance.
func NewClientFromLLM(provider string, llm gollm.LLM) *Client {
	return &Client{
		provider: provider,
		llm:      llm,
		policy:   DefaultRetryPolicy(),
	}
}

// Provider returns the provider identifier.
func (c *Client) Provider() string { return c.provider }

// Complete sends the prompt and returns the completion text.
func (c *Client) Complete(ctx context.Context, p Prompt) (string, error) {
	promptOpts := []gollm.PromptOption{}
	if p.System != "" {
		promptOpts = append(promptOpts, gollm.WithSystemPrompt(p.System, gollm.CacheTypeEphemeral))
	}
	if p.MaxTokens > 0 {
		promptOpts = append(promptOpts, gollm.WithMaxLength(p.MaxTokens))
	}
	prompt := gollm.NewPrompt(p.User, promptOpts...)

	return Retry(ctx, c.policy, func(ctx context.Context) (string, error) {
		text, err := c.llm.Generate(ctx, prompt)
		if err != nil {
			return "", c.translateError(err)
		}
		return text, nil
	})
}

// translateError converts a gollm error into the package error taxonomy,
// classifying by message content since gollm flattens provider errors
// into strings.
func (c *Client) translateError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	msgLower := strings.ToLower(msg)

	switch {
	case strings.Contains(msgLower, "401") || strings.Contains(msgLower, "unauthorized") || strings.Contains(msgLower, "invalid api key"):
		return &AuthenticationError{ProviderError: ProviderError{
			ClientError: ClientError{Message: msg, Cause: err}, Provider: c.provider, StatusCode: 401,
		}}
	case strings.Contains(msgLower, "429") || strings.Contains(msgLower, "rate limit"):
		return &RateLimitError{ProviderError: ProviderError{
			ClientError: ClientError{Message: msg, Cause: err}, Provider: c.provider, StatusCode: 429, Retryable: true,
		}}
	case strings.Contains(msgLower, "context length") || strings.Contains(msgLower, "too many tokens"):
		return &ContextLengthError{ProviderError: ProviderError{
			ClientError: ClientError{Message: msg, Cause: err}, Provider: c.provider, StatusCode: 413,
		}}
	case strings.Contains(msgLower, "500") || strings.Contains(msgLower, "502") || strings.Contains(msgLower, "503") || strings.Contains(msgLower, "internal server"):
		return &ServerError{ProviderError: ProviderError{
			ClientError: ClientError{Message: msg, Cause: err}, Provider: c.provider, StatusCode: 500, Retryable: true,
		}}
	case strings.Contains(msgLower, "timeout") || strings.Contains(msgLower, "deadline exceeded"):
		return &RequestTimeoutError{ClientError: ClientError{Message: msg, Cause: err}}
	default:
		return &ProviderError{
			ClientError: ClientError{Message: msg, Cause: err},
			Provider:    c.provider,
			Retryable:   true,
		}
	}
}
