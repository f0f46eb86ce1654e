// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd006-oracle-client R3 (Bedrock backend), R6 (error handling).
package oracle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/petar-djukic/marginalia/pkg/types"
)

const (
	defaultBedrockTimeout = 300 * time.Second
	maxRetryAttempts      = 3
	baseRetryDelay        = 1 * time.Second
)

// systemPrompt frames every Bedrock critique request. Persona material is
// the caller's business; this only fixes the reviewer role.
const systemPrompt = "You review source code. Respond with concrete, " +
	"line-anchored critique of the file you are given."

// BedrockConfig configures the Bedrock oracle backend.
type BedrockConfig struct {
	ModelID   string        // Bedrock model ID (required)
	Region    string        // AWS region (required)
	Profile   string        // AWS credential profile (optional, default chain if empty)
	Timeout   time.Duration // Request timeout (default 300s)
	MaxTokens int           // Max tokens for the response (default 4096)
	OnToken   func(string)  // Optional callback for tokens as they stream in
}

// BedrockAPI abstracts the Bedrock ConverseStream call for testing.
type BedrockAPI interface {
	ConverseStream(ctx context.Context, params *bedrockruntime.ConverseStreamInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseStreamOutput, error)
}

// Bedrock queries an LLM through the AWS Bedrock ConverseStream API.
type Bedrock struct {
	api   BedrockAPI
	cfg   BedrockConfig
	usage types.TokenUsage // Cumulative usage across calls
}

// Verify interface compliance at compile time.
var _ Oracle = (*Bedrock)(nil)

// NewBedrock creates a Bedrock oracle using the standard AWS credential
// chain.
func NewBedrock(ctx context.Context, cfg BedrockConfig) (*Bedrock, error) {
	if cfg.ModelID == "" {
		return nil, fmt.Errorf("%w: model ID is required", ErrOracleFailure)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: region is required", ErrOracleFailure)
	}
	applyBedrockDefaults(&cfg)

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: loading AWS config: %v", ErrOracleFailure, err)
	}

	return &Bedrock{api: bedrockruntime.NewFromConfig(awsCfg), cfg: cfg}, nil
}

// NewBedrockWithAPI creates a Bedrock oracle with a pre-configured API
// implementation. Used for testing with mock clients.
func NewBedrockWithAPI(api BedrockAPI, cfg BedrockConfig) *Bedrock {
	applyBedrockDefaults(&cfg)
	return &Bedrock{api: api, cfg: cfg}
}

func applyBedrockDefaults(cfg *BedrockConfig) {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultBedrockTimeout
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4096
	}
}

// Query sends the prompt and returns the accumulated streamed response.
func (b *Bedrock) Query(ctx context.Context, prompt string) (*types.OracleResponse, error) {
	response, err := b.sendWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	b.usage.InputTokens += response.Usage.InputTokens
	b.usage.OutputTokens += response.Usage.OutputTokens

	return response, nil
}

// CumulativeUsage returns the total token usage across all calls.
func (b *Bedrock) CumulativeUsage() types.TokenUsage {
	return b.usage
}

// sendWithRetry calls ConverseStream with exponential backoff retry for
// rate limit errors.
func (b *Bedrock) sendWithRetry(ctx context.Context, prompt string) (*types.OracleResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetryAttempts; attempt++ {
		if attempt > 0 {
			delay := baseRetryDelay * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: context cancelled during retry: %v", ErrOracleFailure, ctx.Err())
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)

		input := &bedrockruntime.ConverseStreamInput{
			ModelId: aws.String(b.cfg.ModelID),
			System: []brtypes.SystemContentBlock{
				&brtypes.SystemContentBlockMemberText{Value: systemPrompt},
			},
			Messages: []brtypes.Message{
				{
					Role: brtypes.ConversationRoleUser,
					Content: []brtypes.ContentBlock{
						&brtypes.ContentBlockMemberText{Value: prompt},
					},
				},
			},
			InferenceConfig: &brtypes.InferenceConfiguration{
				MaxTokens: aws.Int32(int32(b.cfg.MaxTokens)),
			},
		}

		output, err := b.api.ConverseStream(callCtx, input)
		if err != nil {
			cancel()

			var throttle *brtypes.ThrottlingException
			if errors.As(err, &throttle) {
				lastErr = err
				continue
			}

			return nil, b.classifyError(err)
		}

		text, usage := consumeStream(callCtx, output.GetStream(), b.cfg.OnToken)
		cancel()

		return &types.OracleResponse{Text: text, Usage: usage, Retries: attempt}, nil
	}

	return nil, fmt.Errorf("%w: rate limited after %d retries: %v", ErrOracleFailure, maxRetryAttempts, lastErr)
}

// classifyError wraps Bedrock errors into ErrOracleFailure with descriptive
// messages.
func (b *Bedrock) classifyError(err error) error {
	var accessDenied *brtypes.AccessDeniedException
	if errors.As(err, &accessDenied) {
		return fmt.Errorf("%w: credential or permission issue: %v", ErrOracleFailure, err)
	}

	var notFound *brtypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: model not found: %s", ErrOracleFailure, b.cfg.ModelID)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out after %s", ErrOracleFailure, b.cfg.Timeout)
	}

	return fmt.Errorf("%w: %v", ErrOracleFailure, err)
}
