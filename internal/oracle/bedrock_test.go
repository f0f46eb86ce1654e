// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package oracle

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/marginalia/pkg/types"
)

// mockEventStream implements EventStream for testing.
type mockEventStream struct {
	ch  chan brtypes.ConverseStreamOutput
	err error
}

func (m *mockEventStream) Events() <-chan brtypes.ConverseStreamOutput {
	return m.ch
}

func (m *mockEventStream) Close() error {
	return nil
}

func (m *mockEventStream) Err() error {
	return m.err
}

// mockBedrockAPI implements BedrockAPI for testing error paths. The
// success path cannot be exercised through the SDK output type because
// its event stream field is unexported; consumeStream is tested directly
// instead.
type mockBedrockAPI struct {
	failWithErr error
	callCount   int
}

func (m *mockBedrockAPI) ConverseStream(ctx context.Context, params *bedrockruntime.ConverseStreamInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseStreamOutput, error) {
	m.callCount++
	return nil, m.failWithErr
}

// deltaEvent builds a text delta event for the mock stream.
func deltaEvent(text string) brtypes.ConverseStreamOutput {
	return &brtypes.ConverseStreamOutputMemberContentBlockDelta{
		Value: brtypes.ContentBlockDeltaEvent{
			ContentBlockIndex: aws.Int32(0),
			Delta: &brtypes.ContentBlockDeltaMemberText{
				Value: text,
			},
		},
	}
}

// metadataEvent builds a usage metadata event for the mock stream.
func metadataEvent(in, out int) brtypes.ConverseStreamOutput {
	return &brtypes.ConverseStreamOutputMemberMetadata{
		Value: brtypes.ConverseStreamMetadataEvent{
			Usage: &brtypes.TokenUsage{
				InputTokens:  aws.Int32(int32(in)),
				OutputTokens: aws.Int32(int32(out)),
				TotalTokens:  aws.Int32(int32(in + out)),
			},
		},
	}
}

func TestConsumeStream_AccumulatesText(t *testing.T) {
	tokens := []string{"Line 3: ", "missing error check.", "\nLine 7: dead code."}
	ch := make(chan brtypes.ConverseStreamOutput, len(tokens)+1)
	for _, token := range tokens {
		ch <- deltaEvent(token)
	}
	ch <- metadataEvent(150, 42)
	close(ch)

	text, usage := consumeStream(context.Background(), &mockEventStream{ch: ch}, nil)

	assert.Equal(t, "Line 3: missing error check.\nLine 7: dead code.", text)
	assert.Equal(t, 150, usage.InputTokens)
	assert.Equal(t, 42, usage.OutputTokens)
}

func TestConsumeStream_OnTokenCallback(t *testing.T) {
	tokens := []string{"first", " second", " third"}
	ch := make(chan brtypes.ConverseStreamOutput, len(tokens))
	for _, token := range tokens {
		ch <- deltaEvent(token)
	}
	close(ch)

	var received []string
	text, _ := consumeStream(context.Background(), &mockEventStream{ch: ch}, func(s string) {
		received = append(received, s)
	})

	assert.Equal(t, tokens, received)
	assert.Equal(t, "first second third", text)
}

func TestConsumeStream_ContextCancellation(t *testing.T) {
	ch := make(chan brtypes.ConverseStreamOutput, 4)
	ch <- deltaEvent("partial")
	// Leave ch open; cancellation must end the loop.

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	var text string
	go func() {
		text, _ = consumeStream(ctx, &mockEventStream{ch: ch}, func(string) {
			cancel()
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumeStream did not return after cancellation")
	}

	assert.Equal(t, "partial", text)
}

func TestConsumeStream_NoMetadata(t *testing.T) {
	ch := make(chan brtypes.ConverseStreamOutput, 1)
	ch <- deltaEvent("critique")
	close(ch)

	text, usage := consumeStream(context.Background(), &mockEventStream{ch: ch}, nil)

	assert.Equal(t, "critique", text)
	assert.Zero(t, usage.InputTokens)
	assert.Zero(t, usage.OutputTokens)
}

func TestNewBedrockWithAPI(t *testing.T) {
	b := NewBedrockWithAPI(&mockBedrockAPI{}, BedrockConfig{
		ModelID:   "anthropic.claude-sonnet-4-5-20250929-v1:0",
		Region:    "us-east-1",
		MaxTokens: 2048,
	})

	require.NotNil(t, b)
	assert.Equal(t, "anthropic.claude-sonnet-4-5-20250929-v1:0", b.cfg.ModelID)
	assert.Equal(t, 2048, b.cfg.MaxTokens)
	assert.Equal(t, defaultBedrockTimeout, b.cfg.Timeout)
}

func TestNewBedrockWithAPI_Defaults(t *testing.T) {
	b := NewBedrockWithAPI(&mockBedrockAPI{}, BedrockConfig{
		ModelID: "test-model",
		Region:  "us-west-2",
	})

	assert.Equal(t, 4096, b.cfg.MaxTokens)
	assert.Equal(t, defaultBedrockTimeout, b.cfg.Timeout)
}

func TestNewBedrock_RequiresModelAndRegion(t *testing.T) {
	_, err := NewBedrock(context.Background(), BedrockConfig{Region: "us-east-1"})
	assert.ErrorIs(t, err, ErrOracleFailure)

	_, err = NewBedrock(context.Background(), BedrockConfig{ModelID: "test-model"})
	assert.ErrorIs(t, err, ErrOracleFailure)
}

func TestBedrock_Query_AccessDenied(t *testing.T) {
	api := &mockBedrockAPI{
		failWithErr: &brtypes.AccessDeniedException{Message: aws.String("not authorized")},
	}
	b := NewBedrockWithAPI(api, BedrockConfig{ModelID: "test-model", Region: "us-east-1"})

	_, err := b.Query(context.Background(), "review this")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOracleFailure)
	assert.Contains(t, err.Error(), "credential")
	assert.Equal(t, 1, api.callCount, "non-throttle errors must not retry")
}

func TestBedrock_ClassifyError_ResourceNotFound(t *testing.T) {
	b := NewBedrockWithAPI(&mockBedrockAPI{}, BedrockConfig{ModelID: "nonexistent-model", Region: "us-east-1"})
	err := b.classifyError(&brtypes.ResourceNotFoundException{
		Message: aws.String("model not found"),
	})

	assert.ErrorIs(t, err, ErrOracleFailure)
	assert.Contains(t, err.Error(), "nonexistent-model")
}

func TestBedrock_ClassifyError_Timeout(t *testing.T) {
	b := NewBedrockWithAPI(&mockBedrockAPI{}, BedrockConfig{ModelID: "test", Region: "us-east-1", Timeout: 30 * time.Second})
	err := b.classifyError(context.DeadlineExceeded)

	assert.ErrorIs(t, err, ErrOracleFailure)
	assert.Contains(t, err.Error(), "timed out")
}

func TestBedrock_CumulativeUsage(t *testing.T) {
	b := &Bedrock{
		usage: types.TokenUsage{InputTokens: 100, OutputTokens: 50},
	}

	usage := b.CumulativeUsage()
	assert.Equal(t, 100, usage.InputTokens)
	assert.Equal(t, 50, usage.OutputTokens)
	assert.Equal(t, 150, usage.Total())
}

func TestBedrock_ContextCancelledDuringRetry(t *testing.T) {
	api := &mockBedrockAPI{
		failWithErr: &brtypes.ThrottlingException{Message: aws.String("Rate exceeded")},
	}
	b := NewBedrockWithAPI(api, BedrockConfig{ModelID: "test-model", Region: "us-east-1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Query(ctx, "prompt")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOracleFailure)
	assert.Contains(t, err.Error(), "context cancelled")
	assert.Equal(t, 1, api.callCount, "cancelled context must stop the retry loop")
}
