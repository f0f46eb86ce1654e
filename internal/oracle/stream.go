// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd006-oracle-client R4 (streaming consumption).
package oracle

import (
	"context"
	"strings"

	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/petar-djukic/marginalia/pkg/types"
)

// EventStream abstracts the Bedrock ConverseStream event stream for testing.
type EventStream interface {
	Events() <-chan brtypes.ConverseStreamOutput
	Close() error
	Err() error
}

// consumeStream reads events from a Bedrock ConverseStream and accumulates
// the full response text and token usage. Each text delta is forwarded to
// onToken when set. Cancellation returns whatever accumulated so far.
func consumeStream(ctx context.Context, stream EventStream, onToken func(string)) (string, types.TokenUsage) {
	var text strings.Builder
	var usage types.TokenUsage

	events := stream.Events()
	for {
		select {
		case <-ctx.Done():
			stream.Close()
			return text.String(), usage

		case event, ok := <-events:
			if !ok {
				return text.String(), usage
			}

			switch v := event.(type) {
			case *brtypes.ConverseStreamOutputMemberContentBlockDelta:
				if delta, ok := v.Value.Delta.(*brtypes.ContentBlockDeltaMemberText); ok {
					text.WriteString(delta.Value)
					if onToken != nil {
						onToken(delta.Value)
					}
				}

			case *brtypes.ConverseStreamOutputMemberMetadata:
				if v.Value.Usage != nil {
					if v.Value.Usage.InputTokens != nil {
						usage.InputTokens = int(*v.Value.Usage.InputTokens)
					}
					if v.Value.Usage.OutputTokens != nil {
						usage.OutputTokens = int(*v.Value.Usage.OutputTokens)
					}
				}
			}
		}
	}
}
