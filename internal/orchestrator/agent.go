// Package orchestrator is the claims front door: it proxies free-text turns
// to the agent runtime and keeps claim-session bookkeeping in the record
// store. The two responsibilities share no state.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	agenttypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/rs/zerolog/log"
)

// AgentReply is one fully-drained agent turn.
type AgentReply struct {
	Output string
	Trace  []json.RawMessage
}

// AgentInvoker forwards a user turn to the agent runtime.
type AgentInvoker interface {
	Invoke(ctx context.Context, sessionID, inputText string, enableTrace bool) (AgentReply, error)
}

// AgentClient invokes a Bedrock agent. Its underlying client must be built
// with the extended read timeout and adaptive retry policy from
// awsutil.LoadAgent: agent turns routinely outlast default client timeouts.
type AgentClient struct {
	Runtime *bedrockagentruntime.Client
	AgentID string
	AliasID string
}

// Invoke starts an agent turn and drains the completion stream fully, in
// arrival order, concatenating text chunks into one reply. Ordering within a
// session is guaranteed by the transport; ctx is the cancellation point.
func (c *AgentClient) Invoke(ctx context.Context, sessionID, inputText string, enableTrace bool) (AgentReply, error) {
	out, err := c.Runtime.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(c.AgentID),
		AgentAliasId: aws.String(c.AliasID),
		SessionId:    aws.String(sessionID),
		InputText:    aws.String(inputText),
		EnableTrace:  aws.Bool(enableTrace),
	})
	if err != nil {
		return AgentReply{}, fmt.Errorf("invoke agent: %w", err)
	}

	stream := out.GetStream()
	defer stream.Close()

	var reply AgentReply
	chunks := 0
	for event := range stream.Events() {
		select {
		case <-ctx.Done():
			return AgentReply{}, ctx.Err()
		default:
		}
		switch v := event.(type) {
		case *agenttypes.ResponseStreamMemberChunk:
			reply.Output += string(v.Value.Bytes)
			chunks++
		case *agenttypes.ResponseStreamMemberTrace:
			if enableTrace {
				if raw, err := json.Marshal(v.Value); err == nil {
					reply.Trace = append(reply.Trace, raw)
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return AgentReply{}, fmt.Errorf("agent stream: %w", err)
	}

	log.Debug().Int("chunks", chunks).Int("output_len", len(reply.Output)).Msg("agent stream drained")
	return reply, nil
}
