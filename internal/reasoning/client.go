// Package reasoning wraps the multimodal reasoning service used for damage,
// document and settlement analysis.
package reasoning

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const anthropicVersion = "bedrock-2023-05-31"

// Invoker is the narrow reasoning-service interface steps depend on. Steps
// never retry an Invoke call; a transient failure is a terminal error for
// that step invocation and the caller must re-invoke.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (string, error)
}

// MediaSource carries base64-encoded media for an image or document block.
type MediaSource struct {
	Type      string `json:"type"` // always "base64"
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// ContentBlock is one element of a multimodal message.
type ContentBlock struct {
	Type   string       `json:"type"` // "text", "image" or "document"
	Text   string       `json:"text,omitempty"`
	Source *MediaSource `json:"source,omitempty"`
}

// Text builds a text content block.
func Text(s string) ContentBlock {
	return ContentBlock{Type: "text", Text: s}
}

// Media builds an image or document block from base64 data, picking the block
// type from the content type.
func Media(contentType, base64Data string) ContentBlock {
	blockType := "document"
	if strings.HasPrefix(strings.ToLower(contentType), "image/") {
		blockType = "image"
	}
	return ContentBlock{
		Type: blockType,
		Source: &MediaSource{
			Type:      "base64",
			MediaType: strings.ToLower(contentType),
			Data:      base64Data,
		},
	}
}

// Request is one reasoning-service invocation: a single user turn of content
// blocks plus generation limits.
type Request struct {
	MaxTokens   int
	Temperature float64
	Blocks      []ContentBlock
}

type message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

type modelPayload struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      float64   `json:"temperature,omitempty"`
	Messages         []message `json:"messages"`
}

type modelOutput struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Client invokes an Anthropic model through the Bedrock runtime.
type Client struct {
	br      *bedrockruntime.Client
	modelID string
}

// New returns a Client bound to one model id.
func New(br *bedrockruntime.Client, modelID string) *Client {
	return &Client{br: br, modelID: modelID}
}

// Invoke sends the request and returns the model's text output. The default
// client settings apply: no retry, no extended timeout.
func (c *Client) Invoke(ctx context.Context, req Request) (string, error) {
	payload := modelPayload{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        req.MaxTokens,
		Temperature:      req.Temperature,
		Messages:         []message{{Role: "user", Content: req.Blocks}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal model payload: %w", err)
	}

	out, err := c.br.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("invoke model: %w", err)
	}

	var parsed modelOutput
	if err := json.Unmarshal(out.Body, &parsed); err != nil {
		return "", fmt.Errorf("decode model output: %w", err)
	}
	for _, block := range parsed.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("model output contained no text block")
}
