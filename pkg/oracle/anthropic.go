package oracle

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

// anthropicMaxTokens bounds one extraction reply; the contracts all
// fit comfortably under this.
const anthropicMaxTokens = 2048

type anthropicClient struct {
	client sdk.Client
	model  string
}

// NewAnthropic creates an extraction oracle backed by the Anthropic
// Messages API.
func NewAnthropic(apiKey, model string, opts ...option.RequestOption) Client {
	allOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &anthropicClient{
		client: sdk.NewClient(allOpts...),
		model:  model,
	}
}

func (c *anthropicClient) Complete(ctx context.Context, instruction string, payload any) (string, error) {
	userContent, err := encodePayload(payload)
	if err != nil {
		return "", err
	}
	if userContent == "" {
		// The Messages API rejects empty user content.
		userContent = "（ページ内容は instruction 側に含まれています）"
	}

	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: anthropicMaxTokens,
		System:    []sdk.TextBlockParam{{Text: instruction}},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(userContent)),
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "oracle: anthropic create message")
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", eris.New("oracle: anthropic response has no text content")
	}
	return b.String(), nil
}
