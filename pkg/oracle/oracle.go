// Package oracle abstracts the text-understanding model used for
// structured extraction. The pipeline hands it an instruction and a
// payload and gets back a single text blob that is *expected* — never
// trusted — to be JSON matching the task's contract.
package oracle

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Client performs one extraction call.
type Client interface {
	// Complete sends the instruction as the system prompt and the
	// payload as the user message. Struct and map payloads are
	// marshalled to JSON; strings pass through verbatim.
	Complete(ctx context.Context, instruction string, payload any) (string, error)
}

// encodePayload renders a payload as the user message body.
func encodePayload(payload any) (string, error) {
	switch v := payload.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", eris.Wrap(err, "oracle: marshal payload")
		}
		return string(data), nil
	}
}
