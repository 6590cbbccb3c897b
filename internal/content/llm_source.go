package content

import (
	"context"

	"github.com/jonathan/site-generator/internal/llm"
)

// OriginLLM marks fragments generated by calling the model directly
const OriginLLM = "llm"

// LLMSource generates section copy by calling an llm.Client in JSON mode.
type LLMSource struct {
	client llm.Client
}

// NewLLMSource wraps client as a Source.
func NewLLMSource(client llm.Client) *LLMSource {
	return &LLMSource{client: client}
}

// Generate sends the section prompt to the model and decodes its JSON answer.
func (s *LLMSource) Generate(ctx context.Context, req Request) (*Fragment, error) {
	if req.Prompt == "" {
		return nil, &RemoteError{Section: req.Section, Message: "empty prompt"}
	}

	text, err := s.client.GenerateJSON(ctx, req.Prompt, tierFor(req.Section))
	if err != nil {
		return nil, &RemoteError{Section: req.Section, Message: "model call failed", Cause: err}
	}

	frag, err := DecodeFragment(req.Section, []byte(llm.CleanJSONBlock(text)))
	if err != nil {
		return nil, &RemoteError{Section: req.Section, Message: "malformed model output", Cause: err}
	}
	frag.Limit(req.Count)
	frag.Origin = OriginLLM
	return frag, nil
}
