package llm

import "context"

// NopClient is the fallback backend when no LLM is configured. It keeps the
// chat endpoint functional in lightweight deployments.
type NopClient struct{}

func NewNopClient() *NopClient { return &NopClient{} }

// Generate implements the Client interface
func (NopClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	return "No LLM backend is configured. Ask about alerts, SLOs, spot instances, changes, or compliance to query the platform directly.", nil
}
