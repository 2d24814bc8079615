package llm

import (
	"context"
	"fmt"
	"sync"
)

// StubResponse is one scripted reply from a StubClient.
type StubResponse struct {
	Text string
	Err  error
}

// StubCall records a request received by a StubClient.
type StubCall struct {
	Prompt string
	Tier   ModelTier
	JSON   bool
}

// StubClient replays scripted responses in order. It backs offline runs and tests.
// Once the script is exhausted every further call fails, unless the client repeats.
type StubClient struct {
	mu        sync.Mutex
	responses []StubResponse
	repeat    bool
	calls     []StubCall
	closed    bool
}

// NewStubClient creates a StubClient that returns the given responses in order.
func NewStubClient(responses ...StubResponse) *StubClient {
	return &StubClient{responses: responses}
}

// NewRepeatingStubClient creates a StubClient that answers every call with resp.
func NewRepeatingStubClient(resp StubResponse) *StubClient {
	return &StubClient{responses: []StubResponse{resp}, repeat: true}
}

// GenerateContent returns the next scripted response.
func (s *StubClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier, _ ...CallOption) (string, error) {
	return s.next(ctx, StubCall{Prompt: prompt, Tier: tier})
}

// GenerateJSON returns the next scripted response with code fences removed.
func (s *StubClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier, _ ...CallOption) (string, error) {
	text, err := s.next(ctx, StubCall{Prompt: prompt, Tier: tier, JSON: true})
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (s *StubClient) next(ctx context.Context, call StubCall) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, call)
	idx := len(s.calls) - 1
	if s.repeat && idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	if idx >= len(s.responses) {
		return "", fmt.Errorf("stub client: no response scripted for call %d", idx+1)
	}
	r := s.responses[idx]
	return r.Text, r.Err
}

// Calls returns a copy of the requests received so far.
func (s *StubClient) Calls() []StubCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StubCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// GetModel returns a fixed model name.
func (s *StubClient) GetModel(tier ModelTier) string {
	return "stub-" + string(tier)
}

// Close marks the stub closed.
func (s *StubClient) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (s *StubClient) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

var _ Client = (*StubClient)(nil)
