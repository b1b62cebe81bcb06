package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

var _ Client = (*ScriptedClient)(nil)

// ScriptedClient is a test double that returns pre-scripted responses in
// call order, or an error if the script is exhausted or a step was
// configured to fail. Grounded on the teacher's nop.go style of a
// hand-written fake rather than a generated mock.
type ScriptedClient struct {
	mu       sync.Mutex
	steps    []scriptedStep
	position int
	calls    []Request
}

type scriptedStep struct {
	response Response
	err      error
}

// NewScriptedClient builds a ScriptedClient with no steps queued; use
// WithJSON / WithRaw / WithError to queue behavior before it's invoked.
func NewScriptedClient() *ScriptedClient {
	return &ScriptedClient{}
}

// WithJSON queues a successful structured-output response whose content is
// the JSON marshaling of v.
func (s *ScriptedClient) WithJSON(v any, usage Usage) *ScriptedClient {
	raw, err := json.Marshal(v)
	if err != nil {
		return s.WithError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, scriptedStep{response: Response{Content: raw, Usage: usage}})
	return s
}

// WithRaw queues a successful response with the literal raw content given,
// useful for testing malformed-JSON / code-fence tolerance.
func (s *ScriptedClient) WithRaw(raw string, usage Usage) *ScriptedClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, scriptedStep{response: Response{Content: []byte(raw), Usage: usage}})
	return s
}

// WithError queues a failing step.
func (s *ScriptedClient) WithError(err error) *ScriptedClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, scriptedStep{err: err})
	return s
}

// ErrScriptExhausted is returned once all queued steps have been consumed.
var ErrScriptExhausted = errors.New("llm: scripted client has no more steps queued")

func (s *ScriptedClient) InvokeStructured(_ context.Context, req Request) (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, req)

	if s.position >= len(s.steps) {
		return Response{}, ErrScriptExhausted
	}
	step := s.steps[s.position]
	s.position++

	if step.err != nil {
		return Response{}, step.err
	}
	return step.response, nil
}

// Calls returns every request this client received, in order, for test
// assertions about prompt content or call count.
func (s *ScriptedClient) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.calls...)
}
