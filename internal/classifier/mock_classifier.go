package classifier

import (
	"context"
	"sync"
)

// MockClassifier provides a scripted Classifier for testing. Per-id verdicts
// take precedence over the default verdict.
type MockClassifier struct {
	mu sync.Mutex

	// Default is the verdict returned for ids without a scripted entry.
	Default Verdict

	// Verdicts maps target text ids to scripted verdicts.
	Verdicts map[int64]Verdict

	// Err, when set, fails every call.
	Err error

	// Calls records the contexts passed to Classify, in order.
	Calls []Context
}

var _ Classifier = (*MockClassifier)(nil)

// NewMockClassifier creates a mock that marks everything non-toxic.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{Verdicts: make(map[int64]Verdict)}
}

// Script sets the verdict for one target text id.
func (m *MockClassifier) Script(textID int64, v Verdict) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Verdicts[textID] = v
}

// Classify returns the scripted verdict for the target id.
func (m *MockClassifier) Classify(_ context.Context,
	c Context) (Verdict, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, c)
	if m.Err != nil {
		return Verdict{}, m.Err
	}
	if v, ok := m.Verdicts[c.Target.ID]; ok {
		return v, nil
	}

	return m.Default, nil
}

// CallCount returns how many classifications were requested.
func (m *MockClassifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.Calls)
}
