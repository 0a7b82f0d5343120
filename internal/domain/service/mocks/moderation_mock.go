package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/transgate/internal/domain/models"
)

// MockContentClassifier is a mock implementation of ContentClassifier
type MockContentClassifier struct {
	mock.Mock
}

func (m *MockContentClassifier) Analyze(ctx context.Context, text string, categories []models.HarmCategory) (*models.ClassifierResult, error) {
	args := m.Called(ctx, text, categories)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClassifierResult), args.Error(1)
}

// MockModerationGate is a mock implementation of ModerationGate
type MockModerationGate struct {
	mock.Mock
}

func (m *MockModerationGate) Screen(ctx context.Context, text string) (*models.ModerationVerdict, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ModerationVerdict), args.Error(1)
}

// MockTranslator is a mock implementation of Translator
type MockTranslator struct {
	mock.Mock
}

func (m *MockTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	args := m.Called(ctx, text, sourceLang, targetLang)
	return args.String(0), args.Error(1)
}

// MockMetrics is a mock implementation of Metrics
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordAuthResult(result string) { m.Called(result) }

func (m *MockMetrics) RecordKeyFetch(result string) { m.Called(result) }

func (m *MockMetrics) RecordCacheAccess(tier string, hit bool) { m.Called(tier, hit) }

func (m *MockMetrics) RecordModeration(stage string, result string) { m.Called(stage, result) }

func (m *MockMetrics) RecordTranslation(result string, duration time.Duration) {
	m.Called(result, duration)
}

func (m *MockMetrics) RecordUpstreamCall(upstream string, duration time.Duration, err error) {
	m.Called(upstream, duration, err)
}
