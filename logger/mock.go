package logger

import (
	"github.com/stretchr/testify/mock"
)

// MockLogger is a testify mock implementing Logger.
//
// Tests set expectations on the method names ("Debug", "Error", ...) with the
// message as first argument and the key-value slice as second.
type MockLogger struct {
	mock.Mock
}

var _ Logger = (*MockLogger)(nil)

func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// Quiet accepts any Debug, Info, Warn and Error call, so a test only has to
// assert on the records it cares about. With returns the mock itself.
//
// Expectations registered before Quiet take precedence.
func (m *MockLogger) Quiet() *MockLogger {
	for _, method := range []string{"Debug", "Info", "Warn", "Error"} {
		m.On(method, mock.Anything, mock.Anything).Return().Maybe()
	}
	m.On("With", mock.Anything).Return(m).Maybe()

	return m
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) { m.Called(msg, keysAndValues) }
func (m *MockLogger) Info(msg string, keysAndValues ...any)  { m.Called(msg, keysAndValues) }
func (m *MockLogger) Warn(msg string, keysAndValues ...any)  { m.Called(msg, keysAndValues) }
func (m *MockLogger) Error(msg string, keysAndValues ...any) { m.Called(msg, keysAndValues) }
func (m *MockLogger) Fatal(msg string, keysAndValues ...any) { m.Called(msg, keysAndValues) }

func (m *MockLogger) SetLevel(level Level) {
	m.Called(level)
}

func (m *MockLogger) Level() Level {
	args := m.Called()
	return args.Get(0).(Level) //nolint:forcetypeassert
}

// With records the key-values as a single slice argument.
func (m *MockLogger) With(keyValues ...any) Logger {
	args := m.Called(keyValues)
	if l, ok := args.Get(0).(Logger); ok {
		return l
	}

	return m
}
