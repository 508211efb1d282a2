// Package fixtures provides testify mocks for the capabilities the
// services depend on.
package fixtures

import (
	"context"
	"sync"

	"github.com/casevault/casevault/pkg/domain/auth"
	"github.com/casevault/casevault/pkg/relay"
	"github.com/casevault/casevault/pkg/service/login"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type MockAuthenticator struct {
	mock.Mock
}

func NewMockAuthenticator(t testingT) *MockAuthenticator {
	m := &MockAuthenticator{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAuthenticator) AuthenticateWithPassword(
	ctx context.Context,
	email, password string,
) (*auth.Session, error) {
	args := m.Called(ctx, email, password)
	sess, _ := args.Get(0).(*auth.Session)
	return sess, args.Error(1)
}

type MockRelayer struct {
	mock.Mock
}

func NewMockRelayer(t testingT) *MockRelayer {
	m := &MockRelayer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRelayer) Relay(ctx context.Context, token auth.IdentityToken) relay.Result {
	args := m.Called(ctx, token)
	return args.Get(0).(relay.Result)
}

// RecordingNotifier keeps every notice it is shown.
type RecordingNotifier struct {
	mu      sync.Mutex
	notices []login.Notice
}

func (n *RecordingNotifier) Notify(notice login.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *RecordingNotifier) Notices() []login.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]login.Notice(nil), n.notices...)
}

// Errors returns the error notices only.
func (n *RecordingNotifier) Errors() []login.Notice {
	var out []login.Notice
	for _, notice := range n.Notices() {
		if notice.Kind == login.NoticeError {
			out = append(out, notice)
		}
	}
	return out
}

type RecordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *RecordingNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *RecordingNavigator) Routes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.routes...)
}
