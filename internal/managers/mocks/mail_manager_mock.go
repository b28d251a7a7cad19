package mocks

import "github.com/stretchr/testify/mock"

type MockMailManager struct {
	mock.Mock
}

func (m *MockMailManager) SendWelcomeMail(email, username string) error {
	args := m.Called(email, username)
	return args.Error(0)
}
