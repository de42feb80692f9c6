package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/welldanyogia/mailstore/internal/models"
)

// MockMailRepository implements repository.MailRepository
type MockMailRepository struct {
	mock.Mock
}

// Create inserts a mail record and returns its id
func (m *MockMailRepository) Create(ctx context.Context, subject, body string) (int64, error) {
	args := m.Called(ctx, subject, body)
	return args.Get(0).(int64), args.Error(1)
}

// Get retrieves a mail record by id
func (m *MockMailRepository) Get(ctx context.Context, id int64) (*models.Mail, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Mail), args.Bool(1), args.Error(2)
}

// GetAll retrieves every mail record
func (m *MockMailRepository) GetAll(ctx context.Context) ([]models.Mail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Mail), args.Error(1)
}

// Update overwrites subject and body
func (m *MockMailRepository) Update(ctx context.Context, id int64, subject, body string) (bool, error) {
	args := m.Called(ctx, id, subject, body)
	return args.Bool(0), args.Error(1)
}

// Delete removes a mail record
func (m *MockMailRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
