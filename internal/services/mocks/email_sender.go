package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/pos-inventory/internal/models"
	"github.com/stretchr/testify/mock"
)

type EmailSender struct {
	mock.Mock
}

func (m *EmailSender) Send(ctx context.Context, msg *models.EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
