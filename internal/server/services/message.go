package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkrasnov-dev/baraholka/internal/common"
	"github.com/dkrasnov-dev/baraholka/internal/server/models"
	"github.com/dkrasnov-dev/baraholka/internal/server/repositories/repomanager"
)

// MessageService handles direct messages between accounts.
type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewMessageService(db *sql.DB, m repomanager.RepositoryManager) *MessageService {
	return &MessageService{db: db, repomanager: m}
}

// Send stores a message from one account to another. The recipient must
// exist; a vanished recipient yields ErrorNotFound.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID int64, body string) (*models.Message, error) {
	if body == "" {
		return nil, common.ErrorValidation
	}
	if senderID == recipientID {
		return nil, common.ErrorValidation
	}

	if _, err := s.repomanager.Accounts(s.db).GetByID(ctx, recipientID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error resolving recipient: %w", err)
	}

	message := &models.Message{SenderID: senderID, RecipientID: recipientID, Body: body}
	m, err := s.repomanager.Messages(s.db).Create(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("error sending message: %w", err)
	}
	return m, nil
}
