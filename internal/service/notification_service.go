package service

import (
	"context"
	"fmt"

	"github.com/tutorhub/tutorhub/internal/apperr"
	"github.com/tutorhub/tutorhub/internal/model"
	"go.uber.org/zap"
)

// NotificationService is the durable message sink. Lifecycle services
// call Send inside their own transactions; the folder views are served
// off the pool-backed stores.
type NotificationService struct {
	db     DB
	logger *zap.Logger
}

func NewNotificationService(db DB, logger *zap.Logger) *NotificationService {
	return &NotificationService{db: db, logger: logger}
}

// Send materializes a draft within the caller's store bundle: the
// message row plus the receiver's inbox copy and the sender's sent copy.
// When st is transaction-bound the message commits or rolls back with
// the caller's state change, so success here is logged at Debug only;
// callers log at Info once the transaction commits.
func (s *NotificationService) Send(ctx context.Context, st Stores, draft model.MessageDraft) (*model.Message, error) {
	kind := draft.Kind
	message := &model.Message{
		SenderID:   draft.SenderID,
		ReceiverID: draft.ReceiverID,
		Subject:    draft.Subject,
		Body:       draft.Body,
		Kind:       &kind,
	}

	if err := st.Messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("send notification: %w", err)
	}

	s.logger.Debug("Notification queued",
		zap.Int64("message_id", message.ID),
		zap.Int64("sender_id", message.SenderID),
		zap.Int64("receiver_id", message.ReceiverID),
		zap.String("kind", string(draft.Kind)),
	)

	return message, nil
}

// Inbox returns the user's inbox, newest first.
func (s *NotificationService) Inbox(ctx context.Context, userID int64) ([]*model.Message, error) {
	messages, err := s.db.Stores().Messages.GetFolder(ctx, userID, model.FolderInbox)
	if err != nil {
		s.logger.Error("Failed to load inbox", zap.Int64("user_id", userID), zap.Error(err))
		return nil, apperr.Persistence(err)
	}
	return messages, nil
}

// Sent returns the user's sent folder, newest first.
func (s *NotificationService) Sent(ctx context.Context, userID int64) ([]*model.Message, error) {
	messages, err := s.db.Stores().Messages.GetFolder(ctx, userID, model.FolderSent)
	if err != nil {
		s.logger.Error("Failed to load sent folder", zap.Int64("user_id", userID), zap.Error(err))
		return nil, apperr.Persistence(err)
	}
	return messages, nil
}

// MarkRead marks the user's copy of the message as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, messageID int64) error {
	affected, err := s.db.Stores().Messages.SetRead(ctx, messageID, userID, true)
	if err != nil {
		return apperr.Persistence(err)
	}
	if affected == 0 {
		return apperr.NotFound("message not found")
	}
	return nil
}

// Trash moves the user's copy of the message to the trash folder.
func (s *NotificationService) Trash(ctx context.Context, userID, messageID int64) error {
	affected, err := s.db.Stores().Messages.SetFolder(ctx, messageID, userID, model.FolderTrash)
	if err != nil {
		return apperr.Persistence(err)
	}
	if affected == 0 {
		return apperr.NotFound("message not found")
	}
	return nil
}
