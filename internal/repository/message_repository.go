package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tutorhub/tutorhub/internal/model"
	"github.com/tutorhub/tutorhub/internal/repository/base"
)

type MessageRepository struct {
	db base.Querier
}

func NewMessageRepository(db base.Querier) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts the message and files it into the receiver's inbox
// (unread) and the sender's sent folder (read). Three statements; the
// caller must supply a transaction-scoped Querier for atomicity.
func (r *MessageRepository) Create(ctx context.Context, message *model.Message) error {
	message.PublicID = uuid.NewString()

	query := `
		INSERT INTO messages (public_id, sender_id, receiver_id, subject, body, kind)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		message.PublicID,
		message.SenderID,
		message.ReceiverID,
		message.Subject,
		message.Body,
		message.Kind,
	).Scan(&message.ID, &message.CreatedAt)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	boxQuery := `
		INSERT INTO message_boxes (message_id, user_id, folder, is_read)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.Exec(ctx, boxQuery, message.ID, message.ReceiverID, model.FolderInbox, false); err != nil {
		return fmt.Errorf("file message to inbox: %w", err)
	}
	if _, err := r.db.Exec(ctx, boxQuery, message.ID, message.SenderID, model.FolderSent, true); err != nil {
		return fmt.Errorf("file message to sent: %w", err)
	}

	return nil
}

// GetFolder returns the user's view of a folder, newest first.
func (r *MessageRepository) GetFolder(ctx context.Context, userID int64, folder model.Folder) ([]*model.Message, error) {
	query := `
		SELECT m.id, m.public_id, m.sender_id, m.receiver_id, m.subject, m.body, m.kind,
		       m.created_at, b.folder, b.is_read
		FROM messages m
		JOIN message_boxes b ON b.message_id = m.id
		WHERE b.user_id = $1 AND b.folder = $2
		ORDER BY m.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID, folder)
	if err != nil {
		return nil, fmt.Errorf("get folder: %w", err)
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		var message model.Message
		err := rows.Scan(
			&message.ID,
			&message.PublicID,
			&message.SenderID,
			&message.ReceiverID,
			&message.Subject,
			&message.Body,
			&message.Kind,
			&message.CreatedAt,
			&message.Folder,
			&message.IsRead,
		)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &message)
	}

	return messages, rows.Err()
}

// SetRead flips the read flag on the user's copy of the message.
func (r *MessageRepository) SetRead(ctx context.Context, messageID, userID int64, read bool) (int64, error) {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE message_boxes SET is_read = $3 WHERE message_id = $1 AND user_id = $2`,
		messageID, userID, read,
	)
	if err != nil {
		return 0, fmt.Errorf("set message read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SetFolder moves the user's copy of the message between folders.
func (r *MessageRepository) SetFolder(ctx context.Context, messageID, userID int64, folder model.Folder) (int64, error) {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE message_boxes SET folder = $3 WHERE message_id = $1 AND user_id = $2`,
		messageID, userID, folder,
	)
	if err != nil {
		return 0, fmt.Errorf("set message folder: %w", err)
	}
	return tag.RowsAffected(), nil
}
