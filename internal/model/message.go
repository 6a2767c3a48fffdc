package model

import "time"

// MessageKind tags the structured purpose of a notification. Free-form
// mail has no kind.
type MessageKind string

const (
	MessageKindJoinRequest      MessageKind = "join_request"
	MessageKindRequestAccepted  MessageKind = "request_accepted"
	MessageKindRequestDenied    MessageKind = "request_denied"
	MessageKindSessionCancelled MessageKind = "session_cancelled"
	MessageKindRemoved          MessageKind = "removed_from_session"
	MessageKindSpotFreed        MessageKind = "spot_freed"
)

type Folder string

const (
	FolderInbox Folder = "inbox"
	FolderSent  Folder = "sent"
	FolderTrash Folder = "trash"
)

// Message is a directed notification. Immutable once sent; only the
// per-viewer box state (folder, read flag) changes afterwards.
type Message struct {
	ID         int64        `json:"id"`
	PublicID   string       `json:"public_id"`
	SenderID   int64        `json:"sender_id"`
	ReceiverID int64        `json:"receiver_id"`
	Subject    string       `json:"subject"`
	Body       string       `json:"body"`
	Kind       *MessageKind `json:"kind,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`

	// Box state of the viewing identity, populated on folder listings.
	Folder Folder `json:"folder,omitempty"`
	IsRead bool   `json:"is_read"`
}

// MessageDraft is a notification waiting to be written. Cascades build a
// deterministic slice of drafts from current state and execute them inside
// the same transaction as the state mutation.
type MessageDraft struct {
	SenderID   int64
	ReceiverID int64
	Subject    string
	Body       string
	Kind       MessageKind
}
