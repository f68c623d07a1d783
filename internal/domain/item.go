package domain

import "time"

type ItemKind string

const (
	KindFolder ItemKind = "folder"
	KindNote   ItemKind = "note"
)

// Item is the unified folder-or-note record. Folders and notes share one
// identifier space and one logical collection; Kind discriminates them.
type Item struct {
	ID       string   `json:"id"`
	Kind     ItemKind `json:"kind"`
	ParentID *string  `json:"parent_id"`

	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
	Icon    string `json:"icon,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateFolderRequest struct {
	Title    string  `json:"title" validate:"required"`
	ParentID *string `json:"parent_id"`
	Icon     string  `json:"icon"`
}

type CreateNoteRequest struct {
	Title    string  `json:"title" validate:"required"`
	ParentID *string `json:"parent_id"`
}

// UpdateItemRequest carries a partial field set; nil fields are left
// untouched by the merge.
type UpdateItemRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Icon     *string `json:"icon"`
	ParentID *string `json:"parent_id"`
}

type EventAction string

const (
	EventCreated EventAction = "created"
	EventUpdated EventAction = "updated"
	EventDeleted EventAction = "deleted"
)

// ItemEvent is broadcast over the change feed after a successful mutation.
type ItemEvent struct {
	Action EventAction `json:"action"`
	ItemID string      `json:"item_id"`
	Item   *Item       `json:"item,omitempty"`
}
