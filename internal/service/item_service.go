package service

import (
	"errors"
	"strings"
	"time"

	"driftnote-server/internal/backend"
	"driftnote-server/internal/domain"
	"driftnote-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventBroadcaster receives an event after every successful mutation.
// Implemented by the websocket manager.
type EventBroadcaster interface {
	Broadcast(event *domain.ItemEvent)
}

// ItemService orchestrates the two storage substrates. Every operation
// attempts the remote backend first and falls back to the local store on
// configuration absence or on any remote error. No operation returns an
// error: the contract is a best-effort result, always.
type ItemService struct {
	remote repository.RemoteItemRepository
	local  *repository.LocalItemRepository
	events EventBroadcaster
	logger *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewItemService(
	remote repository.RemoteItemRepository,
	local *repository.LocalItemRepository,
	events EventBroadcaster,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		remote: remote,
		local:  local,
		events: events,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// timestamp stamps whole-second UTC so the RFC3339 form is fixed-width
// and string collation (the remote sort) equals chronological order.
func (s *ItemService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func (s *ItemService) CreateFolder(req *domain.CreateFolderRequest) *domain.Item {
	now := s.timestamp()
	item := &domain.Item{
		ID:        s.newID(),
		Kind:      domain.KindFolder,
		ParentID:  req.ParentID,
		Title:     req.Title,
		Icon:      req.Icon,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.remote.Insert(item); err != nil {
		s.logFallback("create folder", err)
		s.appendLocal(item)
	}

	s.broadcast(&domain.ItemEvent{Action: domain.EventCreated, ItemID: item.ID, Item: item})
	return item
}

func (s *ItemService) CreateNote(req *domain.CreateNoteRequest) *domain.Item {
	now := s.timestamp()
	item := &domain.Item{
		ID:        s.newID(),
		Kind:      domain.KindNote,
		ParentID:  req.ParentID,
		Title:     req.Title,
		Content:   "",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.remote.Insert(item); err != nil {
		s.logFallback("create note", err)
		s.appendLocal(item)
	}

	s.broadcast(&domain.ItemEvent{Action: domain.EventCreated, ItemID: item.ID, Item: item})
	return item
}

// UpdateItem merges a partial field set into the record and stamps
// updated_at. When the remote update fails the merge is applied to the
// local store as an additional write; the resulting divergence between
// substrates is accepted, not reconciled.
func (s *ItemService) UpdateItem(id string, req *domain.UpdateItemRequest) {
	updatedAt := s.timestamp()

	if err := s.remote.Update(id, req, updatedAt); err != nil {
		s.logFallback("update item", err)
		s.updateLocal(id, req, updatedAt)
	}

	s.broadcast(&domain.ItemEvent{Action: domain.EventUpdated, ItemID: id})
}

// DeleteItem removes the record. No cascade: descendants of a deleted
// folder stay in place, reachable by id or search only. The fallback path
// rewrites both collections without checking which one held the id.
func (s *ItemService) DeleteItem(id string) {
	if err := s.remote.Delete(id); err != nil {
		s.logFallback("delete item", err)
		s.removeLocal(id)
	}

	s.broadcast(&domain.ItemEvent{Action: domain.EventDeleted, ItemID: id})
}

// ListChildren returns the items whose parent is parentID (nil = root).
// The remote path orders ascending by creation time; the fallback path
// preserves collection storage order only.
func (s *ItemService) ListChildren(parentID *string) []domain.Item {
	items, err := s.remote.ListChildren(parentID)
	if err != nil {
		s.logFallback("list children", err)
		return filterByParent(s.local.LoadAll(), parentID)
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items
}

// GetByID returns nil when no record holds the identifier. A healthy
// remote answering "absent" is final; the local store is only consulted
// when the remote path is unavailable.
func (s *ItemService) GetByID(id string) *domain.Item {
	item, err := s.remote.FindByID(id)
	if err != nil {
		s.logFallback("get item", err)
		return s.findLocal(id)
	}
	return item
}

// Search matches queryText case-insensitively as a substring of title or
// content, across folders and notes alike.
func (s *ItemService) Search(queryText string) []domain.Item {
	items, err := s.remote.Search(queryText)
	if err != nil {
		s.logFallback("search items", err)
		return searchLocal(s.local.LoadAll(), queryText)
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items
}

func (s *ItemService) logFallback(op string, err error) {
	if errors.Is(err, backend.ErrNotConfigured) {
		s.logger.Debug("remote backend not configured, using local store", zap.String("op", op))
		return
	}
	s.logger.Warn("remote call failed, using local fallback", zap.String("op", op), zap.Error(err))
}

func (s *ItemService) appendLocal(item *domain.Item) {
	collection := repository.CollectionFor(item.Kind)
	items := s.local.Load(collection)
	s.local.Save(collection, append(items, *item))
}

func (s *ItemService) updateLocal(id string, req *domain.UpdateItemRequest, updatedAt time.Time) {
	for _, collection := range []string{repository.CollectionNotes, repository.CollectionFolders} {
		items := s.local.Load(collection)
		for i := range items {
			if items[i].ID != id {
				continue
			}
			if req.Title != nil {
				items[i].Title = *req.Title
			}
			if req.Content != nil {
				items[i].Content = *req.Content
			}
			if req.Icon != nil {
				items[i].Icon = *req.Icon
			}
			if req.ParentID != nil {
				items[i].ParentID = req.ParentID
			}
			items[i].UpdatedAt = updatedAt
			s.local.Save(collection, items)
			return
		}
	}
}

func (s *ItemService) removeLocal(id string) {
	for _, collection := range []string{repository.CollectionNotes, repository.CollectionFolders} {
		items := s.local.Load(collection)
		kept := items[:0]
		for _, item := range items {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		s.local.Save(collection, kept)
	}
}

func (s *ItemService) findLocal(id string) *domain.Item {
	for _, item := range s.local.LoadAll() {
		if item.ID == id {
			found := item
			return &found
		}
	}
	return nil
}

func (s *ItemService) broadcast(event *domain.ItemEvent) {
	if s.events != nil {
		s.events.Broadcast(event)
	}
}

func filterByParent(items []domain.Item, parentID *string) []domain.Item {
	children := []domain.Item{}
	for _, item := range items {
		if sameParent(item.ParentID, parentID) {
			children = append(children, item)
		}
	}
	return children
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func searchLocal(items []domain.Item, queryText string) []domain.Item {
	needle := strings.ToLower(queryText)
	matches := []domain.Item{}
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), needle) ||
			strings.Contains(strings.ToLower(item.Content), needle) {
			matches = append(matches, item)
		}
	}
	return matches
}
