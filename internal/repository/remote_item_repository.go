package repository

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"driftnote-server/internal/backend"
	"driftnote-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

// RemoteItemRepository is the adapter over the remote CouchDB backend.
// Every call is one round trip: no retries, no caching. Errors are
// returned to the orchestrator, which owns the fallback decision.
type RemoteItemRepository interface {
	Insert(item *domain.Item) error
	Update(id string, fields *domain.UpdateItemRequest, updatedAt time.Time) error
	Delete(id string) error
	FindByID(id string) (*domain.Item, error)
	ListChildren(parentID *string) ([]domain.Item, error)
	Search(query string) ([]domain.Item, error)
}

type remoteItemRepository struct {
	gate *backend.Gate
}

func NewRemoteItemRepository(gate *backend.Gate) RemoteItemRepository {
	return &remoteItemRepository{gate: gate}
}

func docID(id string) string {
	return fmt.Sprintf("item:%s", id)
}

func (r *remoteItemRepository) Insert(item *domain.Item) error {
	client, dbName, err := r.gate.Client()
	if err != nil {
		return err
	}
	db := client.DB(dbName)

	if _, err := db.Put(context.Background(), docID(item.ID), item); err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

func (r *remoteItemRepository) Update(id string, fields *domain.UpdateItemRequest, updatedAt time.Time) error {
	client, dbName, err := r.gate.Client()
	if err != nil {
		return err
	}
	db := client.DB(dbName)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID(id))
	if err := row.ScanDoc(&existingDoc); err != nil {
		return fmt.Errorf("failed to fetch existing item for update: %w", err)
	}

	if fields.Title != nil {
		existingDoc["title"] = *fields.Title
	}
	if fields.Content != nil {
		existingDoc["content"] = *fields.Content
	}
	if fields.Icon != nil {
		existingDoc["icon"] = *fields.Icon
	}
	if fields.ParentID != nil {
		existingDoc["parent_id"] = *fields.ParentID
	}
	existingDoc["updated_at"] = updatedAt

	if _, err := db.Put(context.Background(), docID(id), existingDoc); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

func (r *remoteItemRepository) Delete(id string) error {
	client, dbName, err := r.gate.Client()
	if err != nil {
		return err
	}
	db := client.DB(dbName)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), docID(id))
	if err := row.ScanDoc(&existingDoc); err != nil {
		return fmt.Errorf("failed to fetch item for delete: %w", err)
	}

	rev, _ := existingDoc["_rev"].(string)
	if _, err := db.Delete(context.Background(), docID(id), rev); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// FindByID returns (nil, nil) when no row holds the identifier; absence
// is not an error and must not trigger the fallback path.
func (r *remoteItemRepository) FindByID(id string) (*domain.Item, error) {
	client, dbName, err := r.gate.Client()
	if err != nil {
		return nil, err
	}
	db := client.DB(dbName)

	row := db.Get(context.Background(), docID(id))

	var item domain.Item
	if err := row.ScanDoc(&item); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}
	return &item, nil
}

func (r *remoteItemRepository) ListChildren(parentID *string) ([]domain.Item, error) {
	client, dbName, err := r.gate.Client()
	if err != nil {
		return nil, err
	}
	db := client.DB(dbName)

	var parent interface{}
	if parentID != nil {
		parent = *parentID
	}

	// Every sort field needs a selector predicate or CouchDB rejects the
	// query with no_usable_index; $gt null matches any present value.
	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"kind":       map[string]interface{}{"$exists": true},
			"parent_id":  parent,
			"created_at": map[string]interface{}{"$gt": nil},
		},
		"sort": []map[string]string{{"parent_id": "asc"}, {"created_at": "asc"}},
	}

	return r.find(db, query, "failed to list children")
}

func (r *remoteItemRepository) Search(queryText string) ([]domain.Item, error) {
	client, dbName, err := r.gate.Client()
	if err != nil {
		return nil, err
	}
	db := client.DB(dbName)

	pattern := "(?i)" + regexp.QuoteMeta(queryText)
	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"kind": map[string]interface{}{"$exists": true},
			"$or": []map[string]interface{}{
				{"title": map[string]interface{}{"$regex": pattern}},
				{"content": map[string]interface{}{"$regex": pattern}},
			},
		},
	}

	return r.find(db, query, "failed to search items")
}

func (r *remoteItemRepository) find(db *kivik.DB, query map[string]interface{}, errPrefix string) ([]domain.Item, error) {
	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", errPrefix, err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.ScanDoc(&item); err != nil {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}
