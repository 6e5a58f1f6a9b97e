// Package store defines the capability interface the repositories consume.
// Any conforming backend (the Mongo adapter, the in-memory reference store)
// is interchangeable; repositories are otherwise store-agnostic.
package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Collection namespaces. Subcollections are addressed by composite paths and
// form a distinct namespace per parent document.
const (
	Users  = "users"
	Chats  = "chats"
	Groups = "groups"
)

// ChatMessages returns the namespace holding a chat's message subcollection.
func ChatMessages(chatID string) string {
	return fmt.Sprintf("%s/%s/messages", Chats, chatID)
}

// GroupMembers returns the namespace holding a group's membership documents.
func GroupMembers(groupID string) string {
	return fmt.Sprintf("%s/%s/members", Groups, groupID)
}

// Store is the minimal document-store contract. Absent documents surface as
// apperr.ErrNotFound; Patch on a missing document is an error, repositories
// must not patch a nonexistent entity.
type Store interface {
	// Get fetches a single document by id.
	Get(ctx context.Context, namespace, id string) (bson.M, error)
	// Set writes a full document, overwriting any existing one.
	Set(ctx context.Context, namespace, id string, doc bson.M) error
	// Patch merges partial into an existing document: present fields
	// overwrite, absent fields are untouched.
	Patch(ctx context.Context, namespace, id string, partial bson.M) error
	// Delete removes a document.
	Delete(ctx context.Context, namespace, id string) error
	// Scan returns every document in the namespace. Order is unspecified;
	// any ordering guarantee is the repository's job.
	Scan(ctx context.Context, namespace string) ([]bson.M, error)
	// QueryEqual returns documents whose field equals value exactly.
	QueryEqual(ctx context.Context, namespace, field string, value any) ([]bson.M, error)
	// QueryContains returns documents whose array field contains value.
	QueryContains(ctx context.Context, namespace, field string, value any) ([]bson.M, error)
	// DeleteNamespace removes every document under the namespace. Used for
	// subcollection wipes during cascading deletes; deleting an empty or
	// unknown namespace is not an error.
	DeleteNamespace(ctx context.Context, namespace string) error
	// NewID returns a fresh document id (the store's auto-id facility).
	NewID() string
}
