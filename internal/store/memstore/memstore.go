// Package memstore is the deterministic in-memory implementation of the
// store capability interface. It doubles as the behavioral oracle for
// merge and ordering semantics in tests.
//
// No internal locking: it is meant for single-goroutine test execution, or
// whatever external synchronization the caller already applies.
package memstore

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/fathima-sithara/chat-data/internal/apperr"
)

type namespace struct {
	docs  map[string]bson.M
	order []string // insertion order, kept stable across patches
}

type Memory struct {
	namespaces map[string]*namespace
}

func New() *Memory {
	return &Memory{namespaces: make(map[string]*namespace)}
}

func (m *Memory) ns(name string) *namespace {
	n, ok := m.namespaces[name]
	if !ok {
		n = &namespace{docs: make(map[string]bson.M)}
		m.namespaces[name] = n
	}
	return n
}

// deepCopy shields stored documents from caller mutation, the same way a
// remote store would.
func deepCopy(doc bson.M) bson.M {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return bson.M{}
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return bson.M{}
	}
	return out
}

func (m *Memory) Get(_ context.Context, namespace, id string) (bson.M, error) {
	n, ok := m.namespaces[namespace]
	if !ok {
		return nil, apperr.NotFoundf("%s/%s", namespace, id)
	}
	doc, ok := n.docs[id]
	if !ok {
		return nil, apperr.NotFoundf("%s/%s", namespace, id)
	}
	return deepCopy(doc), nil
}

func (m *Memory) Set(_ context.Context, name, id string, doc bson.M) error {
	n := m.ns(name)
	if _, exists := n.docs[id]; !exists {
		n.order = append(n.order, id)
	}
	n.docs[id] = deepCopy(doc)
	return nil
}

func (m *Memory) Patch(_ context.Context, name, id string, partial bson.M) error {
	n, ok := m.namespaces[name]
	if !ok {
		return apperr.NotFoundf("%s/%s", name, id)
	}
	doc, ok := n.docs[id]
	if !ok {
		return apperr.NotFoundf("%s/%s", name, id)
	}
	for k, v := range deepCopy(partial) {
		doc[k] = v
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, name, id string) error {
	n, ok := m.namespaces[name]
	if !ok {
		return apperr.NotFoundf("%s/%s", name, id)
	}
	if _, ok := n.docs[id]; !ok {
		return apperr.NotFoundf("%s/%s", name, id)
	}
	delete(n.docs, id)
	for i, oid := range n.order {
		if oid == id {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) Scan(_ context.Context, name string) ([]bson.M, error) {
	n, ok := m.namespaces[name]
	if !ok {
		return nil, nil
	}
	out := make([]bson.M, 0, len(n.order))
	for _, id := range n.order {
		out = append(out, deepCopy(n.docs[id]))
	}
	return out, nil
}

func (m *Memory) QueryEqual(_ context.Context, name, field string, value any) ([]bson.M, error) {
	n, ok := m.namespaces[name]
	if !ok {
		return nil, nil
	}
	var out []bson.M
	for _, id := range n.order {
		if reflect.DeepEqual(n.docs[id][field], value) {
			out = append(out, deepCopy(n.docs[id]))
		}
	}
	return out, nil
}

func (m *Memory) QueryContains(_ context.Context, name, field string, value any) ([]bson.M, error) {
	n, ok := m.namespaces[name]
	if !ok {
		return nil, nil
	}
	var out []bson.M
	for _, id := range n.order {
		arr, ok := n.docs[id][field].(bson.A)
		if !ok {
			continue
		}
		for _, elem := range arr {
			if reflect.DeepEqual(elem, value) {
				out = append(out, deepCopy(n.docs[id]))
				break
			}
		}
	}
	return out, nil
}

func (m *Memory) DeleteNamespace(_ context.Context, name string) error {
	delete(m.namespaces, name)
	return nil
}

func (m *Memory) NewID() string {
	return uuid.NewString()
}

// Len reports how many documents a namespace holds. Test helper.
func (m *Memory) Len(name string) int {
	n, ok := m.namespaces[name]
	if !ok {
		return 0
	}
	return len(n.docs)
}
