// Package repository implements the data-access layer over the store
// capability interface: Users, Messages (chat-scoped), Groups with
// membership cascades, and the thin Chat repository used by orchestration.
//
// Repositories validate inputs before touching the store and never call
// each other; cross-entity consistency for groups is executed here as
// ordered, non-atomic store operations.
package repository

import "time"

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
