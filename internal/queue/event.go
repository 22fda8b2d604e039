// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// CatalogQueueName is the durable queue catalog changes are published to.
const CatalogQueueName = "catalog.changed"

// Action names the kind of change applied to a catalog row.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Entity names used in CatalogChangedEvent.Entity.
const (
	EntityRegion = "region"
	EntityEvent  = "event"
)

// CatalogChangedEvent is published after a region or event row was written
// through the REST API. Consumers get the row key, not its contents, and
// re-read the database when they need more.
type CatalogChangedEvent struct {
	ID     string `json:"id"`
	Entity string `json:"entity"`
	Key    string `json:"key"`
	Action Action `json:"action"`
	At     string `json:"at"`
}

// NewCatalogChangedEvent stamps a new event with a random id and the UTC
// time now.
func NewCatalogChangedEvent(entity, key string, action Action, now time.Time) CatalogChangedEvent {
	return CatalogChangedEvent{
		ID:     uuid.NewString(),
		Entity: entity,
		Key:    key,
		Action: action,
		At:     now.UTC().Format(time.RFC3339),
	}
}
