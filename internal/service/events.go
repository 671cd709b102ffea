// Package service contains the relationship state machine, the follow
// registry, the notification fan-out and the derived read views. Services
// hold store interfaces, never a concrete database handle.
package service

import (
	"context"

	"tunelink/backend/internal/models"
)

// RelationEvent describes one relationship transition. The state machine
// publishes these instead of writing notifications inline, so delivery
// channels can change without touching the transitions themselves.
type RelationEvent struct {
	Type models.NotificationType

	// ActorID caused the transition; RecipientID is the counterpart the
	// notification is addressed to.
	ActorID     uint
	RecipientID uint

	// RelatedID is the id of the edge the event concerns.
	RelatedID uint

	// Accepted disambiguates friend_request_response events.
	Accepted bool
}

// EventPublisher consumes relation events. Publishing is best-effort by
// contract: implementations must not fail the triggering transition, which
// is why Publish returns nothing.
type EventPublisher interface {
	Publish(ctx context.Context, ev RelationEvent)
}
