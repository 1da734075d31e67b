// Package service implements the application use cases on top of storage,
// the calculator core and the realtime hub. Services validate input, enforce
// membership and ownership rules, and return apperr-typed failures for the
// transport layer to map.
package service

import (
	"context"
	"fmt"

	"github.com/hisab-io/hisab/internal/apperr"
	"github.com/hisab-io/hisab/internal/models"
	"github.com/hisab-io/hisab/internal/realtime"
	"github.com/hisab-io/hisab/internal/storage"
)

// Broadcaster fans realtime events out to a group's channel. Broadcasts are
// fire-and-forget: implementations must never block the caller on slow or
// broken connections.
type Broadcaster interface {
	Broadcast(groupID string, event realtime.Event, payload interface{})
}

// NopBroadcaster discards all events. Used when no realtime hub is wired,
// and in tests.
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(string, realtime.Event, interface{}) {}

// requireMember loads a group and verifies the user belongs to it.
func requireMember(ctx context.Context, store storage.Store, userID, groupID string) (*models.Group, error) {
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(userID) {
		return nil, apperr.Permission("you must be a member of this group")
	}
	return group, nil
}

// internalErr wraps unexpected storage failures for transport mapping.
func internalErr(op string, err error) error {
	if apperr.KindOf(err) != apperr.KindInternal {
		return err
	}
	return apperr.Internal(fmt.Errorf("%s: %w", op, err))
}
