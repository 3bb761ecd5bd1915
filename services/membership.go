package services

import (
	"context"

	"github.com/PatrikF1/backend-ProjectPartner/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// joinMembers adds userID to a capacity-limited member set. The checks on the
// loaded document give precise errors; the conditional store update is what
// actually guards capacity under concurrent joins.
func joinMembers(ctx context.Context, store memberStore, kind string, id, userID primitive.ObjectID, isMember, isFull bool) error {
	if isMember {
		return invalid("you are already a member of this %s", kind)
	}
	if isFull {
		return invalid("%s is full", kind)
	}
	added, err := store.AddMember(ctx, id, userID, true)
	if err != nil {
		return internal("failed to join "+kind, err)
	}
	if !added {
		return invalid("%s is full", kind)
	}
	return nil
}

func leaveMembers(ctx context.Context, store memberStore, kind string, id, userID primitive.ObjectID, isMember bool) error {
	if !isMember {
		return invalid("you are not a member of this %s", kind)
	}
	removed, err := store.RemoveMember(ctx, id, userID)
	if err != nil {
		return internal("failed to leave "+kind, err)
	}
	if !removed {
		return invalid("you are not a member of this %s", kind)
	}
	return nil
}

func validCapacity(capacity *int) bool {
	return capacity == nil || (*capacity >= models.MinCapacity && *capacity <= models.MaxCapacity)
}
