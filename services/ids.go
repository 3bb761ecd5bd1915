package services

import (
	"errors"
	"strings"

	"github.com/PatrikF1/backend-ProjectPartner/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseID turns a hex id from a path or body into an ObjectID. what names the
// field in the error message.
func parseID(raw, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, invalid("invalid %s", what)
	}
	return id, nil
}

// lookupErr maps a repository lookup failure onto a service error.
func lookupErr(err error, what string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound("%s not found", what)
	}
	return internal("failed to load "+what, err)
}

// writeErr maps a failed store write onto a service error.
func writeErr(err error, verb, what string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound("%s not found", what)
	}
	return internal("failed to "+verb+" "+what, err)
}
