package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// IsDuplicateKey reports whether an error stems from a unique index violation.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if we.Code == 11000 {
				return true
			}
		}
	}
	return false
}

// IsNoDocuments reports whether a query matched nothing.
func IsNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// IsUnavailable reports whether the deployment could not be reached in time.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}
