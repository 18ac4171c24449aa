package mongodb

import (
	"github.com/brightfold/api/internal/platform/mongodb"
	"github.com/brightfold/api/internal/repositories"
)

// wrapError maps driver failures onto the repository error taxonomy.
func wrapError(op string, message string, err error) error {
	if err == nil {
		return nil
	}
	kind := repositories.KindUnknown
	switch {
	case mongodb.IsNoDocuments(err):
		kind = repositories.KindNotFound
	case mongodb.IsDuplicateKey(err):
		kind = repositories.KindConflict
	case mongodb.IsUnavailable(err):
		kind = repositories.KindUnavailable
	}
	return repositories.NewStorageError(op, kind, message, err)
}

func repositoryNotFound(op string, id string) error {
	return repositories.NotFoundError(op, "document "+id+" not found")
}
