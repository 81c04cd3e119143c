package mongo

import (
	"errors"
	"fmt"

	"github.com/Beka01247/brewline/internal/repo"
	"go.mongodb.org/mongo-driver/mongo"
)

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, repo.ErrNotFound)
}

func wrapWriteError(what string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to %s: %w", what, repo.ErrDuplicate)
	}
	return fmt.Errorf("failed to %s: %w", what, err)
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
