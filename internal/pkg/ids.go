package pkg

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateGameID returns a random session identifier.
func GenerateGameID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate uuid: %w", err)
	}

	return id.String(), nil
}

// IsGameID reports whether id looks like a value produced by GenerateGameID.
func IsGameID(id string) bool {
	return uuid.Validate(id) == nil
}
