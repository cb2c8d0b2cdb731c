package exercises

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

//go:embed seed_exercises.toml
var seedExercisesTOML string

type definitionWriter interface {
	CreateDefinition(ctx context.Context, owner string, req CreateRequest) (*Definition, error)
}

// SystemSeed returns the built-in exercises as create requests.
func SystemSeed() ([]CreateRequest, error) {
	var seed struct {
		Exercises []CreateRequest `toml:"exercises"`
	}
	if _, err := toml.Decode(seedExercisesTOML, &seed); err != nil {
		return nil, fmt.Errorf("decode system exercises: %w", err)
	}
	return seed.Exercises, nil
}

// SeedSystemDefinitions creates the built-in exercises owned by SystemOwner.
// Exercises whose key already exists are left untouched, so it is safe to run
// on every startup.
func SeedSystemDefinitions(ctx context.Context, writer definitionWriter) (int, error) {
	seed, err := SystemSeed()
	if err != nil {
		return 0, err
	}

	created := 0
	for _, req := range seed {
		_, err := writer.CreateDefinition(ctx, SystemOwner, req)
		var conflictErr *ConflictError
		switch {
		case err == nil:
			created++
		case errors.As(err, &conflictErr):
			log.Tracef("system exercise [%s] already seeded", req.Key)
		default:
			return created, fmt.Errorf("seed system exercise [%s]: %w", req.Key, err)
		}
	}

	log.Debugf("system exercises seeded: %d created, %d total", created, len(seed))
	return created, nil
}
