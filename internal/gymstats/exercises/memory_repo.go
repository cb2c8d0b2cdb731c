package exercises

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryRepo keeps definitions in process. Every read and write works on a
// cloned snapshot, so an aggregate is swapped as a whole or not at all.
type MemoryRepo struct {
	mutex       sync.RWMutex
	definitions map[string]*Definition
	ownerKeys   map[ownerKey]string
}

type ownerKey struct {
	owner string
	key   string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		definitions: make(map[string]*Definition),
		ownerKeys:   make(map[ownerKey]string),
	}
}

func (r *MemoryRepo) Get(_ context.Context, id string) (*Definition, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	def, ok := r.definitions[id]
	if !ok {
		return nil, ErrExerciseNotFound
	}
	return def.Clone(), nil
}

func (r *MemoryRepo) List(_ context.Context, params ListParams) ([]Definition, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	defs := make([]Definition, 0, len(r.definitions))
	for _, def := range r.definitions {
		ownerMatches := def.Owner == params.Owner || (params.IncludeSystem && def.Owner == SystemOwner)
		if !ownerMatches {
			continue
		}
		if params.Category != "" && def.Category != params.Category {
			continue
		}
		defs = append(defs, *def.Clone())
	}

	slices.SortFunc(defs, func(a, b Definition) int {
		return cmp.Or(
			cmp.Compare(a.Key, b.Key),
			cmp.Compare(a.Owner, b.Owner),
		)
	})
	return defs, nil
}

func (r *MemoryRepo) Create(_ context.Context, def *Definition) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	k := ownerKey{owner: def.Owner, key: def.Key}
	if _, exists := r.ownerKeys[k]; exists {
		return &ConflictError{Owner: def.Owner, Key: def.Key}
	}
	if _, exists := r.definitions[def.ID]; exists {
		return &IntegrityError{Op: "create", Err: ErrDuplicateID}
	}

	r.definitions[def.ID] = def.Clone()
	r.ownerKeys[k] = def.ID
	return nil
}

func (r *MemoryRepo) Replace(_ context.Context, def *Definition) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, ok := r.definitions[def.ID]
	if !ok {
		return ErrExerciseNotFound
	}
	if existing.Owner != def.Owner || existing.Key != def.Key {
		return &IntegrityError{Op: "replace", Err: ErrIdentityChanged}
	}

	r.definitions[def.ID] = def.Clone()
	return nil
}
