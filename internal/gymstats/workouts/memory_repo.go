package workouts

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

type MemoryRepo struct {
	mutex    sync.RWMutex
	sessions map[string]*Session
	entries  map[string]*Entry
	// entry ids per session, in recording order
	sessionEntries map[string][]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		sessions:       make(map[string]*Session),
		entries:        make(map[string]*Entry),
		sessionEntries: make(map[string][]string),
	}
}

func (r *MemoryRepo) GetSession(_ context.Context, id string) (*Session, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return r.assemble(session), nil
}

func (r *MemoryRepo) CreateSession(_ context.Context, session *Session) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored := *session
	stored.Entries = nil
	r.sessions[session.ID] = &stored
	for i := range session.Entries {
		entry := cloneEntry(&session.Entries[i])
		entry.SessionID = session.ID
		r.entries[entry.ID] = entry
		r.sessionEntries[session.ID] = append(r.sessionEntries[session.ID], entry.ID)
	}
	return nil
}

func (r *MemoryRepo) AddEntry(_ context.Context, entry *Entry) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if entry.SessionID != "" {
		if _, ok := r.sessions[entry.SessionID]; !ok {
			return ErrSessionNotFound
		}
		r.sessionEntries[entry.SessionID] = append(r.sessionEntries[entry.SessionID], entry.ID)
	}
	r.entries[entry.ID] = cloneEntry(entry)
	return nil
}

func (r *MemoryRepo) GetEntry(_ context.Context, id string) (*Entry, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return cloneEntry(entry), nil
}

func (r *MemoryRepo) ListSessions(_ context.Context, params ListSessionsParams) ([]Session, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	sessions := []Session{}
	for _, session := range r.sessions {
		if session.Owner != params.Owner {
			continue
		}
		if params.From != "" && session.Date < params.From {
			continue
		}
		if params.To != "" && session.Date > params.To {
			continue
		}
		sessions = append(sessions, *r.assemble(session))
	}

	slices.SortFunc(sessions, func(a, b Session) int {
		return cmp.Or(
			cmp.Compare(b.Date, a.Date),
			cmp.Compare(b.StartTime, a.StartTime),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return sessions, nil
}

func (r *MemoryRepo) ListHistory(_ context.Context, owner string) ([]HistoryEntry, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	type dated struct {
		HistoryEntry
		startTime string
		position  int
	}

	var all []dated
	for _, entry := range r.entries {
		if entry.Owner != owner {
			continue
		}
		d := dated{
			HistoryEntry: HistoryEntry{
				Entry: *cloneEntry(entry),
				Date:  entry.CreatedAt.UTC().Format(dateLayout),
			},
		}
		if session, ok := r.sessions[entry.SessionID]; ok {
			d.Date = session.Date
			d.startTime = session.StartTime
			d.position = slices.Index(r.sessionEntries[session.ID], entry.ID)
		}
		all = append(all, d)
	}

	slices.SortFunc(all, func(a, b dated) int {
		return cmp.Or(
			cmp.Compare(b.Date, a.Date),
			cmp.Compare(b.startTime, a.startTime),
			cmp.Compare(b.position, a.position),
			b.CreatedAt.Compare(a.CreatedAt),
		)
	})

	history := make([]HistoryEntry, 0, len(all))
	for _, d := range all {
		history = append(history, d.HistoryEntry)
	}
	return history, nil
}

func (r *MemoryRepo) assemble(session *Session) *Session {
	assembled := *session
	assembled.Entries = make([]Entry, 0, len(r.sessionEntries[session.ID]))
	for _, id := range r.sessionEntries[session.ID] {
		assembled.Entries = append(assembled.Entries, *cloneEntry(r.entries[id]))
	}
	return &assembled
}

func cloneEntry(e *Entry) *Entry {
	c := *e
	c.Variations = make(map[string]string, len(e.Variations))
	for k, v := range e.Variations {
		c.Variations[k] = v
	}
	c.Sets = append([]Set{}, e.Sets...)
	if e.Distance != nil {
		d := *e.Distance
		c.Distance = &d
	}
	return &c
}
