// Package notes is the demo domain behind notesd: a small note store
// with every endpoint declared as a charter contract.
//
// The package doubles as the adapter's reference integration. Between
// them, the endpoints exercise each input channel, both hooks, and the
// request event log.
package notes

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Note is the stored record and the response shape.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps notes in memory. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	notes map[string]Note
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{notes: make(map[string]Note)}
}

// Insert stores a new note and returns it with ID and creation time set.
func (s *Store) Insert(title, body string, tags []string) Note {
	note := Note{
		ID:        uuid.New().String(),
		Title:     title,
		Body:      body,
		Tags:      append([]string(nil), tags...),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.notes[note.ID] = note
	s.mu.Unlock()

	return note
}

// Get returns the note with id.
func (s *Store) Get(id string) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	note, ok := s.notes[id]
	return note, ok
}

// List returns notes newest first. A non-empty tag keeps only notes
// carrying it; a positive limit caps the result.
func (s *Store) List(limit int, tag string) []Note {
	s.mu.RLock()
	result := make([]Note, 0, len(s.notes))
	for _, note := range s.notes {
		if tag != "" && !hasTag(note, tag) {
			continue
		}
		result = append(result, note)
	}
	s.mu.RUnlock()

	// ID breaks creation-time ties so the order is stable.
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

// Delete removes the note with id, reporting whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return false
	}
	delete(s.notes, id)
	return true
}

// Len reports how many notes are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

func hasTag(note Note, tag string) bool {
	for _, t := range note.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
