package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"peppolcheck/internal/participant/models"
)

// InMemoryStore is a map-backed participant store for tests and local runs
// without a database. Query semantics match PostgresStore.
type InMemoryStore struct {
	mu           sync.RWMutex
	participants map[string]models.Participant
}

// NewInMemory returns a store seeded with participants.
func NewInMemory(participants ...models.Participant) *InMemoryStore {
	s := &InMemoryStore{participants: make(map[string]models.Participant, len(participants))}
	for _, p := range participants {
		s.participants[p.FullPID] = p
	}
	return s
}

// Save inserts or replaces a participant. An empty FullPID is derived from
// scheme and endpoint.
func (s *InMemoryStore) Save(_ context.Context, p models.Participant) error {
	if p.FullPID == "" {
		p.FullPID = p.SchemeID + ":" + p.EndpointID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants[p.FullPID] = p
	return nil
}

func (s *InMemoryStore) FindByFullID(_ context.Context, fullPID string) (*models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[fullPID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *InMemoryStore) FindByEndpointID(_ context.Context, endpointID string) ([]models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Participant
	for _, p := range s.participants {
		if strings.EqualFold(p.EndpointID, endpointID) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, bySchemeThenPID)
	return out, nil
}

func (s *InMemoryStore) FindByEndpointCandidates(_ context.Context, original string, candidates []string) ([]models.Participant, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	wanted := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		wanted[strings.ToLower(c)] = struct{}{}
	}

	s.mu.RLock()
	var out []models.Participant
	for _, p := range s.participants {
		if _, ok := wanted[strings.ToLower(p.EndpointID)]; ok {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()

	rank := func(p models.Participant) int {
		switch {
		case p.EndpointID == original:
			return 0
		case strings.EqualFold(p.EndpointID, original):
			return 1
		default:
			return 2
		}
	}
	slices.SortFunc(out, func(a, b models.Participant) int {
		if c := cmp.Compare(rank(a), rank(b)); c != 0 {
			return c
		}
		return bySchemeThenPID(a, b)
	})
	return out, nil
}

func (s *InMemoryStore) List(_ context.Context, filter models.Filter, page models.Page) ([]models.Participant, error) {
	all := s.filtered(filter)
	slices.SortFunc(all, func(a, b models.Participant) int {
		// empty names sort last, like NULLs in SQL
		if (a.CompanyName == "") != (b.CompanyName == "") {
			if a.CompanyName == "" {
				return 1
			}
			return -1
		}
		if c := cmp.Compare(a.CompanyName, b.CompanyName); c != 0 {
			return c
		}
		return cmp.Compare(a.FullPID, b.FullPID)
	})

	start := len(all)
	if !page.Overflows() {
		start = min(max(page.Offset(), 0), len(all))
	}
	end := min(start+page.Limit, len(all))
	return all[start:end], nil
}

func (s *InMemoryStore) Count(_ context.Context, filter models.Filter) (int, error) {
	return len(s.filtered(filter)), nil
}

func (s *InMemoryStore) Countries(_ context.Context) ([]string, error) {
	return s.distinct(func(p models.Participant) string { return strings.TrimSpace(p.CountryCode) }), nil
}

func (s *InMemoryStore) Schemes(_ context.Context) ([]string, error) {
	return s.distinct(func(p models.Participant) string { return p.SchemeID }), nil
}

func (s *InMemoryStore) filtered(filter models.Filter) []models.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		if matches(&p, filter) {
			out = append(out, p)
		}
	}
	return out
}

func (s *InMemoryStore) distinct(field func(models.Participant) string) []string {
	s.mu.RLock()
	seen := make(map[string]struct{})
	for _, p := range s.participants {
		if v := field(p); v != "" {
			seen[v] = struct{}{}
		}
	}
	s.mu.RUnlock()

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

func bySchemeThenPID(a, b models.Participant) int {
	if c := cmp.Compare(a.SchemeID, b.SchemeID); c != 0 {
		return c
	}
	return cmp.Compare(a.FullPID, b.FullPID)
}
