package candidates

import (
	"sort"
	"sync"

	"github.com/candidatelabs/talentsync/pkg/identity"
)

// Roster is a thread-safe container for the reconciled candidate set.
// It is the only shared mutable resource in the system; all writes flow
// through Merge so the field-ownership rules hold no matter which job is
// writing.
type Roster struct {
	mu         sync.RWMutex
	candidates map[identity.Key]CandidateRecord
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{
		candidates: make(map[identity.Key]CandidateRecord),
	}
}

// Get returns a copy of the candidate for a key.
func (r *Roster) Get(key identity.Key) (CandidateRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.candidates[key]
	if !ok {
		return CandidateRecord{}, false
	}
	return rec.Copy(), true
}

// Len returns the number of candidates.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.candidates)
}

// List returns copies of all candidates ordered by key for stable output.
func (r *Roster) List() []CandidateRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CandidateRecord, 0, len(r.candidates))
	for _, rec := range r.candidates {
		out = append(out, rec.Copy())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Keys returns all candidate keys in sorted order.
func (r *Roster) Keys() []identity.Key {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]identity.Key, 0, len(r.candidates))
	for key := range r.candidates {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ByClient returns candidates grouped by client, each group ordered by name.
func (r *Roster) ByClient() map[string][]CandidateRecord {
	grouped := make(map[string][]CandidateRecord)
	for _, rec := range r.List() {
		grouped[rec.Client] = append(grouped[rec.Client], rec)
	}
	for client := range grouped {
		group := grouped[client]
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })
		grouped[client] = group
	}
	return grouped
}

// Copy returns a deep copy of the roster, giving readers a consistent
// snapshot independent of subsequent merges.
func (r *Roster) Copy() *Roster {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := NewRoster()
	for key, rec := range r.candidates {
		out.candidates[key] = rec.Copy()
	}
	return out
}

// Put stores a candidate as-is, replacing any existing record for its key.
// Load paths use Put; live updates go through Merge.
func (r *Roster) Put(rec CandidateRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidates[rec.Key] = rec.Copy()
}

// Delete removes a candidate from the roster.
func (r *Roster) Delete(key identity.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.candidates, key)
}
