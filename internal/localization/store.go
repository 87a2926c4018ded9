package localization

import (
	"context"
	"slices"
	"sync"
)

// DefaultContentTable is the content element table queried by the stores.
const DefaultContentTable = "tt_content"

// ContentStore is the read side of the content table.
type ContentStore interface {
	// ContainerUIDs returns the uids in uids whose content type is one of
	// types.
	ContainerUIDs(ctx context.Context, uids []int64, types []string) ([]int64, error)
	// ContainerChildren returns the rows in uids whose parent container
	// reference is not zero.
	ContainerChildren(ctx context.Context, uids []int64) ([]ContentRecord, error)
}

// MemoryContentStore keeps content rows in memory.
type MemoryContentStore struct {
	mu      sync.RWMutex
	records map[int64]ContentRecord
	queries int
	err     error
}

var _ ContentStore = (*MemoryContentStore)(nil)

// NewMemoryContentStore constructs a store seeded with records.
func NewMemoryContentStore(records ...ContentRecord) *MemoryContentStore {
	store := &MemoryContentStore{records: make(map[int64]ContentRecord, len(records))}
	store.Put(records...)
	return store
}

// Put inserts or replaces records by uid.
func (s *MemoryContentStore) Put(records ...ContentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		s.records[record.UID] = record.clone()
	}
}

// FailWith makes subsequent queries return err. Pass nil to clear.
func (s *MemoryContentStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Queries returns how many queries have been served.
func (s *MemoryContentStore) Queries() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queries
}

// ContainerUIDs implements ContentStore.
func (s *MemoryContentStore) ContainerUIDs(_ context.Context, uids []int64, types []string) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	if s.err != nil {
		return nil, s.err
	}
	var out []int64
	for _, uid := range dedupeUIDs(uids) {
		record, ok := s.records[uid]
		if ok && slices.Contains(types, record.ContentType) {
			out = append(out, uid)
		}
	}
	return out, nil
}

// ContainerChildren implements ContentStore.
func (s *MemoryContentStore) ContainerChildren(_ context.Context, uids []int64) ([]ContentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	if s.err != nil {
		return nil, s.err
	}
	var out []ContentRecord
	for _, uid := range dedupeUIDs(uids) {
		record, ok := s.records[uid]
		if ok && record.IsContainerChild() {
			out = append(out, record.clone())
		}
	}
	return out, nil
}

// dedupeUIDs mirrors SQL IN semantics where repeated values match once.
func dedupeUIDs(uids []int64) []int64 {
	seen := make(map[int64]struct{}, len(uids))
	out := make([]int64, 0, len(uids))
	for _, uid := range uids {
		if _, ok := seen[uid]; ok {
			continue
		}
		seen[uid] = struct{}{}
		out = append(out, uid)
	}
	return out
}
