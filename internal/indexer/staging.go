package indexer

import "sync"

// setMap maps a byte-string key to a set of byte-string values. Jobs
// accumulate into private setMaps and fold them into the shared
// staging maps when done.
type setMap map[string]map[string]struct{}

func (m setMap) insert(key, value string) {
	set, ok := m[key]
	if !ok {
		set = make(map[string]struct{})
		m[key] = set
	}
	set[value] = struct{}{}
}

// unite folds src into m and empties src.
func (m setMap) unite(src setMap) {
	for key, values := range src {
		set, ok := m[key]
		if !ok {
			m[key] = values
			continue
		}
		for v := range values {
			set[v] = struct{}{}
		}
	}
	clear(src)
}

// stagingMap is one category's shared accumulator, guarded by its own
// lock so the four categories merge independently.
type stagingMap struct {
	mu   sync.Mutex
	data setMap
}

func newStagingMap() *stagingMap {
	return &stagingMap{data: make(setMap)}
}

func (s *stagingMap) insert(key, value string) {
	s.mu.Lock()
	s.data.insert(key, value)
	s.mu.Unlock()
}

func (s *stagingMap) fold(src setMap) {
	s.mu.Lock()
	s.data.unite(src)
	s.mu.Unlock()
}

func (s *stagingMap) empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data) == 0
}
