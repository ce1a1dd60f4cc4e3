package download

import (
	"crypto/sha256"
)

// seenCache records the image URLs and contents already handled for a
// release. It is used by a single goroutine.
type seenCache struct {
	urls   map[string]struct{}
	hashes map[[sha256.Size]byte]struct{}
}

func newSeenCache() *seenCache {
	return &seenCache{
		urls:   make(map[string]struct{}),
		hashes: make(map[[sha256.Size]byte]struct{}),
	}
}

// recordURL records url and reports whether it had been recorded before.
func (s *seenCache) recordURL(url string) bool {
	if _, ok := s.urls[url]; ok {
		return true
	}
	s.urls[url] = struct{}{}
	return false
}

// recordContent records the hash of data and reports whether the same
// content had been recorded before.
func (s *seenCache) recordContent(data []byte) bool {
	sum := sha256.Sum256(data)
	if _, ok := s.hashes[sum]; ok {
		return true
	}
	s.hashes[sum] = struct{}{}
	return false
}
