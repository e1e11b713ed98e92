package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// PendingResume is an uploaded resume waiting for its indexing job to finish.
type PendingResume struct {
	ResumeId        string
	ParticipantName string
	Text            string
	UploadedAt      time.Time
}

// PendingResumeStore keeps uploads visible while the async indexing worker
// runs, keyed by participant name. Entries expire so an abandoned upload does
// not linger forever.
type PendingResumeStore struct {
	cache *cache.Cache
}

func NewPendingResumeStore(ttl time.Duration) *PendingResumeStore {
	return &PendingResumeStore{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (s *PendingResumeStore) Put(participantName string, resume *PendingResume) {
	s.cache.Set(participantName, resume, cache.DefaultExpiration)
}

func (s *PendingResumeStore) Get(participantName string) (*PendingResume, bool) {
	if x, found := s.cache.Get(participantName); found {
		return x.(*PendingResume), true
	}
	return nil, false
}

func (s *PendingResumeStore) Remove(participantName string) {
	s.cache.Delete(participantName)
}
