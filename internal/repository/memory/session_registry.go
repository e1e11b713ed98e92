package memory

import (
	"time"

	"ai-interview-be/internal/session"

	"github.com/patrickmn/go-cache"
)

// SessionRegistry holds the live state machine of every connected session.
// Machines expire if a client vanishes without a clean teardown.
type SessionRegistry struct {
	cache *cache.Cache
}

func NewSessionRegistry() *SessionRegistry {
	// Default expiration of 4 hours, purging expired items every 10 minutes
	c := cache.New(4*time.Hour, 10*time.Minute)
	return &SessionRegistry{
		cache: c,
	}
}

func (r *SessionRegistry) Save(machine *session.Machine) {
	r.cache.Set(machine.Id, machine, cache.DefaultExpiration)
}

func (r *SessionRegistry) Get(sessionId string) (*session.Machine, bool) {
	if x, found := r.cache.Get(sessionId); found {
		return x.(*session.Machine), true
	}
	return nil, false
}

func (r *SessionRegistry) Delete(sessionId string) {
	r.cache.Delete(sessionId)
}

func (r *SessionRegistry) Items() []*session.Machine {
	items := r.cache.Items()
	machines := make([]*session.Machine, 0, len(items))
	for _, item := range items {
		machines = append(machines, item.Object.(*session.Machine))
	}
	return machines
}
