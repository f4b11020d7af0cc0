package resumes

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// userLocks serializes résumé changes and applications per user within this
// process. Users share one of lockStripes mutexes.
type userLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *userLocks) lock(userID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	mu := &l.stripes[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}
