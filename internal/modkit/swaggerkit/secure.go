package swaggerkit

import (
	"sort"
	"strings"
	"sync"
)

var (
	secMu   sync.RWMutex
	secured = map[string]map[string]bool{}
)

// MarkSecurePath records that method on path requires the owner scope
// paths are relative to the API base, e.g. "/filters/{id}"
func MarkSecurePath(path, method string) {
	secMu.Lock()
	defer secMu.Unlock()
	m, ok := secured[path]
	if !ok {
		m = map[string]bool{}
		secured[path] = m
	}
	m[strings.ToLower(method)] = true
}

// SecuredPaths returns the recorded paths with their methods sorted
func SecuredPaths() map[string][]string {
	secMu.RLock()
	defer secMu.RUnlock()
	out := make(map[string][]string, len(secured))
	for p, ms := range secured {
		list := make([]string, 0, len(ms))
		for m := range ms {
			list = append(list, m)
		}
		sort.Strings(list)
		out[p] = list
	}
	return out
}

func resetSecured() {
	secMu.Lock()
	secured = map[string]map[string]bool{}
	secMu.Unlock()
}
