// Package obslog is the structured-diagnostics collaborator shared by
// the restriction, modification, and aggregation paths: a single
// injected go-kit/log.Logger rather than a package-level log.Default()
// call, the way friggdb.New takes a log.Logger instead of reaching for
// one globally.
package obslog

import (
	"sync"

	"github.com/go-kit/log"
)

var (
	mu     sync.RWMutex
	logger log.Logger = log.NewNopLogger()
)

// Set installs the logger used by every package that calls Get. Hosts
// that don't call Set get a no-op logger, matching friggdb's pattern
// of an always-valid injected logger rather than a nil check at every
// call site.
func Set(l log.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = log.NewNopLogger()
	}
	logger = l
}

// Get returns the current logger unchanged, the way
// friggdb.New's logger is shared unchanged across its collaborators.
func Get() log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
