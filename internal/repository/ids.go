package repository

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// Identifier prefixes, one per collection.
const (
	RoutePrefix    = "R"
	BusPrefix      = "B"
	SchedulePrefix = "SCD"
	BookingPrefix  = "BK"
	CustomerPrefix = "CUST"
)

// idGenerator issues <prefix><millis> identifiers. The numeric part follows
// the wall clock but never repeats: two calls in the same millisecond get
// consecutive values.
type idGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newIDGenerator() *idGenerator {
	return &idGenerator{now: time.Now}
}

func (g *idGenerator) next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return prefix + strconv.FormatInt(n, 10)
}

// observe raises the floor to an id already in use, so a clock that moved
// backwards across restarts cannot reissue it.
func (g *idGenerator) observe(prefix, id string) {
	n, err := strconv.ParseInt(strings.TrimPrefix(id, prefix), 10, 64)
	if err != nil || !strings.HasPrefix(id, prefix) {
		return
	}
	g.mu.Lock()
	if n > g.last {
		g.last = n
	}
	g.mu.Unlock()
}
