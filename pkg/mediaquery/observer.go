package mediaquery

import (
	"sync"

	"github.com/vango-dev/sitekit/internal/errors"
)

// MobileQuery matches viewports at most 896 CSS pixels wide.
const MobileQuery = "(max-width: 896px)"

// Platform is the query-matching facility an Observation subscribes to.
//
// Subscribe registers onChange for query and returns the current match state
// together with a function that deregisters the listener. onChange may be
// invoked from any goroutine.
type Platform interface {
	Subscribe(query string, onChange func(matches bool)) (initial bool, unsubscribe func())
}

// State is the lifecycle state of an Observation.
type State int

const (
	Unsubscribed State = iota
	Matching
	NotMatching
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Matching:
		return "matching"
	case NotMatching:
		return "not-matching"
	default:
		return "unsubscribed"
	}
}

// Observation is a live boolean for a media query. It is safe for concurrent use.
type Observation struct {
	platform Platform

	mu          sync.Mutex
	query       string
	matches     bool
	subscribed  bool
	gen         uint64
	unsubscribe func()
	listeners   map[uint64]func(bool)
	nextID      uint64
}

// Observe subscribes to query on p and returns the live observation.
//
// Observe panics with error E010 if query is empty. This is a misuse guard;
// no subscription is attempted.
func Observe(p Platform, query string) *Observation {
	mustQuery(query)
	o := &Observation{
		platform:  p,
		listeners: make(map[uint64]func(bool)),
	}
	o.subscribe(query)
	return o
}

// IsMobile observes MobileQuery on p.
func IsMobile(p Platform) *Observation {
	return Observe(p, MobileQuery)
}

func mustQuery(query string) {
	if query == "" {
		panic(errors.New("E010").WithSuggestion("Pass a query such as mediaquery.MobileQuery"))
	}
}

// Matches reports whether the query currently matches.
// It returns false once the observation is closed.
func (o *Observation) Matches() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.subscribed && o.matches
}

// Query returns the query being observed.
func (o *Observation) Query() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.query
}

// State returns the current lifecycle state.
func (o *Observation) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch {
	case !o.subscribed:
		return Unsubscribed
	case o.matches:
		return Matching
	default:
		return NotMatching
	}
}

// OnChange registers fn to be called whenever the match state flips.
// The returned function removes the listener.
func (o *Observation) OnChange(fn func(matches bool)) (remove func()) {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.listeners[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.listeners, id)
		o.mu.Unlock()
	}
}

// SetQuery switches the observation to a new query. The previous
// subscription is released before the new one is made. Setting the query
// currently observed is a no-op. SetQuery panics with E010 on an empty query.
func (o *Observation) SetQuery(query string) {
	mustQuery(query)

	o.mu.Lock()
	if o.subscribed && o.query == query {
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	o.Close()
	o.subscribe(query)
}

// Close releases the platform subscription. It is safe to call more than once.
func (o *Observation) Close() {
	o.mu.Lock()
	if !o.subscribed {
		o.mu.Unlock()
		return
	}
	o.subscribed = false
	o.gen++
	unsub := o.unsubscribe
	o.unsubscribe = nil
	o.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (o *Observation) subscribe(query string) {
	o.mu.Lock()
	o.gen++
	gen := o.gen
	o.query = query
	o.matches = false
	o.subscribed = true
	o.mu.Unlock()

	// The platform may call back synchronously, so no lock is held here.
	initial, unsub := o.platform.Subscribe(query, func(matches bool) {
		o.update(gen, matches)
	})

	o.mu.Lock()
	if o.gen != gen {
		// Closed or resubscribed while Subscribe was running.
		o.mu.Unlock()
		if unsub != nil {
			unsub()
		}
		return
	}
	o.matches = initial
	o.unsubscribe = unsub
	o.mu.Unlock()
}

func (o *Observation) update(gen uint64, matches bool) {
	o.mu.Lock()
	if !o.subscribed || o.gen != gen || o.matches == matches {
		o.mu.Unlock()
		return
	}
	o.matches = matches
	fns := make([]func(bool), 0, len(o.listeners))
	for _, fn := range o.listeners {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(matches)
	}
}
