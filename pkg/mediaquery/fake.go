package mediaquery

import "sync"

// Fake is an in-memory Platform whose match state is set by the caller.
type Fake struct {
	mu     sync.Mutex
	state  map[string]bool
	subs   map[string]map[uint64]func(bool)
	nextID uint64
	calls  int
}

// NewFake returns a Fake where every query initially does not match.
func NewFake() *Fake {
	return &Fake{
		state: make(map[string]bool),
		subs:  make(map[string]map[uint64]func(bool)),
	}
}

// Subscribe implements Platform.
func (f *Fake) Subscribe(query string, onChange func(bool)) (bool, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	id := f.nextID
	f.nextID++
	if f.subs[query] == nil {
		f.subs[query] = make(map[uint64]func(bool))
	}
	f.subs[query][id] = onChange

	var once sync.Once
	return f.state[query], func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs[query], id)
			f.mu.Unlock()
		})
	}
}

// Set records the match state for query and notifies its subscribers.
func (f *Fake) Set(query string, matches bool) {
	f.mu.Lock()
	f.state[query] = matches
	fns := make([]func(bool), 0, len(f.subs[query]))
	for _, fn := range f.subs[query] {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(matches)
	}
}

// Subscribers returns the number of live listeners for query.
func (f *Fake) Subscribers(query string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[query])
}

// Calls returns how many times Subscribe was called.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
