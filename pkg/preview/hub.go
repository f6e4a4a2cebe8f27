package preview

import (
	"sync"

	"github.com/vango-dev/sitekit/pkg/mediaquery"
)

// Hub tracks the open media bridges by viewport id.
type Hub struct {
	mu    sync.Mutex
	views map[string]*viewport
}

type viewport struct {
	bridge *mediaquery.Bridge
	mobile *mediaquery.Observation
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{views: make(map[string]*viewport)}
}

// attach registers bridge under id and starts observing the mobile query on
// it. A previous bridge with the same id is closed. The returned detach
// func stops the observation and forgets the bridge.
func (hb *Hub) attach(id string, bridge *mediaquery.Bridge) (*mediaquery.Observation, func()) {
	obs := mediaquery.IsMobile(bridge)
	v := &viewport{bridge: bridge, mobile: obs}

	hb.mu.Lock()
	prev := hb.views[id]
	hb.views[id] = v
	hb.mu.Unlock()

	if prev != nil {
		prev.bridge.Close()
	}

	return obs, func() {
		obs.Close()
		hb.mu.Lock()
		if hb.views[id] == v {
			delete(hb.views, id)
		}
		hb.mu.Unlock()
	}
}

// Mobile reports whether the viewport id currently matches the mobile query.
// ok is false when no bridge is open for id.
func (hb *Hub) Mobile(id string) (mobile, ok bool) {
	hb.mu.Lock()
	v := hb.views[id]
	hb.mu.Unlock()
	if v == nil {
		return false, false
	}
	return v.mobile.Matches(), true
}

// Len returns the number of open bridges.
func (hb *Hub) Len() int {
	hb.mu.Lock()
	defer hb.mu.Unlock()
	return len(hb.views)
}

// CloseAll closes every open bridge.
func (hb *Hub) CloseAll() {
	hb.mu.Lock()
	views := make([]*viewport, 0, len(hb.views))
	for _, v := range hb.views {
		views = append(views, v)
	}
	hb.mu.Unlock()

	for _, v := range views {
		v.bridge.Close()
	}
}
