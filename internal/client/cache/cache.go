// Package cache holds the client's last-confirmed snapshot of the place list.
// It is only ever written from server responses, never from intended changes,
// so the client can never display a state the server rejected.
package cache

import (
	"strings"
	"sync"

	"github.com/urbexlog/places-service/internal/client/api"
	"github.com/urbexlog/places-service/internal/domain"
)

// FilterAll widens the status filter to every place.
const FilterAll = "all"

type Cache struct {
	mu     sync.RWMutex
	places []api.Place
}

func New() *Cache {
	return &Cache{}
}

// Replace swaps in a full snapshot from the server.
func (c *Cache) Replace(places []api.Place) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.places = append([]api.Place(nil), places...)
}

// Prepend inserts a freshly created place at the head, matching the server's
// id-descending order.
func (c *Cache) Prepend(place api.Place) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.places = append([]api.Place{place}, c.places...)
}

// Apply merges the server's confirmed version of one place.
func (c *Cache) Apply(place api.Place) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.places {
		if c.places[i].ID == place.ID {
			c.places[i] = place
			return
		}
	}
}

// Remove drops a deleted place.
func (c *Cache) Remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.places {
		if c.places[i].ID == id {
			c.places = append(c.places[:i], c.places[i+1:]...)
			return
		}
	}
}

// Get returns a copy of the place, if cached.
func (c *Cache) Get(id int64) (api.Place, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.places {
		if p.ID == id {
			return p, true
		}
	}
	return api.Place{}, false
}

// All returns the full snapshot, order preserved.
func (c *Cache) All() []api.Place {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]api.Place(nil), c.places...)
}

// Len reports the snapshot size.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.places)
}

// Filtered derives the visible view: status filter first, then a
// case-insensitive substring match over name or description. Pure and total;
// order preserved.
func (c *Cache) Filtered(filter string, searchTerm string) []api.Place {
	c.mu.RLock()
	defer c.mu.RUnlock()

	term := strings.ToLower(strings.TrimSpace(searchTerm))

	result := make([]api.Place, 0, len(c.places))
	for _, p := range c.places {
		if filter != FilterAll && p.Status != domain.PlaceStatus(filter) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		result = append(result, p)
	}
	return result
}
