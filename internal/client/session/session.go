// Package session is the interaction state machine coordinating the map, the
// list and the edit form against the server. The UI mode is one tagged value,
// never a set of independent booleans: browsing, adding a spot, or editing one
// place (optionally with a dragged, unconfirmed location).
package session

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/urbexlog/places-service/internal/client/api"
	"github.com/urbexlog/places-service/internal/client/cache"
	"github.com/urbexlog/places-service/internal/domain"
	"go.uber.org/zap"
)

// Mode is the exclusive UI mode.
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeAddingSpot
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeAddingSpot:
		return "adding"
	case ModeEditing:
		return "editing"
	default:
		return "browsing"
	}
}

// API is the slice of the places client the session drives.
type API interface {
	ListPlaces(ctx context.Context) ([]api.Place, error)
	CreatePlace(ctx context.Context, location domain.Location, name string) (*api.Place, error)
	UpdatePlace(ctx context.Context, id int64, form api.UpdateForm) (*api.Place, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PlaceStatus) (*api.Place, error)
	DeletePlace(ctx context.Context, id int64) error
}

// EditForm is what the edit card submits on confirm.
type EditForm struct {
	Name        string
	Description string
	Status      domain.PlaceStatus
	VisitedDate string
	Picture     io.Reader
	PictureName string
}

// Session owns the ephemeral interaction state. Mutations are synchronous:
// the machine never leaves its state until the server has confirmed, and a
// failed request leaves everything in place so the user can retry.
type Session struct {
	mu     sync.Mutex
	api    API
	cache  *cache.Cache
	logger *zap.Logger

	mode         Mode
	selectedID   int64
	editing      *api.Place
	tempLocation *domain.Location
	activeFilter string
	searchTerm   string
}

func New(apiClient API, placeCache *cache.Cache, logger *zap.Logger) *Session {
	return &Session{
		api:          apiClient,
		cache:        placeCache,
		logger:       logger,
		mode:         ModeBrowsing,
		activeFilter: cache.FilterAll,
	}
}

// Load performs the initial fetch into the place cache.
func (s *Session) Load(ctx context.Context) error {
	places, err := s.api.ListPlaces(ctx)
	if err != nil {
		return err
	}
	s.cache.Replace(places)
	return nil
}

// SelectPlace toggles the selection. Selecting while adding first exits add
// mode; selecting the already-selected place deselects it.
func (s *Session) SelectPlace(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tempLocation = nil

	if s.selectedID == id {
		s.toBrowsingLocked()
		return
	}

	place, ok := s.cache.Get(id)
	if !ok {
		s.toBrowsingLocked()
		return
	}

	s.mode = ModeEditing
	s.selectedID = id
	s.editing = &place
}

// ToggleAddMode flips between browsing and add-a-spot, dropping any selection.
func (s *Session) ToggleAddMode() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ModeAddingSpot {
		s.toBrowsingLocked()
		return
	}

	s.toBrowsingLocked()
	s.mode = ModeAddingSpot
}

// AddSpot handles a map click while in add mode. An empty name means the user
// cancelled the prompt: nothing is created and the machine stays in add mode.
// On success the new place opens for editing.
func (s *Session) AddSpot(ctx context.Context, location domain.Location, name string) error {
	s.mu.Lock()
	if s.mode != ModeAddingSpot {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		return nil
	}

	created, err := s.api.CreatePlace(ctx, location, name)
	if err != nil {
		s.logger.Warn("Failed to create place", zap.Error(err))
		return err
	}

	s.cache.Prepend(*created)

	s.mu.Lock()
	defer s.mu.Unlock()

	// A fresh suggestion must not be invisible under the current filter.
	if s.activeFilter != cache.FilterAll && s.activeFilter != string(domain.StatusSuggestion) {
		s.activeFilter = cache.FilterAll
	}

	s.mode = ModeEditing
	s.selectedID = created.ID
	s.editing = created
	s.tempLocation = nil
	return nil
}

// MarkerDrag records an unconfirmed candidate position. Only the selected
// place's marker is draggable, so drags outside editing are ignored.
func (s *Session) MarkerDrag(location domain.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeEditing {
		return
	}
	loc := location
	s.tempLocation = &loc
}

// Confirm commits the edit form plus any pending dragged location. The temp
// location is cleared whether or not the server accepts; on failure the
// machine stays in editing so the user can retry.
func (s *Session) Confirm(ctx context.Context, form EditForm) error {
	s.mu.Lock()
	if s.mode != ModeEditing || s.editing == nil {
		s.mu.Unlock()
		return nil
	}
	id := s.editing.ID
	temp := s.tempLocation
	s.tempLocation = nil
	s.mu.Unlock()

	update := api.UpdateForm{
		Name:        form.Name,
		Description: form.Description,
		Status:      form.Status,
		VisitedDate: form.VisitedDate,
		Location:    temp,
		Picture:     form.Picture,
		PictureName: form.PictureName,
	}
	if form.Status == domain.StatusVisited && update.VisitedDate == "" {
		update.VisitedDate = domain.Today()
	}

	updated, err := s.api.UpdatePlace(ctx, id, update)
	if err != nil {
		s.logger.Warn("Failed to update place", zap.Int64("id", id), zap.Error(err))
		return err
	}

	s.cache.Apply(*updated)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.toBrowsingLocked()
	return nil
}

// Cancel discards the temp location and any unsaved edits.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toBrowsingLocked()
}

// Delete removes the edited place after the confirm callback approves. On
// failure the machine stays in editing and the error surfaces to the caller.
func (s *Session) Delete(ctx context.Context, confirm func(name string) bool) error {
	s.mu.Lock()
	if s.mode != ModeEditing || s.editing == nil {
		s.mu.Unlock()
		return nil
	}
	id := s.editing.ID
	name := s.editing.Name
	s.mu.Unlock()

	if confirm != nil && !confirm(name) {
		return nil
	}

	if err := s.api.DeletePlace(ctx, id); err != nil {
		s.logger.Warn("Failed to delete place", zap.Int64("id", id), zap.Error(err))
		return err
	}

	s.cache.Remove(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.toBrowsingLocked()
	return nil
}

// SetFilter changes the active status filter. When the filter would hide the
// place currently open for editing, the editor closes first.
func (s *Session) SetFilter(filter string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing != nil && filter != cache.FilterAll && string(s.editing.Status) != filter {
		s.toBrowsingLocked()
	}
	s.activeFilter = filter
}

// SetSearch updates the free-text search term.
func (s *Session) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchTerm = term
}

// VisiblePlaces derives the current filtered+searched view of the cache.
func (s *Session) VisiblePlaces() []api.Place {
	s.mu.Lock()
	filter, term := s.activeFilter, s.searchTerm
	s.mu.Unlock()
	return s.cache.Filtered(filter, term)
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) SelectedID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// Editing returns a copy of the snapshot open in the edit card, if any.
func (s *Session) Editing() *api.Place {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return nil
	}
	p := *s.editing
	return &p
}

func (s *Session) TempLocation() *domain.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tempLocation == nil {
		return nil
	}
	loc := *s.tempLocation
	return &loc
}

func (s *Session) ActiveFilter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeFilter
}

func (s *Session) SearchTerm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchTerm
}

// toBrowsingLocked resets to the browsing state. Caller holds the lock.
func (s *Session) toBrowsingLocked() {
	s.mode = ModeBrowsing
	s.selectedID = 0
	s.editing = nil
	s.tempLocation = nil
}
