package usecase_test

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/urbexlog/places-service/internal/domain"
	"github.com/urbexlog/places-service/internal/pkg/errors"
	"github.com/urbexlog/places-service/internal/usecase"
	"github.com/urbexlog/places-service/internal/usecase/dto"
)

// MockPlaceRepository is a mock of PlaceRepository
type MockPlaceRepository struct {
	mock.Mock
}

func (m *MockPlaceRepository) List(ctx context.Context) ([]*domain.Place, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Place), args.Error(1)
}

func (m *MockPlaceRepository) GetByID(ctx context.Context, id int64) (*domain.Place, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Place), args.Error(1)
}

func (m *MockPlaceRepository) Create(ctx context.Context, place *domain.Place) (*domain.Place, error) {
	args := m.Called(ctx, place)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Place), args.Error(1)
}

func (m *MockPlaceRepository) Update(ctx context.Context, place *domain.Place) (*domain.Place, error) {
	args := m.Called(ctx, place)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Place), args.Error(1)
}

func (m *MockPlaceRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFileRepository is a mock of FileRepository
type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	args := m.Called(ctx, file)
	return args.String(0), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newUseCase(placeRepo *MockPlaceRepository, fileRepo *MockFileRepository, cacheRepo *MockCacheRepository) *usecase.PlaceUseCase {
	return usecase.NewPlaceUseCase(placeRepo, fileRepo, cacheRepo, zap.NewNop(), time.Minute)
}

func passthroughCache() *MockCacheRepository {
	cacheRepo := &MockCacheRepository{}
	cacheRepo.On("Get", mock.Anything, mock.Anything).Return(nil, nil)
	cacheRepo.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	cacheRepo.On("Delete", mock.Anything, mock.Anything).Return(nil)
	return cacheRepo
}

func floatPtr(f float64) *float64 { return &f }

func TestPlaceUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to suggestion with no image or date", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, passthroughCache())

		placeRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.Place) bool {
			return p.Status == domain.StatusSuggestion && p.ImageURL == nil && p.VisitedDate == nil
		})).Return(&domain.Place{ID: 1, Name: "Old Mill", Status: domain.StatusSuggestion}, nil)

		created, err := uc.Create(ctx, dto.CreatePlaceRequest{
			Name:     "Old Mill",
			Location: &dto.LocationPayload{Lat: floatPtr(51.5), Lng: floatPtr(-0.1)},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		assert.Nil(t, created.ImageURL)
		placeRepo.AssertExpectations(t)
	})

	t.Run("missing lat fails and persists nothing", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, passthroughCache())

		_, err := uc.Create(ctx, dto.CreatePlaceRequest{
			Name:     "Old Mill",
			Location: &dto.LocationPayload{Lng: floatPtr(-0.1)},
		})
		assert.Equal(t, errors.ErrMissingFields, err)
		placeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing location fails", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, passthroughCache())

		_, err := uc.Create(ctx, dto.CreatePlaceRequest{Name: "Old Mill"})
		assert.Equal(t, errors.ErrMissingFields, err)
	})

	t.Run("name is stripped of markup", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, passthroughCache())

		placeRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.Place) bool {
			return p.Name == "Town"
		})).Return(&domain.Place{ID: 2, Name: "Town", Status: domain.StatusSuggestion}, nil)

		created, err := uc.Create(ctx, dto.CreatePlaceRequest{
			Name:     "<script>x</script>Town",
			Location: &dto.LocationPayload{Lat: floatPtr(51.5), Lng: floatPtr(-0.1)},
		})
		require.NoError(t, err)
		assert.Equal(t, "Town", created.Name)
		placeRepo.AssertExpectations(t)
	})

	t.Run("name that is markup only fails", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, passthroughCache())

		_, err := uc.Create(ctx, dto.CreatePlaceRequest{
			Name:     "<b></b>",
			Location: &dto.LocationPayload{Lat: floatPtr(51.5), Lng: floatPtr(-0.1)},
		})
		assert.Equal(t, errors.ErrMissingFields, err)
	})

	t.Run("unknown status fails", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, passthroughCache())

		_, err := uc.Create(ctx, dto.CreatePlaceRequest{
			Name:     "Old Mill",
			Location: &dto.LocationPayload{Lat: floatPtr(51.5), Lng: floatPtr(-0.1)},
			Status:   "bulldozed",
		})
		assert.Equal(t, errors.ErrInvalidStatus, err)
	})

	t.Run("out of range coordinates fail", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, passthroughCache())

		_, err := uc.Create(ctx, dto.CreatePlaceRequest{
			Name:     "Old Mill",
			Location: &dto.LocationPayload{Lat: floatPtr(123.0), Lng: floatPtr(-0.1)},
		})
		assert.Equal(t, errors.ErrInvalidCoordinates, err)
	})

	t.Run("visited at creation gets today's date but no image", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, passthroughCache())

		today := domain.Today()
		placeRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.Place) bool {
			return p.Status == domain.StatusVisited &&
				p.VisitedDate != nil && *p.VisitedDate == today &&
				p.ImageURL == nil
		})).Return(&domain.Place{ID: 3, Status: domain.StatusVisited, VisitedDate: &today}, nil)

		_, err := uc.Create(ctx, dto.CreatePlaceRequest{
			Name:     "Bunker",
			Location: &dto.LocationPayload{Lat: floatPtr(51.5), Lng: floatPtr(-0.1)},
			Status:   domain.StatusVisited,
		})
		require.NoError(t, err)
		placeRepo.AssertExpectations(t)
	})
}

func TestPlaceUseCase_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("promote to visited sets placeholder image and today", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, passthroughCache())

		stored := &domain.Place{ID: 7, Name: "Old Mill", Status: domain.StatusSuggestion}
		placeRepo.On("GetByID", ctx, int64(7)).Return(stored, nil)

		today := domain.Today()
		placeRepo.On("Update", ctx, mock.MatchedBy(func(p *domain.Place) bool {
			return p.Status == domain.StatusVisited &&
				p.ImageURL != nil && *p.ImageURL == "https://picsum.photos/seed/7/400/300" &&
				p.VisitedDate != nil && *p.VisitedDate == today
		})).Return(stored, nil)

		_, err := uc.UpdateStatus(ctx, 7, domain.StatusVisited)
		require.NoError(t, err)
		placeRepo.AssertExpectations(t)
	})

	t.Run("demote clears image and date", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, passthroughCache())

		img := "/uploads/picture-1.jpg"
		date := "2026-08-01"
		stored := &domain.Place{ID: 7, Status: domain.StatusVisited, ImageURL: &img, VisitedDate: &date}
		placeRepo.On("GetByID", ctx, int64(7)).Return(stored, nil)

		placeRepo.On("Update", ctx, mock.MatchedBy(func(p *domain.Place) bool {
			return p.Status == domain.StatusInaccessible && p.ImageURL == nil && p.VisitedDate == nil
		})).Return(stored, nil)

		_, err := uc.UpdateStatus(ctx, 7, domain.StatusInaccessible)
		require.NoError(t, err)
		placeRepo.AssertExpectations(t)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, passthroughCache())

		placeRepo.On("GetByID", ctx, int64(99)).Return(nil, errors.ErrPlaceNotFound)

		_, err := uc.UpdateStatus(ctx, 99, domain.StatusVisited)
		assert.Equal(t, errors.ErrPlaceNotFound, err)
	})

	t.Run("unknown status rejected before any read", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, passthroughCache())

		_, err := uc.UpdateStatus(ctx, 7, "lost")
		assert.Equal(t, errors.ErrInvalidStatus, err)
		placeRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestPlaceUseCase_UpdateFull(t *testing.T) {
	ctx := context.Background()

	t.Run("non-visited status nulls image and date regardless of input", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, passthroughCache())

		img := "/uploads/picture-1.jpg"
		date := "2026-08-01"
		stored := &domain.Place{ID: 5, Status: domain.StatusVisited, ImageURL: &img, VisitedDate: &date}
		placeRepo.On("GetByID", ctx, int64(5)).Return(stored, nil)

		placeRepo.On("Update", ctx, mock.MatchedBy(func(p *domain.Place) bool {
			return p.Status == domain.StatusSuggestion && p.ImageURL == nil && p.VisitedDate == nil
		})).Return(stored, nil)

		_, err := uc.UpdateFull(ctx, 5, dto.UpdatePlaceForm{
			Name:        "Old Mill",
			Status:      "suggestion",
			VisitedDate: "2026-08-01",
		})
		require.NoError(t, err)
		placeRepo.AssertExpectations(t)
	})

	t.Run("visited without date defaults to today", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, passthroughCache())

		img := "/uploads/picture-1.jpg"
		stored := &domain.Place{ID: 5, Status: domain.StatusVisited, ImageURL: &img}
		placeRepo.On("GetByID", ctx, int64(5)).Return(stored, nil)

		today := domain.Today()
		placeRepo.On("Update", ctx, mock.MatchedBy(func(p *domain.Place) bool {
			return p.VisitedDate != nil && *p.VisitedDate == today &&
				p.ImageURL != nil && *p.ImageURL == img
		})).Return(stored, nil)

		_, err := uc.UpdateFull(ctx, 5, dto.UpdatePlaceForm{
			Name:   "Old Mill",
			Status: "visited",
		})
		require.NoError(t, err)
		placeRepo.AssertExpectations(t)
	})

	t.Run("attached picture goes through the sink", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		fileRepo := &MockFileRepository{}
		uc := newUseCase(placeRepo, fileRepo, passthroughCache())

		stored := &domain.Place{ID: 5, Status: domain.StatusSuggestion}
		placeRepo.On("GetByID", ctx, int64(5)).Return(stored, nil)

		header := &multipart.FileHeader{Filename: "mill.jpg"}
		fileRepo.On("Save", ctx, header).Return("/uploads/picture-123-abc.jpg", nil)

		placeRepo.On("Update", ctx, mock.MatchedBy(func(p *domain.Place) bool {
			return p.ImageURL != nil && *p.ImageURL == "/uploads/picture-123-abc.jpg"
		})).Return(stored, nil)

		_, err := uc.UpdateFull(ctx, 5, dto.UpdatePlaceForm{
			Name:    "Old Mill",
			Status:  "visited",
			Picture: header,
		})
		require.NoError(t, err)
		fileRepo.AssertExpectations(t)
	})

	t.Run("both coordinates must parse to move the place", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, passthroughCache())

		stored := &domain.Place{ID: 5, Lat: 51.5, Lng: -0.1, Status: domain.StatusSuggestion}
		placeRepo.On("GetByID", ctx, int64(5)).Return(stored, nil).Twice()

		// Partial location: coordinates keep their stored values.
		placeRepo.On("Update", ctx, mock.MatchedBy(func(p *domain.Place) bool {
			return p.Lat == 51.5 && p.Lng == -0.1
		})).Return(stored, nil).Once()

		_, err := uc.UpdateFull(ctx, 5, dto.UpdatePlaceForm{
			Name:   "Old Mill",
			Status: "suggestion",
			LatRaw: "52.0",
		})
		require.NoError(t, err)

		// Full location: coordinates move.
		placeRepo.On("Update", ctx, mock.MatchedBy(func(p *domain.Place) bool {
			return p.Lat == 52.0 && p.Lng == 1.25
		})).Return(stored, nil).Once()

		_, err = uc.UpdateFull(ctx, 5, dto.UpdatePlaceForm{
			Name:   "Old Mill",
			Status: "suggestion",
			LatRaw: "52.0",
			LngRaw: "1.25",
		})
		require.NoError(t, err)
		placeRepo.AssertExpectations(t)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, passthroughCache())

		_, err := uc.UpdateFull(ctx, 5, dto.UpdatePlaceForm{Name: "Old Mill", Status: "gone"})
		assert.Equal(t, errors.ErrInvalidStatus, err)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, passthroughCache())

		_, err := uc.UpdateFull(ctx, 5, dto.UpdatePlaceForm{Name: "  ", Status: "suggestion"})
		assert.Equal(t, errors.ErrInvalidName, err)
	})
}

func TestPlaceUseCase_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("missing id is not found", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := passthroughCache()
		uc := newUseCase(placeRepo, &MockFileRepository{}, cacheRepo)

		placeRepo.On("Delete", ctx, int64(42)).Return(errors.ErrPlaceNotFound)

		err := uc.Delete(ctx, 42)
		assert.Equal(t, errors.ErrPlaceNotFound, err)
		cacheRepo.AssertNotCalled(t, "Delete", mock.Anything, "places:all")
	})

	t.Run("success invalidates the list cache", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := passthroughCache()
		uc := newUseCase(placeRepo, &MockFileRepository{}, cacheRepo)

		placeRepo.On("Delete", ctx, int64(42)).Return(nil)

		require.NoError(t, uc.Delete(ctx, 42))
		cacheRepo.AssertCalled(t, "Delete", ctx, "places:all")
	})
}

func TestPlaceUseCase_List(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss falls through to the store and fills the cache", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := passthroughCache()
		uc := newUseCase(placeRepo, &MockFileRepository{}, cacheRepo)

		placeRepo.On("List", ctx).Return([]*domain.Place{
			{ID: 2, Name: "Bunker"},
			{ID: 1, Name: "Old Mill"},
		}, nil)

		places, err := uc.List(ctx)
		require.NoError(t, err)
		require.Len(t, places, 2)
		assert.Equal(t, int64(2), places[0].ID)
		cacheRepo.AssertCalled(t, "Set", ctx, "places:all", mock.Anything, mock.Anything)
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		placeRepo := &MockPlaceRepository{}
		cacheRepo := &MockCacheRepository{}
		uc := newUseCase(placeRepo, &MockFileRepository{}, cacheRepo)

		cacheRepo.On("Get", ctx, "places:all").Return([]byte(`[{"id":1,"name":"Old Mill","status":"suggestion"}]`), nil)

		places, err := uc.List(ctx)
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, "Old Mill", places[0].Name)
		placeRepo.AssertNotCalled(t, "List", mock.Anything)
	})
}
