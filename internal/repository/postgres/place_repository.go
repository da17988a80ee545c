package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/urbexlog/places-service/internal/domain"
	"github.com/urbexlog/places-service/internal/domain/repository"
	"github.com/urbexlog/places-service/internal/pkg/errors"
	"go.uber.org/zap"
)

type placeRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPlaceRepository(db *DB) repository.PlaceRepository {
	return &placeRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

const placeColumns = `id, name, description, lat, lng, status, image_url, visited_date, created_at, updated_at`

func (r *placeRepository) List(ctx context.Context) ([]*domain.Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places ORDER BY id DESC`

	places := []*domain.Place{}
	if err := r.db.SelectContext(ctx, &places, query); err != nil {
		r.logger.Error("Failed to list places", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return places, nil
}

func (r *placeRepository) GetByID(ctx context.Context, id int64) (*domain.Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places WHERE id = $1`

	var place domain.Place
	err := r.db.GetContext(ctx, &place, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrPlaceNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get place by ID", zap.Int64("id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &place, nil
}

func (r *placeRepository) Create(ctx context.Context, place *domain.Place) (*domain.Place, error) {
	query := `
		INSERT INTO places (name, description, lat, lng, status, image_url, visited_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + placeColumns

	var created domain.Place
	err := r.db.GetContext(ctx, &created, query,
		place.Name, place.Description, place.Lat, place.Lng,
		place.Status, place.ImageURL, place.VisitedDate,
	)
	if err != nil {
		r.logger.Error("Failed to create place", zap.String("name", place.Name), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &created, nil
}

func (r *placeRepository) Update(ctx context.Context, place *domain.Place) (*domain.Place, error) {
	query := `
		UPDATE places
		SET name = $2, description = $3, lat = $4, lng = $5,
		    status = $6, image_url = $7, visited_date = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + placeColumns

	var updated domain.Place
	err := r.db.GetContext(ctx, &updated, query,
		place.ID, place.Name, place.Description, place.Lat, place.Lng,
		place.Status, place.ImageURL, place.VisitedDate,
	)
	if err == sql.ErrNoRows {
		return nil, errors.ErrPlaceNotFound
	}
	if err != nil {
		r.logger.Error("Failed to update place", zap.Int64("id", place.ID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &updated, nil
}

func (r *placeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete place", zap.Int64("id", id), zap.Error(err))
		return errors.ErrDatabaseError
	}

	affected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Failed to read rows affected", zap.Int64("id", id), zap.Error(err))
		return errors.ErrDatabaseError
	}
	if affected == 0 {
		return errors.ErrPlaceNotFound
	}

	return nil
}
