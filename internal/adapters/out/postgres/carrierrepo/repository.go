package carrierrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/carrier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

var (
	_ ports.CarrierRepository = (*GormCarrierRepository)(nil)
	_ ports.CarrierRoster     = (*GormCarrierRepository)(nil)
)

// GormCarrierRepository implements CarrierRepository and CarrierRoster using GORM.
type GormCarrierRepository struct {
	db *gorm.DB
}

func NewGormCarrierRepository(db *gorm.DB) *GormCarrierRepository {
	return &GormCarrierRepository{db: db}
}

// Add saves a new carrier to the database.
func (r *GormCarrierRepository) Add(ctx context.Context, aggregate *carrier.Carrier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update overwrites name, location and hours of an existing carrier.
func (r *GormCarrierRepository) Update(ctx context.Context, aggregate *carrier.Carrier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	// map form so zero hours are written too
	result := r.db.WithContext(ctx).
		Model(&CarrierDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"name":         dto.Name,
			"location_lat": dto.Location.Lat,
			"location_lng": dto.Location.Lng,
			"hours_worked": dto.HoursWorked,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("carrier", dto.ID)
	}
	return nil
}

// Get retrieves a carrier by ID.
func (r *GormCarrierRepository) Get(ctx context.Context, id kernel.CarrierID) (*carrier.Carrier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CarrierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("carrier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll returns the roster ordered by id.
func (r *GormCarrierRepository) GetAll(ctx context.Context) ([]*carrier.Carrier, error) {
	var dtos []CarrierDTO
	if err := r.db.WithContext(ctx).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	carriers := make([]*carrier.Carrier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		carriers = append(carriers, c)
	}

	return carriers, nil
}

// HoursWorked returns the worked hours of every roster carrier.
func (r *GormCarrierRepository) HoursWorked(ctx context.Context) (map[kernel.CarrierID]float64, error) {
	var rows []struct {
		ID          string
		HoursWorked float64
	}
	if err := r.db.WithContext(ctx).
		Model(&CarrierDTO{}).
		Select("id, hours_worked").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	hours := make(map[kernel.CarrierID]float64, len(rows))
	for _, row := range rows {
		hours[kernel.CarrierID(row.ID)] = row.HoursWorked
	}
	return hours, nil
}
