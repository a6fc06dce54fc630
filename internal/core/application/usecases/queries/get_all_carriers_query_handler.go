package queries

import (
	"context"
	"math"

	"dispatch/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GetAllCarriersQueryHandler reads the roster with plain SQL, ordered by id.
type GetAllCarriersQueryHandler struct {
	db *gorm.DB
}

func NewGetAllCarriersQueryHandler(db *gorm.DB) GetAllCarriersQueryHandler {
	return GetAllCarriersQueryHandler{db: db}
}

func (h GetAllCarriersQueryHandler) Handle(
	ctx context.Context,
	query GetAllCarriersQuery,
) ([]GetAllCarriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	carriers := make([]GetAllCarriersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			location_lat,
			location_lng,
			hours_worked
		FROM carriers
		ORDER BY id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			carrier  GetAllCarriersQueryResponse
			rawID    string
			lat, lng float64
		)

		if err = rows.Scan(&rawID, &carrier.Name, &lat, &lng, &carrier.HoursWorked); err != nil {
			return nil, err
		}

		carrier.ID, err = kernel.NewCarrierID(rawID)
		if err != nil {
			return nil, err
		}

		carrier.Location, err = kernel.NewGeoPoint(lat, lng)
		if err != nil {
			return nil, err
		}

		carrier.RemainingHours = math.Max(0, query.MaxHours()-carrier.HoursWorked)
		carriers = append(carriers, carrier)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return carriers, nil
}
