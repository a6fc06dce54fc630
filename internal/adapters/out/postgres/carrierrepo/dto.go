// Package carrierrepo persists the carrier roster with GORM and maps rows to
// carrier aggregates.
package carrierrepo

import (
	"time"

	"dispatch/internal/core/domain/model/carrier"
	"dispatch/internal/core/domain/model/kernel"
)

// CarrierDTO is the "carriers" table row.
type CarrierDTO struct {
	ID          string      `gorm:"type:varchar(64);primaryKey"`
	Name        string      `gorm:"type:varchar(255);not null"`
	Location    LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	HoursWorked float64     `gorm:"type:double precision;not null;default:0"`
	UpdatedAt   time.Time
}

func (CarrierDTO) TableName() string {
	return "carriers"
}

// LocationDTO is the carrier's last known position, embedded in the carrier row.
type LocationDTO struct {
	Lat float64 `gorm:"type:double precision;not null"`
	Lng float64 `gorm:"type:double precision;not null"`
}

func fromDomain(c *carrier.Carrier) CarrierDTO {
	return CarrierDTO{
		ID:   c.ID().String(),
		Name: c.Name(),
		Location: LocationDTO{
			Lat: c.Location().Lat(),
			Lng: c.Location().Lng(),
		},
		HoursWorked: c.HoursWorked(),
	}
}

func toDomain(dto CarrierDTO) (*carrier.Carrier, error) {
	id, err := kernel.NewCarrierID(dto.ID)
	if err != nil {
		return nil, err
	}

	loc, err := kernel.NewGeoPoint(dto.Location.Lat, dto.Location.Lng)
	if err != nil {
		return nil, err
	}

	return carrier.NewCarrier(id, dto.Name, loc, dto.HoursWorked)
}
