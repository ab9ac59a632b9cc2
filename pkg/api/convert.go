package api

import "github.com/iudanet/roadsync/internal/models"

// RoadFromModel конвертирует доменную запись в DTO
func RoadFromModel(r models.Road) Road {
	c := r.Clone()
	return Road{
		LastMaintained:    c.LastMaintained,
		Lat:               c.Lat,
		Long:              c.Long,
		Name:              c.Name,
		Base64Photo:       c.Base64Photo,
		ID:                RoadID(c.ID),
		Version:           c.Version,
		Lanes:             c.Lanes,
		IsOperational:     c.IsOperational,
		CreatedOnFrontend: c.CreatedOnFrontend,
	}
}

// ToModel конвертирует DTO в доменную запись
func (r Road) ToModel() models.Road {
	return models.Road{
		LastMaintained:    r.LastMaintained,
		Lat:               r.Lat,
		Long:              r.Long,
		Name:              r.Name,
		Base64Photo:       r.Base64Photo,
		ID:                int64(r.ID),
		Version:           r.Version,
		Lanes:             r.Lanes,
		IsOperational:     r.IsOperational,
		CreatedOnFrontend: r.CreatedOnFrontend,
	}.Clone()
}

// RoadsFromModels конвертирует срез доменных записей
func RoadsFromModels(roads []models.Road) []Road {
	out := make([]Road, 0, len(roads))
	for _, r := range roads {
		out = append(out, RoadFromModel(r))
	}
	return out
}

// ToModels конвертирует срез DTO
func ToModels(roads []Road) []models.Road {
	out := make([]models.Road, 0, len(roads))
	for _, r := range roads {
		out = append(out, r.ToModel())
	}
	return out
}
