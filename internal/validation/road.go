package validation

import (
	"fmt"
	"strings"

	"github.com/iudanet/roadsync/internal/models"
)

const (
	// MaxRoadNameLen максимальная длина названия дороги
	MaxRoadNameLen = 200
)

// ValidateRoad проверяет поля дороги перед сохранением.
// Используется и клиентом (до обращения к серверу), и сервером.
func ValidateRoad(road models.Road) error {
	if strings.TrimSpace(road.Name) == "" {
		return fmt.Errorf("road name cannot be empty")
	}

	if len(road.Name) > MaxRoadNameLen {
		return fmt.Errorf("road name must not exceed %d characters", MaxRoadNameLen)
	}

	if road.Lanes < 0 {
		return fmt.Errorf("lanes must be non-negative, got %d", road.Lanes)
	}

	// Координаты задаются только парой
	if (road.Lat == nil) != (road.Long == nil) {
		return fmt.Errorf("lat and long must be set together")
	}

	if road.Lat != nil {
		if *road.Lat < -90 || *road.Lat > 90 {
			return fmt.Errorf("lat must be within [-90, 90], got %v", *road.Lat)
		}
		if *road.Long < -180 || *road.Long > 180 {
			return fmt.Errorf("long must be within [-180, 180], got %v", *road.Long)
		}
	}

	return nil
}
