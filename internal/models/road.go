package models

import (
	"strings"
	"time"
)

// Road представляет запись о дороге.
// Записи с ID > 0 подтверждены сервером, записи с отрицательным ID
// созданы на клиенте и ждут синхронизации.
type Road struct {
	LastMaintained    *time.Time `json:"last_maintained,omitempty"`     // LastMaintained дата последнего обслуживания
	Lat               *float64   `json:"lat,omitempty"`                 // Lat широта метки на карте
	Long              *float64   `json:"long,omitempty"`                // Long долгота метки на карте
	Name              string     `json:"name"`                          // Name название, не пустое
	Base64Photo       string     `json:"base64_photo,omitempty"`        // Base64Photo фото в base64
	ID                int64      `json:"id,omitempty"`                  // ID 0 у еще не сохраненных записей
	Version           int64      `json:"version"`                       // Version монотонно растущая версия записи
	Lanes             int        `json:"lanes"`                         // Lanes количество полос, >= 0
	IsOperational     bool       `json:"is_operational"`                // IsOperational дорога открыта
	CreatedOnFrontend bool       `json:"created_on_frontend,omitempty"` // CreatedOnFrontend запись существует только на клиенте
}

// Filter активный фильтр списка дорог
type Filter struct {
	Name            string // подстрока названия, регистр учитывается
	OnlyOperational bool
}

// Complies проверяет, проходит ли дорога фильтр.
// Пустая подстрока подходит под любое название.
func (r Road) Complies(f Filter) bool {
	if f.OnlyOperational && !r.IsOperational {
		return false
	}
	return strings.Contains(r.Name, f.Name)
}

// IsLocal возвращает true для записей, которые еще не подтверждены сервером
func (r Road) IsLocal() bool {
	return r.CreatedOnFrontend || r.ID < 0
}

// IsPersisted возвращает true, если у записи есть серверный ID
func (r Road) IsPersisted() bool {
	return r.ID > 0 && !r.CreatedOnFrontend
}

// IsNewerThan сравнивает версии двух копий одной записи
func (r Road) IsNewerThan(other Road) bool {
	return r.Version > other.Version
}

// HasLocation возвращает true, если задана полная пара координат
func (r Road) HasLocation() bool {
	return r.Lat != nil && r.Long != nil
}

// Clone возвращает глубокую копию записи
func (r Road) Clone() Road {
	c := r
	if r.LastMaintained != nil {
		t := *r.LastMaintained
		c.LastMaintained = &t
	}
	if r.Lat != nil {
		lat := *r.Lat
		c.Lat = &lat
	}
	if r.Long != nil {
		long := *r.Long
		c.Long = &long
	}
	return c
}

// SyntheticID вычисляет временный ID для локальной записи.
// Результат всегда отрицательный и строго меньше любого из known,
// поэтому не пересекается с серверными ID.
func SyntheticID(known ...[]Road) int64 {
	var lowest int64
	for _, roads := range known {
		for _, r := range roads {
			if r.ID < lowest {
				lowest = r.ID
			}
		}
	}
	return lowest - 1
}
