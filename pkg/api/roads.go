package api

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RoadID идентификатор дороги на проводе.
// Сервер передает id строкой, клиент принимает и строку, и число.
type RoadID int64

// MarshalJSON кодирует id как строку с числом
func (id RoadID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(int64(id), 10))), nil
}

// UnmarshalJSON принимает "12", 12 и null
func (id *RoadID) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if raw == "null" {
		*id = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("invalid road id %s: %w", raw, err)
		}
		raw = unquoted
	}
	if raw == "" {
		*id = 0
		return nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid road id %q: %w", raw, err)
	}
	*id = RoadID(v)
	return nil
}

// Road представляет запись о дороге в запросах и ответах API
type Road struct {
	LastMaintained    *time.Time `json:"lastMaintained,omitempty"`    // дата последнего обслуживания
	Lat               *float64   `json:"lat,omitempty"`               // широта метки на карте
	Long              *float64   `json:"long,omitempty"`              // долгота метки на карте
	Name              string     `json:"name"`                        // название дороги
	Base64Photo       string     `json:"base64Photo,omitempty"`       // фото в base64
	ID                RoadID     `json:"id,omitempty"`                // id, отсутствует у новых записей
	Version           int64      `json:"version,omitempty"`           // монотонная версия записи
	Lanes             int        `json:"lanes"`                       // количество полос
	IsOperational     bool       `json:"isOperational"`               // дорога открыта
	CreatedOnFrontend bool       `json:"createdOnFrontend,omitempty"` // запись создана на клиенте и не подтверждена
}

// ListRoadsResponse представляет ответ GET /roads
type ListRoadsResponse struct {
	Roads []Road `json:"roads"`
	Page  int    `json:"page"`
	More  bool   `json:"more"` // есть ли следующие страницы
}

// Query parameters GET /roads
const (
	QueryPage            = "page"
	QueryNameFilter      = "sName"
	QueryOnlyOperational = "onlyOperational"
)
