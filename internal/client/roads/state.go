package roads

import "github.com/iudanet/roadsync/internal/models"

// State агрегат синхронизации дорог.
// Меняется только через Reduce; срезы внутри State никогда не изменяются на месте,
// поэтому снимок состояния можно безопасно читать из любой горутины.
type State struct {
	FetchingError   error         // ошибка последней загрузки или синхронизации
	SavingError     error         // ошибка последнего сохранения (только валидация)
	Roads           []models.Road // подтвержденные сервером записи, уникальные по ID
	LocalSavedRoads []models.Road // локальные записи с синтетическими ID
	UnsyncedRoads   []models.Road // локальные записи, скрытые загрузкой страницы; ждут выгрузки
	NameFilter      string        // подстрока названия
	Page            int           // текущая страница, начиная с 1
	Fetching        bool
	Saving          bool
	More            bool // есть ли следующие страницы
	OnlyOperational bool
}

// InitialState возвращает состояние по умолчанию
func InitialState() State {
	return State{
		Page: 1,
		More: true,
	}
}

// Filter возвращает активный фильтр
func (s State) Filter() models.Filter {
	return models.Filter{
		Name:            s.NameFilter,
		OnlyOperational: s.OnlyOperational,
	}
}

// Find ищет запись по ID среди подтвержденных и локальных записей
func (s State) Find(id int64) (models.Road, bool) {
	if i := indexOf(s.LocalSavedRoads, id); i >= 0 {
		return s.LocalSavedRoads[i], true
	}
	if i := indexOf(s.UnsyncedRoads, id); i >= 0 {
		return s.UnsyncedRoads[i], true
	}
	if i := indexOf(s.Roads, id); i >= 0 {
		return s.Roads[i], true
	}
	return models.Road{}, false
}

// Pending возвращает все записи, которые еще не выгружены на сервер:
// видимые локальные и скрытые загрузкой страницы
func (s State) Pending() []models.Road {
	if len(s.UnsyncedRoads) == 0 {
		return s.LocalSavedRoads
	}
	return appendMissing(s.LocalSavedRoads, s.UnsyncedRoads)
}

// PendingCount количество записей, ожидающих синхронизации
func (s State) PendingCount() int {
	return len(s.LocalSavedRoads) + len(s.UnsyncedRoads)
}
