package roads

import "github.com/iudanet/roadsync/internal/models"

// Event событие, переводящее State в следующее состояние.
// Метод apply неэкспортируемый: набор событий закрыт, и каждый тип события
// обязан объявить собственный переход, иначе пакет не скомпилируется.
type Event interface {
	apply(s State) State
}

// FetchStarted запрос списка (или bulk upload) отправлен
type FetchStarted struct{}

// FetchSucceeded получена страница записей
type FetchSucceeded struct {
	Roads []models.Road
	More  bool
}

// SyncSucceeded локальные записи выгружены, сервер вернул их с присвоенными ID
type SyncSucceeded struct {
	Roads []models.Road
}

// FetchFailed загрузка или синхронизация завершилась ошибкой
type FetchFailed struct {
	Err error
}

// SaveStarted начато сохранение записи
type SaveStarted struct{}

// SaveSucceeded сервер подтвердил запись (ответ на save или live-уведомление).
// LocalID заполняется, если подтверждена ранее локальная запись с синтетическим ID.
type SaveSucceeded struct {
	Road    models.Road
	LocalID int64
}

// SaveLocally сохранение на сервере не удалось, запись остается на клиенте
type SaveLocally struct {
	Road models.Road
}

// SaveFailed сохранение отклонено до обращения к серверу
type SaveFailed struct {
	Err error
}

// Clear сброс в начальное состояние (нет аутентификации)
type Clear struct{}

// SetPage переход на страницу
type SetPage struct {
	Page int
}

// SetNameFilter смена фильтра по названию
type SetNameFilter struct {
	Name string
}

// SetOnlyOperational смена фильтра по состоянию дороги
type SetOnlyOperational struct {
	Only bool
}

// PendingRestored локальные записи восстановлены из хранилища при старте
type PendingRestored struct {
	Roads []models.Road
}

func (FetchStarted) apply(s State) State {
	s.Fetching = true
	s.FetchingError = nil
	return s
}

func (e FetchSucceeded) apply(s State) State {
	s.Roads = appendMissing(s.Roads, e.Roads)
	if len(s.LocalSavedRoads) > 0 {
		s.UnsyncedRoads = appendMissing(s.UnsyncedRoads, s.LocalSavedRoads)
	}
	s.LocalSavedRoads = nil
	s.Fetching = false
	s.More = e.More
	return s
}

func (e SyncSucceeded) apply(s State) State {
	s.Roads = appendMissing(nil, e.Roads)
	s.LocalSavedRoads = nil
	s.UnsyncedRoads = nil
	s.Fetching = false
	s.More = true
	s.Page = 1
	s.NameFilter = ""
	s.OnlyOperational = false
	return s
}

func (e FetchFailed) apply(s State) State {
	s.FetchingError = e.Err
	s.Fetching = false
	return s
}

func (SaveStarted) apply(s State) State {
	s.Saving = true
	s.SavingError = nil
	return s
}

func (e SaveSucceeded) apply(s State) State {
	s.Saving = false
	if e.LocalID < 0 {
		s.LocalSavedRoads = without(s.LocalSavedRoads, e.LocalID)
		s.UnsyncedRoads = without(s.UnsyncedRoads, e.LocalID)
	}

	road := e.Road.Clone()
	road.CreatedOnFrontend = false
	idx := indexOf(s.Roads, road.ID)

	// Уведомления могут прийти не по порядку: более старая версия не затирает новую
	if idx >= 0 && s.Roads[idx].IsNewerThan(road) {
		return s
	}

	if road.Complies(s.Filter()) {
		if idx < 0 {
			s.Roads = prepend(road, s.Roads)
		} else {
			s.Roads = replaceAt(s.Roads, idx, road)
		}
		return s
	}

	if idx >= 0 {
		s.Roads = without(s.Roads, road.ID)
	}
	return s
}

func (e SaveLocally) apply(s State) State {
	road := e.Road.Clone()
	priorID := road.ID

	road.ID = models.SyntheticID(s.Roads, s.LocalSavedRoads, s.UnsyncedRoads)
	road.CreatedOnFrontend = true

	if priorID != 0 {
		s.Roads = without(s.Roads, priorID)
		s.LocalSavedRoads = without(s.LocalSavedRoads, priorID)
		s.UnsyncedRoads = without(s.UnsyncedRoads, priorID)
	}
	s.LocalSavedRoads = prepend(road, s.LocalSavedRoads)
	s.Saving = false
	return s
}

func (e SaveFailed) apply(s State) State {
	s.SavingError = e.Err
	s.Saving = false
	return s
}

func (Clear) apply(State) State {
	return InitialState()
}

func (e SetPage) apply(s State) State {
	s.Page = e.Page
	return s
}

func (e SetNameFilter) apply(s State) State {
	s.NameFilter = e.Name
	s.Page = 1
	s.Roads = []models.Road{}
	return s
}

func (e SetOnlyOperational) apply(s State) State {
	s.OnlyOperational = e.Only
	s.Page = 1
	s.Roads = []models.Road{}
	return s
}

func (e PendingRestored) apply(s State) State {
	local := make([]models.Road, 0, len(e.Roads))
	for _, r := range e.Roads {
		road := r.Clone()
		road.CreatedOnFrontend = true
		if road.ID >= 0 || indexOf(local, road.ID) >= 0 || indexOf(s.Roads, road.ID) >= 0 ||
			indexOf(s.UnsyncedRoads, road.ID) >= 0 {
			road.ID = models.SyntheticID(s.Roads, local, s.UnsyncedRoads)
		}
		local = append(local, road)
	}
	s.LocalSavedRoads = local
	return s
}
