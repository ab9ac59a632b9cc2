package roads

import (
	"context"
	"errors"

	"github.com/iudanet/roadsync/internal/models"
	"github.com/iudanet/roadsync/internal/validation"
)

// Save сохраняет запись на сервере. Если сервер недоступен или вернул ошибку,
// запись остается локальной и ждет синхронизации, а Save возвращает nil.
// Ошибка возвращается только для невалидной записи или закрытого Store.
func (s *Store) Save(ctx context.Context, road models.Road) error {
	if err := validation.ValidateRoad(road); err != nil {
		saveErr := &SaveError{Err: err}
		if cerr := s.call(ctx, func() { s.dispatch(SaveFailed{Err: saveErr}) }); cerr != nil {
			return cerr
		}
		return saveErr
	}

	var epoch uint64
	if err := s.call(ctx, func() {
		epoch = s.epoch
		s.dispatch(SaveStarted{})
	}); err != nil {
		return err
	}

	var (
		saved *models.Road
		err   error
	)
	if road.IsPersisted() {
		saved, err = s.gateway.UpdateRoad(ctx, road)
	} else {
		draft := road.Clone()
		draft.ID = 0
		draft.CreatedOnFrontend = false
		saved, err = s.gateway.CreateRoad(ctx, draft)
	}
	if err == nil && saved == nil {
		err = errors.New("empty response from gateway")
	}

	// Результат применяется даже если ctx уже отменен
	return s.call(context.WithoutCancel(ctx), func() {
		if epoch != s.epoch {
			s.logger.Debug("Dropping save result from previous session", "road_id", road.ID)
			return
		}

		if err != nil {
			s.logger.Warn("Remote save failed, keeping road locally",
				"road_id", road.ID,
				"error", &SaveError{Err: err})
			s.dispatch(SaveLocally{Road: road})
			return
		}

		var localID int64
		if road.IsLocal() {
			localID = road.ID
		}
		s.dispatch(SaveSucceeded{Road: *saved, LocalID: localID})
	})
}

// SetPage переключает страницу. Загрузка новой страницы начинается до возврата.
func (s *Store) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	return s.call(ctx, func() { s.dispatch(SetPage{Page: page}) })
}

// NextPage переходит на следующую страницу, если она есть
func (s *Store) NextPage(ctx context.Context) error {
	return s.call(ctx, func() {
		if !s.state.More || s.state.Fetching {
			return
		}
		s.dispatch(SetPage{Page: s.state.Page + 1})
	})
}

// SetNameFilter меняет фильтр по названию и сбрасывает список
func (s *Store) SetNameFilter(ctx context.Context, name string) error {
	return s.call(ctx, func() { s.dispatch(SetNameFilter{Name: name}) })
}

// SetOnlyOperational меняет фильтр по состоянию и сбрасывает список
func (s *Store) SetOnlyOperational(ctx context.Context, only bool) error {
	return s.call(ctx, func() { s.dispatch(SetOnlyOperational{Only: only}) })
}
