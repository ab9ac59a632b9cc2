package roads

import (
	"context"

	"github.com/iudanet/roadsync/internal/models"
)

// invocation один запуск эффекта. Флаг cancelled читается и пишется
// только в горутине цикла; результаты отмененного запуска отбрасываются.
type invocation struct {
	stop      context.CancelFunc
	cancelled bool
}

func (s *Store) newInvocation() (*invocation, context.Context) {
	ctx, stop := context.WithCancel(s.ctx)
	return &invocation{stop: stop}, ctx
}

func (inv *invocation) cancel() {
	inv.cancelled = true
	inv.stop()
}

// fetchDeps входы эффекта загрузки
type fetchDeps struct {
	credential      string
	name            string
	page            int
	onlyOperational bool
}

// liveDeps входы live-эффекта
type liveDeps struct {
	credential string
	connected  bool
}

func (s *Store) onCredential(credential string) {
	if !s.started || credential == s.credential {
		return
	}

	s.logger.Info("Credential changed", "authenticated", credential != "")
	s.credential = credential
	s.epoch++

	if s.syncing != nil {
		s.syncing.cancel()
		s.syncing = nil
	}

	if credential != "" {
		s.restorePending()
	}
	s.reconcileFetch()
	s.reconcileLive()
}

func (s *Store) onConnectivity(connected bool) {
	if !s.started || connected == s.connected {
		return
	}

	s.logger.Info("Connectivity changed", "connected", connected)
	s.connected = connected

	if connected {
		s.runReconnectSync()
	}
	s.reconcileLive()
}

// reconcileFetch перезапускает загрузку, если изменились ее входы
func (s *Store) reconcileFetch() {
	if !s.started || s.syncing != nil {
		return
	}

	deps := s.currentFetchDeps()
	if s.fetchArmed && deps == s.fetchDeps {
		return
	}
	s.fetchDeps = deps
	s.fetchArmed = true

	s.runFetch()
}

func (s *Store) currentFetchDeps() fetchDeps {
	return fetchDeps{
		credential:      s.credential,
		name:            s.state.NameFilter,
		page:            s.state.Page,
		onlyOperational: s.state.OnlyOperational,
	}
}

func (s *Store) runFetch() {
	if s.fetch != nil {
		s.fetch.cancel()
		s.fetch = nil
	}

	if s.credential == "" {
		s.dispatch(Clear{})
		return
	}
	if !s.connected {
		s.logger.Debug("Offline, skipping fetch", "page", s.state.Page)
		return
	}

	inv, ctx := s.newInvocation()
	s.fetch = inv
	q := ListQuery{
		Page:            s.state.Page,
		Name:            s.state.NameFilter,
		OnlyOperational: s.state.OnlyOperational,
	}

	s.dispatch(FetchStarted{})

	go func() {
		page, err := s.gateway.ListRoads(ctx, q)
		s.post(func() {
			if inv.cancelled {
				s.logger.Debug("Dropping stale list response", "page", q.Page)
				return
			}
			inv.stop()
			s.fetch = nil

			if err != nil {
				s.logger.Warn("Failed to fetch roads", "page", q.Page, "error", err)
				s.dispatch(FetchFailed{Err: &FetchError{Err: err}})
				return
			}
			s.dispatch(FetchSucceeded{Roads: page.Roads, More: page.More})
		})
	}()
}

// runReconnectSync выгружает локальные записи после восстановления сети.
// Пока выгрузка идет, загрузка страниц приостановлена.
func (s *Store) runReconnectSync() {
	if s.credential == "" || !s.connected || s.state.PendingCount() == 0 || s.syncing != nil {
		return
	}

	if s.fetch != nil {
		s.fetch.cancel()
		s.fetch = nil
	}

	inv, ctx := s.newInvocation()
	s.syncing = inv
	pending := s.state.Pending()

	s.logger.Info("Uploading pending roads", "count", len(pending))
	s.dispatch(FetchStarted{})

	go func() {
		roads, err := s.gateway.BulkUpload(ctx, pending)
		s.post(func() { s.onSyncDone(inv, pending, roads, err) })
	}()
}

func (s *Store) onSyncDone(inv *invocation, pending, roads []models.Road, err error) {
	if inv.cancelled {
		s.logger.Debug("Dropping stale sync response")
		return
	}
	inv.stop()

	if err != nil {
		s.syncing = nil
		// Загрузка страницы скрыла бы локальные записи, поэтому после
		// неудачной выгрузки текущие входы считаются обработанными
		s.fetchDeps = s.currentFetchDeps()
		s.fetchArmed = true
		s.logger.Warn("Failed to upload pending roads", "count", len(pending), "error", err)
		s.dispatch(FetchFailed{Err: &SyncError{Pending: len(pending), Err: err}})
		return
	}

	// syncing остается занятым до конца обработки: SyncSucceeded не должен
	// запустить загрузку страницы раньше, чем вернутся записи, сохраненные во время выгрузки
	savedMeanwhile := notIn(s.state.Pending(), pending)
	s.logger.Info("Pending roads uploaded", "count", len(pending), "received", len(roads))
	s.dispatch(SyncSucceeded{Roads: roads})
	if len(savedMeanwhile) > 0 {
		s.dispatch(PendingRestored{Roads: savedMeanwhile})
	}

	s.syncing = nil
	s.fetchArmed = false
	if len(savedMeanwhile) > 0 {
		s.logger.Info("Roads saved during upload, uploading again", "count", len(savedMeanwhile))
		s.runReconnectSync()
	}
	s.reconcileFetch()
}

// reconcileLive открывает или закрывает live-канал при изменении токена или сети
func (s *Store) reconcileLive() {
	if !s.started {
		return
	}

	deps := liveDeps{credential: s.credential, connected: s.connected}
	if s.liveArmed && deps == s.liveDeps {
		return
	}
	s.liveDeps = deps
	s.liveArmed = true

	s.teardownLive()
	if deps.credential == "" || !deps.connected {
		return
	}

	inv, ctx := s.newInvocation()
	s.live = inv

	go func() {
		ch, err := s.gateway.OpenLiveChannel(ctx, deps.credential, func(msg LiveMessage) {
			s.post(func() { s.onLiveMessage(inv, msg) })
		})
		if !s.post(func() { s.onLiveOpened(inv, ch, err) }) && ch != nil {
			_ = ch.Close()
		}
	}()
}

func (s *Store) onLiveOpened(inv *invocation, ch LiveChannel, err error) {
	if err != nil {
		if inv.cancelled {
			return
		}
		inv.stop()
		s.live = nil
		s.logger.Warn("Failed to open live channel", "error", &ChannelError{Err: err})
		return
	}

	if inv.cancelled {
		if cerr := ch.Close(); cerr != nil {
			s.logger.Debug("Failed to close stale live channel", "error", cerr)
		}
		return
	}

	s.liveHandle = ch
	s.logger.Info("Live channel opened")
}

func (s *Store) onLiveMessage(inv *invocation, msg LiveMessage) {
	if inv.cancelled {
		return
	}

	switch msg.Event {
	case LiveCreated, LiveUpdated:
		s.logger.Debug("Live update received", "event", msg.Event, "road_id", msg.Road.ID)
		s.dispatch(SaveSucceeded{Road: msg.Road})
	default:
		s.logger.Debug("Ignoring live message", "event", msg.Event)
	}
}

func (s *Store) teardownLive() {
	if s.live != nil {
		s.live.cancel()
		s.live = nil
	}
	if s.liveHandle != nil {
		if err := s.liveHandle.Close(); err != nil {
			s.logger.Debug("Failed to close live channel", "error", err)
		}
		s.liveHandle = nil
	}
}

// notIn возвращает записи из roads, которых нет в uploaded
func notIn(roads, uploaded []models.Road) []models.Road {
	var out []models.Road
	for _, r := range roads {
		if indexOf(uploaded, r.ID) < 0 {
			out = append(out, r)
		}
	}
	return out
}
