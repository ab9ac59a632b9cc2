package roads

import (
	"errors"
	"fmt"
)

// ErrStoreClosed возвращается при обращении к закрытому хранилищу
var ErrStoreClosed = errors.New("road store is closed")

// FetchError ошибка загрузки страницы с сервера
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch roads: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// SaveError ошибка сохранения записи
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save road: %v", e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// SyncError ошибка выгрузки локальных записей
type SyncError struct {
	Err     error
	Pending int
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %d pending roads: %v", e.Pending, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// ChannelError ошибка live-канала
type ChannelError struct {
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("live channel: %v", e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}
