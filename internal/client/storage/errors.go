package storage

import "errors"

// Ошибки локального хранилища клиента
var (
	// ErrAuthNotFound: пользователь не входил в систему или вышел
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrStorageClosed: операция после Close
	ErrStorageClosed = errors.New("storage is closed")

	// ErrBucketNotFound: файл базы создан не roadsync или поврежден
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrStorageLocked: файл базы открыт другим процессом roadsync
	ErrStorageLocked = errors.New("storage is locked by another roadsync process")
)
