package availability

import "errors"

var (
	// ErrCacheUnavailable возвращается при ошибке обращения к хранилищу кэша
	ErrCacheUnavailable = errors.New("availability.cache: cache unavailable")

	// ErrDecode возвращается, когда закэшированное значение не удалось разобрать
	ErrDecode = errors.New("availability.cache: failed to decode cached value")
)
