package domain

import "errors"

var (
	// ErrInvalidDimension - создание карты с неположительным размером.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrOutOfBounds - координата за пределами карты.
	ErrOutOfBounds = errors.New("out of bounds")
	// ErrNotFound - маршрут не найден (недостижимо или исчерпан лимит поиска).
	ErrNotFound = errors.New("path not found")
	// ErrUnknownEntity - в реестре нет такой сущности.
	ErrUnknownEntity = errors.New("unknown entity")
)
