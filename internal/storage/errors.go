package storage

import (
	"errors"

	"github.com/UkralStul/draft-store/internal/domain"
)

var (
	// ErrNotFound - строки с таким ключом нет.
	ErrNotFound = errors.New("record not found")
	// ErrConstraintViolation - хранилище отклонило строку (внешний ключ, уникальность).
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrConnection - нет соединения из пула или база недоступна.
	ErrConnection = errors.New("storage connection failure")
	// ErrValidation - форма не прошла проверку обязательных полей.
	ErrValidation = domain.ErrValidation
)

// Kind возвращает вид ошибки из таксономии хранилища или nil для прочих.
func Kind(err error) error {
	for _, kind := range []error{ErrNotFound, ErrConstraintViolation, ErrConnection, ErrValidation} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
