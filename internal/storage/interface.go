package storage

import (
	"context"

	"github.com/UkralStul/draft-store/internal/domain"
)

// Crud определяет общий контракт хранилищ для одной сущности.
// T - сущность, I - форма создания, U - форма частичного изменения, ID - тип ключа.
type Crud[T, I, U any, ID comparable] interface {
	// Create вставляет одну строку и возвращает ее со сгенерированным ID.
	Create(ctx context.Context, form I) (*T, error)
	// Read ищет строку по ключу, ErrNotFound если ее нет.
	Read(ctx context.Context, id ID) (*T, error)
	// Update меняет только заданные в форме поля и возвращает строку целиком.
	// Пустая форма допустима и возвращает строку без изменений.
	Update(ctx context.Context, id ID, form U) (*T, error)
	// Delete удаляет строку и возвращает число удаленных (0 или 1).
	// Удаление отсутствующей строки ошибкой не является.
	Delete(ctx context.Context, id ID) (int64, error)
}

// DraftStorage - контракт хранилища черновиков.
type DraftStorage = Crud[domain.Draft, domain.DraftInsertForm, domain.DraftUpdateForm, domain.DraftID]
