package domain

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Patch описывает изменение nullable-колонки при частичном обновлении.
// Три состояния: не задано (колонку не трогаем), явный null (очищаем),
// значение (записываем). Нулевое значение Patch - "не задано".
//
// В JSON не заданный патч представляется отсутствием ключа, поэтому поля
// Patch в структурах помечаются тегом omitzero. Сериализация не заданного
// патча напрямую возвращает ErrUnsetPatch: null означал бы очистку.
type Patch[T any] struct {
	set   bool
	valid bool
	value T
}

// Set возвращает патч, записывающий v.
func Set[T any](v T) Patch[T] {
	return Patch[T]{set: true, valid: true, value: v}
}

// Clear возвращает патч, очищающий колонку.
func Clear[T any]() Patch[T] {
	return Patch[T]{set: true}
}

// SetPtr: nil означает очистку, иначе запись *v.
func SetPtr[T any](v *T) Patch[T] {
	if v == nil {
		return Clear[T]()
	}
	return Set(*v)
}

func (p Patch[T]) IsSet() bool  { return p.set }
func (p Patch[T]) IsNull() bool { return p.set && !p.valid }

// IsZero нужен для тега omitzero: не заданный патч не сериализуется.
func (p Patch[T]) IsZero() bool { return !p.set }

// Get возвращает значение и true, только если патч записывает значение.
func (p Patch[T]) Get() (T, bool) {
	return p.value, p.set && p.valid
}

// Value возвращает значение для колонки: nil для очистки.
// Для не заданного патча тоже nil, поэтому сначала проверяйте IsSet.
func (p Patch[T]) Value() *T {
	if !p.valid {
		return nil
	}
	v := p.value
	return &v
}

// Apply применяет патч к nullable-полю.
func (p Patch[T]) Apply(dst **T) {
	if !p.set {
		return
	}
	*dst = p.Value()
}

// ErrUnsetPatch возвращается при сериализации не заданного патча.
var ErrUnsetPatch = errors.New("domain: unset patch has no JSON representation, use omitzero")

func (p Patch[T]) MarshalJSON() ([]byte, error) {
	if !p.set {
		return nil, ErrUnsetPatch
	}
	if !p.valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}

// UnmarshalJSON вызывается только для присутствующего ключа,
// поэтому отсутствующее поле остается не заданным.
func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = Clear[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Set(v)
	return nil
}
