package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// RefKind описывает, в каком виде пришла связь от API.
type RefKind uint8

const (
	RefMissing    RefKind = iota // null или поле отсутствует
	RefUnresolved                // только числовой id
	RefResolved                  // вложенный объект
)

func (k RefKind) String() string {
	switch k {
	case RefUnresolved:
		return "unresolved"
	case RefResolved:
		return "resolved"
	default:
		return "missing"
	}
}

// identified реализуют сущности, у которых есть числовой id.
type identified interface {
	GetID() int64
}

// Ref - связь на другую сущность. Upstream отдаёт её то числом, то объектом,
// то не отдаёт вовсе, поэтому все три варианта хранятся явно.
type Ref[T any] struct {
	kind  RefKind
	id    int64
	value *T
}

// MissingRef возвращает пустую связь.
func MissingRef[T any]() Ref[T] {
	return Ref[T]{}
}

// IDRef возвращает связь, известную только по id.
func IDRef[T any](id int64) Ref[T] {
	return Ref[T]{kind: RefUnresolved, id: id}
}

// ObjectRef возвращает связь с вложенным объектом; nil даёт пустую связь.
func ObjectRef[T any](v *T) Ref[T] {
	if v == nil {
		return Ref[T]{}
	}
	return Ref[T]{kind: RefResolved, value: v}
}

func (r Ref[T]) Kind() RefKind {
	return r.kind
}

func (r Ref[T]) IsMissing() bool {
	return r.kind == RefMissing
}

func (r Ref[T]) IsResolved() bool {
	return r.kind == RefResolved
}

// Object возвращает вложенный объект, если он есть.
func (r Ref[T]) Object() (*T, bool) {
	if r.kind != RefResolved {
		return nil, false
	}
	return r.value, true
}

// ID возвращает id связи независимо от формы. Для вложенного объекта id
// берётся из самого объекта, нулевой id считается неизвестным.
func (r Ref[T]) ID() (int64, bool) {
	switch r.kind {
	case RefUnresolved:
		return r.id, true
	case RefResolved:
		if v, ok := any(r.value).(identified); ok && v.GetID() != 0 {
			return v.GetID(), true
		}
	}
	return 0, false
}

// Clone копирует связь вместе с вложенным объектом.
func (r Ref[T]) Clone(clone func(*T) *T) Ref[T] {
	if r.kind != RefResolved {
		return r
	}
	return Ref[T]{kind: RefResolved, value: clone(r.value)}
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case RefUnresolved:
		return []byte(strconv.FormatInt(r.id, 10)), nil
	case RefResolved:
		return json.Marshal(r.value)
	default:
		return []byte("null"), nil
	}
}

func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}

	switch data[0] {
	case '{':
		v := new(T)
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode ref object: %w", err)
		}
		*r = Ref[T]{kind: RefResolved, value: v}
		return nil
	case '"':
		// иногда id приходит строкой
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode ref string: %w", err)
		}
		if s == "" {
			*r = Ref[T]{}
			return nil
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("decode ref id %q: %w", s, err)
		}
		*r = Ref[T]{kind: RefUnresolved, id: id}
		return nil
	default:
		var id int64
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("decode ref id: %w", err)
		}
		*r = Ref[T]{kind: RefUnresolved, id: id}
		return nil
	}
}
