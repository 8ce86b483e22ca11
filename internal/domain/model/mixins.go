// Пакет model — доменные сущности музейного справочника.
// Общие наборы полей (идентификатор, отметки времени) встраиваются
// в сущности по значению.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Identity — первичный ключ сущности. Назначается один раз при создании.
type Identity struct {
	// ID — UUID записи
	ID uuid.UUID
}

// HasID сообщает, назначен ли идентификатор.
func (i Identity) HasID() bool {
	return i.ID != uuid.Nil
}

// Timestamps — отметки времени создания и изменения.
// Оба поля допускают NULL; по умолчанию заполняются текущим временем.
type Timestamps struct {
	// Created — время создания записи
	Created *time.Time
	// Modified — время последнего изменения
	Modified *time.Time
}

// Touch заполняет пустые отметки значением now.
func (t *Timestamps) Touch(now time.Time) {
	if t.Created == nil {
		c := now
		t.Created = &c
	}
	if t.Modified == nil {
		m := now
		t.Modified = &m
	}
}
