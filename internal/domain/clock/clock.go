// Пакет clock — источник текущего времени для валидации.
// Сервисы получают Clock явно, что делает проверки дат детерминированными.
package clock

import "time"

// Clock возвращает текущий момент времени.
type Clock interface {
	Now() time.Time
}

// System — системные часы (UTC).
type System struct{}

// Now возвращает текущее время в UTC.
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed — часы, всегда возвращающие один и тот же момент. Используются в тестах.
type Fixed time.Time

// Now возвращает зафиксированный момент.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
