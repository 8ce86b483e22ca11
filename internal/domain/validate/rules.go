package validate

import (
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MinGuideAge — минимальный возраст экскурсовода в годах.
const MinGuideAge = 6

var (
	// Буквы двух алфавитов в обоих регистрах, цифры и пробелы.
	streetNameRule = regexp.MustCompile(`^[а-яА-ЯёЁa-zA-Z0-9 ]+$`)

	// 12, 12а, 12 А, 56/58, 56 - 58, 56-58а. Без ведущего нуля.
	houseNumberRule = regexp.MustCompile(
		`^[1-9]\d*(?: ?(?:[а-яА-Яa-zA-Z]|[/-] ?[1-9]\d*[а-яА-Яa-zA-Z]?))?$`,
	)
)

// Required проверяет, что строка не пустая.
func Required(field, value string) error {
	if value == "" {
		return &FieldError{
			Field:   field,
			Value:   value,
			Code:    CodeRequired,
			Message: "This field is required.",
		}
	}
	return nil
}

// MaxLength проверяет длину строки в символах.
func MaxLength(field, value string, limit int) error {
	if n := utf8.RuneCountInString(value); n > limit {
		return &FieldError{
			Field:   field,
			Value:   value,
			Code:    CodeMaxLength,
			Message: "Ensure this value has at most %d characters (it has %d).",
			Params:  []any{limit, n},
		}
	}
	return nil
}

// Reference проверяет, что ссылка на родительскую запись задана.
func Reference(field string, id uuid.UUID) error {
	if id == uuid.Nil {
		return &FieldError{
			Field:   field,
			Value:   id,
			Code:    CodeRequired,
			Message: "This field is required.",
		}
	}
	return nil
}

// StreetName проверяет допустимые символы в названии улицы.
func StreetName(name string) error {
	if !streetNameRule.MatchString(name) {
		return &FieldError{
			Field:   "street",
			Value:   name,
			Code:    CodeStreetName,
			Message: "Street name contains incorrect symbols.",
		}
	}
	return nil
}

// HouseNumber проверяет формат номера дома.
func HouseNumber(number string) error {
	if !houseNumberRule.MatchString(number) {
		return &FieldError{
			Field: "house_number",
			Value: number,
			Code:  CodeHouseNumber,
			Message: "Incorrect house number format. Use one of this: " +
				"12, 12а, 12А, 12 А, 12 а, 121 б, 56/58, 56/58а, 56-58, 56 - 58, 56-58а",
		}
	}
	return nil
}

// BirthdayCutoff возвращает самую позднюю допустимую дату рождения:
// (год today − MinGuideAge, месяц и день today).
// Для today = 29 февраля в невисокосный год дата нормализуется
// по правилам time.Date на 1 марта.
func BirthdayCutoff(today time.Time) time.Time {
	return time.Date(today.Year()-MinGuideAge, today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
}

// Birthday проверяет, что на дату today экскурсоводу не меньше MinGuideAge лет.
// Сравниваются только календарные даты.
func Birthday(birthday, today time.Time) error {
	if dateOf(birthday).After(BirthdayCutoff(today)) {
		return &FieldError{
			Field:   "birthday",
			Value:   birthday.Format(time.DateOnly),
			Code:    CodeBirthday,
			Message: "Guide is too young to work in a museum (minimum age is %d).",
			Params:  []any{MinGuideAge},
		}
	}
	return nil
}

// NonNegative проверяет, что значение не меньше нуля.
func NonNegative[T int16 | int32 | int64 | float64](field string, value T) error {
	if value < 0 {
		return &FieldError{
			Field:   field,
			Value:   value,
			Code:    CodeNegative,
			Message: "Value should be equal or greater than zero.",
		}
	}
	return nil
}

// NotInFuture проверяет, что отметка времени не позже now.
// nil допустим (поле необязательное).
func NotInFuture(field string, value *time.Time, now time.Time) error {
	if value != nil && value.After(now) {
		return &FieldError{
			Field:   field,
			Value:   value.Format(time.RFC3339),
			Code:    CodeFutureTime,
			Message: "Date and time is later than the current moment.",
		}
	}
	return nil
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
