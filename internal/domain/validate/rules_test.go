package validate

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStreetName(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"латиница", "Main Street", true},
		{"кириллица", "Ленина", true},
		{"буква ё", "Солнечная Полянка Ёлкина", true},
		{"цифры", "3 Parkovaya 15", true},
		{"точка", "Main St.", false},
		{"решётка", "Main St #5", false},
		{"дефис", "Нижне-Волжская", false},
		{"пустая строка", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := StreetName(tt.value)
			if tt.ok && err != nil {
				t.Errorf("StreetName(%q) = %v, ожидалось nil", tt.value, err)
			}
			if !tt.ok {
				assertFieldError(t, err, "street", CodeStreetName)
			}
		})
	}
}

func TestHouseNumber(t *testing.T) {
	valid := []string{
		"12", "12а", "12А", "12 А", "12 а", "121 б", "12b",
		"56/58", "56/58а", "56-58", "56 - 58", "56-58а", "56 / 58",
	}
	for _, v := range valid {
		if err := HouseNumber(v); err != nil {
			t.Errorf("HouseNumber(%q) = %v, ожидалось nil", v, err)
		}
	}

	invalid := []string{
		"0", "012", "12-", "--12", "12 ", " 12", "12аб", "56/058", "56/58аб", "а12", "",
	}
	for _, v := range invalid {
		assertFieldError(t, HouseNumber(v), "house_number", CodeHouseNumber)
	}
}

func TestBirthday(t *testing.T) {
	tests := []struct {
		name     string
		birthday time.Time
		today    time.Time
		ok       bool
	}{
		{"ровно шесть лет", date(2018, 5, 7), date(2024, 5, 7), true},
		{"на день младше", date(2018, 5, 8), date(2024, 5, 7), false},
		{"на день старше", date(2018, 5, 6), date(2024, 5, 7), true},
		{"взрослый", date(1980, 1, 1), date(2024, 5, 7), true},
		{"родился сегодня", date(2024, 5, 7), date(2024, 5, 7), false},
		{"время суток не учитывается", time.Date(2018, 5, 7, 23, 59, 0, 0, time.UTC), date(2024, 5, 7), true},
		{"29 февраля, сегодня 28 февраля", date(2016, 2, 29), date(2022, 2, 28), false},
		{"29 февраля, сегодня 1 марта", date(2016, 2, 29), date(2022, 3, 1), true},
		{"сегодня 29 февраля, граница 1 марта", date(2018, 3, 1), date(2024, 2, 29), true},
		{"сегодня 29 февраля, 2 марта", date(2018, 3, 2), date(2024, 2, 29), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Birthday(tt.birthday, tt.today)
			if tt.ok && err != nil {
				t.Errorf("Birthday(%s, %s) = %v, ожидалось nil",
					tt.birthday.Format(time.DateOnly), tt.today.Format(time.DateOnly), err)
			}
			if !tt.ok {
				assertFieldError(t, err, "birthday", CodeBirthday)
			}
		})
	}
}

func TestBirthdayCutoff_LeapDay(t *testing.T) {
	got := BirthdayCutoff(date(2024, 2, 29))
	if want := date(2018, 3, 1); !got.Equal(want) {
		t.Errorf("BirthdayCutoff(2024-02-29) = %s, ожидается %s", got.Format(time.DateOnly), want.Format(time.DateOnly))
	}
}

func TestNonNegative(t *testing.T) {
	if err := NonNegative("rating", 0.0); err != nil {
		t.Errorf("NonNegative(0) = %v, ожидалось nil", err)
	}
	if err := NonNegative("rating", 4.5); err != nil {
		t.Errorf("NonNegative(4.5) = %v, ожидалось nil", err)
	}
	assertFieldError(t, NonNegative("rating", -0.1), "rating", CodeNegative)
	assertFieldError(t, NonNegative("floor", int32(-1)), "floor", CodeNegative)
}

func TestNotInFuture(t *testing.T) {
	now := time.Date(2024, 5, 7, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Second)

	if err := NotInFuture("created", nil, now); err != nil {
		t.Errorf("NotInFuture(nil) = %v, ожидалось nil", err)
	}
	if err := NotInFuture("created", &past, now); err != nil {
		t.Errorf("NotInFuture(прошлое) = %v, ожидалось nil", err)
	}
	if err := NotInFuture("created", &now, now); err != nil {
		t.Errorf("NotInFuture(now) = %v, ожидалось nil", err)
	}
	assertFieldError(t, NotInFuture("modified", &future, now), "modified", CodeFutureTime)
}

func TestMaxLength_CountsRunes(t *testing.T) {
	// 8 кириллических символов — 16 байт
	if err := MaxLength("house_number", "абвгдежз", 8); err != nil {
		t.Errorf("MaxLength(8 рун, 8) = %v, ожидалось nil", err)
	}
	err := MaxLength("house_number", "абвгдежзи", 8)
	fe := assertFieldError(t, err, "house_number", CodeMaxLength)
	if fe != nil && (len(fe.Params) != 2 || fe.Params[0] != 8 || fe.Params[1] != 9) {
		t.Errorf("Params = %v, ожидается [8 9]", fe.Params)
	}
}

func TestErrors_AddAndErr(t *testing.T) {
	var errs Errors
	if errs.Err() != nil {
		t.Fatal("пустой набор должен давать nil")
	}

	errs.Add(nil)
	errs.Add(Required("name", ""))
	errs.Add(Errors{{Field: "a"}, {Field: "b"}})
	errs.Add(errors.New("не FieldError"))

	if got := strings.Join(errs.Fields(), ","); got != "name,a,b" {
		t.Errorf("Fields() = %q, ожидается name,a,b", got)
	}

	prefixed := errs.WithPrefix("exhibitions[1]")
	if prefixed[0].Field != "exhibitions[1].name" {
		t.Errorf("WithPrefix: поле %q", prefixed[0].Field)
	}
	if errs[0].Field != "name" {
		t.Error("WithPrefix изменил исходный набор")
	}

	wrapped := errors.Join(errors.New("контекст"), errs.Err())
	got, ok := AsErrors(wrapped)
	if !ok || len(got) != 3 {
		t.Errorf("AsErrors = (%v, %v), ожидается 3 нарушения", got, ok)
	}
}

// assertFieldError проверяет, что err — *FieldError с указанными полем и кодом.
func assertFieldError(t *testing.T, err error, field string, code Code) *FieldError {
	t.Helper()
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Errorf("ожидалась *FieldError для поля %s, получено %v", field, err)
		return nil
	}
	if fe.Field != field {
		t.Errorf("Field = %q, ожидается %q", fe.Field, field)
	}
	if fe.Code != code {
		t.Errorf("Code = %q, ожидается %q", fe.Code, code)
	}
	if fe.Message == "" {
		t.Error("пустое сообщение")
	}
	return fe
}
