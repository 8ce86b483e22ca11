package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestWhere_SearchAndFilters(t *testing.T) {
	countryID := uuid.New()
	w := CityFilter{Query: " 50%_off ", CountryID: &countryID}.where()

	wantSQL := `WHERE (ci.name ILIKE $1 OR co.name ILIKE $1) AND ci.country_id = $2`
	if got := w.sql(); got != wantSQL {
		t.Errorf("sql() = %q, ожидается %q", got, wantSQL)
	}
	if len(w.args) != 2 {
		t.Fatalf("args = %v, ожидается 2 аргумента", w.args)
	}
	if w.args[0] != `%50\%\_off%` {
		t.Errorf("шаблон поиска = %q", w.args[0])
	}

	page, args := w.page(10, 20)
	if page != "LIMIT $3 OFFSET $4" {
		t.Errorf("page() = %q", page)
	}
	if len(args) != 4 || args[2] != 10 || args[3] != 20 {
		t.Errorf("args = %v", args)
	}
	if len(w.args) != 2 {
		t.Error("page() изменил аргументы фильтра")
	}
}

func TestWhere_Empty(t *testing.T) {
	w := CountryFilter{Query: "   "}.where()
	if w.sql() != "" {
		t.Errorf("sql() = %q, ожидается пустая строка", w.sql())
	}
	page, args := w.page(100, 0)
	if page != "LIMIT $1 OFFSET $2" || len(args) != 2 {
		t.Errorf("page() = %q, %v", page, args)
	}
}

func TestConstraintError(t *testing.T) {
	tests := []struct {
		name      string
		pgErr     *pgconn.PgError
		kind      error
		field     string
		nilResult bool
	}{
		{
			name:  "дубликат города",
			pgErr: &pgconn.PgError{Code: "23505", ConstraintName: "city_name_country_key"},
			kind:  ErrConflict,
			field: "name",
		},
		{
			name:  "несуществующий экскурсовод",
			pgErr: &pgconn.PgError{Code: "23503", ConstraintName: "museum_guide_guide_fk"},
			kind:  ErrInvalidReference,
			field: "guide_id",
		},
		{
			name:  "отрицательный рейтинг",
			pgErr: &pgconn.PgError{Code: "23514", ConstraintName: "museum_rating_check"},
			kind:  ErrCheckViolation,
			field: "rating",
		},
		{
			name:  "дубликат первичного ключа",
			pgErr: &pgconn.PgError{Code: "23505", ConstraintName: "museum_pkey"},
			kind:  ErrConflict,
			field: "id",
		},
		{
			name:      "другая ошибка PostgreSQL",
			pgErr:     &pgconn.PgError{Code: "42P01"},
			nilResult: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("exec: %w", tt.pgErr)
			ce := constraintError(err)
			if tt.nilResult {
				if ce != nil {
					t.Fatalf("ожидался nil, получено %v", ce)
				}
				return
			}
			if ce == nil {
				t.Fatal("ожидалась *ConstraintError")
			}
			if !errors.Is(ce, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false", ce, tt.kind)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, ожидается %q", ce.Field, tt.field)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	if writeError("x", nil) != nil {
		t.Error("writeError(nil) != nil")
	}
	if !errors.Is(writeError("x", pgx.ErrNoRows), ErrNotFound) {
		t.Error("pgx.ErrNoRows должна стать ErrNotFound")
	}
	other := errors.New("сеть недоступна")
	if err := writeError("создания", other); !errors.Is(err, other) {
		t.Errorf("writeError потерял исходную ошибку: %v", err)
	}
}
