package repository

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/museum-data/museum-admin/internal/config"
	"github.com/museum-data/museum-admin/internal/database"
	"github.com/museum-data/museum-admin/internal/domain/model"
)

// setupTestDB запускает PostgreSQL контейнер, применяет миграции.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("museums_test"),
		postgres.WithUsername("museums"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	t.Setenv("MA_DB_HOST", host)
	t.Setenv("MA_DB_PORT", port.Port())
	t.Setenv("MA_DB_NAME", "museums_test")
	t.Setenv("MA_DB_USER", "museums")
	t.Setenv("MA_DB_PASSWORD", "test-password")
	t.Setenv("MA_DB_SSL_MODE", "disable")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("Ошибка миграций: %v", err)
	}

	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Ошибка подключения: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	return pool
}

// fixture — страна, город и адрес для тестов музеев.
type fixture struct {
	country *model.Country
	city    *model.City
	address *model.Address
}

func newFixture(t *testing.T, s *Store) fixture {
	t.Helper()
	ctx := context.Background()

	country := &model.Country{Identity: model.Identity{ID: uuid.New()}, Name: "Россия"}
	if err := s.Countries.Create(ctx, country); err != nil {
		t.Fatalf("Countries.Create() ошибка: %v", err)
	}
	city := &model.City{Identity: model.Identity{ID: uuid.New()}, CountryID: country.ID, Name: "Москва"}
	if err := s.Cities.Create(ctx, city); err != nil {
		t.Fatalf("Cities.Create() ошибка: %v", err)
	}
	address := &model.Address{
		Identity:    model.Identity{ID: uuid.New()},
		CityID:      city.ID,
		Street:      "Волхонка",
		HouseNumber: "12",
	}
	if err := s.Addresses.Create(ctx, address); err != nil {
		t.Fatalf("Addresses.Create() ошибка: %v", err)
	}
	return fixture{country: country, city: city, address: address}
}

func TestMuseumCRUD(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	s := NewStore(pool)
	fx := newFixture(t, s)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	m := &model.Museum{
		Identity:   model.Identity{ID: uuid.New()},
		Timestamps: model.Timestamps{Created: &created},
		Title:      "Музей изобразительных искусств",
		AddressID:  fx.address.ID,
		Rating:     4.8,
	}

	if err := s.Museums.Create(ctx, m); err != nil {
		t.Fatalf("Create() ошибка: %v", err)
	}
	if m.Modified == nil {
		t.Error("Modified не заполнен значением по умолчанию")
	}

	got, err := s.Museums.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetByID() ошибка: %v", err)
	}
	if got.ID != m.ID || got.Title != m.Title || got.AddressID != m.AddressID || got.Rating != 4.8 {
		t.Errorf("GetByID() = %+v, ожидается %+v", got, m)
	}
	if got.Created == nil || !got.Created.Equal(created) {
		t.Errorf("Created = %v, ожидается %v", got.Created, created)
	}

	got.Rating = 5
	if err := s.Museums.Update(ctx, got); err != nil {
		t.Fatalf("Update() ошибка: %v", err)
	}
	again, _ := s.Museums.GetByID(ctx, m.ID)
	if again.Rating != 5 {
		t.Errorf("Rating после обновления = %v, ожидается 5", again.Rating)
	}

	list, err := s.Museums.List(ctx, MuseumFilter{Query: "изобразительных"}, 10, 0)
	if err != nil {
		t.Fatalf("List() ошибка: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List() вернул %d записей, ожидается 1", len(list))
	}

	// Дубликат (title, address)
	dup := &model.Museum{Identity: model.Identity{ID: uuid.New()}, Title: m.Title, AddressID: fx.address.ID}
	if err := s.Museums.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Errorf("Create(дубликат) = %v, ожидается ErrConflict", err)
	}

	// Несуществующий адрес
	orphan := &model.Museum{Identity: model.Identity{ID: uuid.New()}, Title: "Без адреса", AddressID: uuid.New()}
	err = s.Museums.Create(ctx, orphan)
	var ce *ConstraintError
	if !errors.As(err, &ce) || !errors.Is(err, ErrInvalidReference) || ce.Field != "address_id" {
		t.Errorf("Create(несуществующий адрес) = %v, ожидается ErrInvalidReference по address_id", err)
	}

	if err := s.Museums.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete() ошибка: %v", err)
	}
	if _, err := s.Museums.GetByID(ctx, m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(удалённый) = %v, ожидается ErrNotFound", err)
	}
	if err := s.Museums.Delete(ctx, m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("повторный Delete() = %v, ожидается ErrNotFound", err)
	}
}

func TestCityUniqueness(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	s := NewStore(pool)
	fx := newFixture(t, s)

	dup := &model.City{Identity: model.Identity{ID: uuid.New()}, CountryID: fx.country.ID, Name: "Москва"}
	err := s.Cities.Create(ctx, dup)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Create(дубликат города) = %v, ожидается ErrConflict", err)
	}

	// То же название в другой стране допустимо
	other := &model.Country{Identity: model.Identity{ID: uuid.New()}, Name: "США"}
	if err := s.Countries.Create(ctx, other); err != nil {
		t.Fatalf("Countries.Create() ошибка: %v", err)
	}
	dup.CountryID = other.ID
	if err := s.Cities.Create(ctx, dup); err != nil {
		t.Errorf("Create(Москва, США) = %v, ожидалось nil", err)
	}

	n, err := s.Cities.Count(ctx, CityFilter{Query: "моск"})
	if err != nil {
		t.Fatalf("Count() ошибка: %v", err)
	}
	if n != 2 {
		t.Errorf("Count(моск) = %d, ожидается 2", n)
	}
	n, _ = s.Cities.Count(ctx, CityFilter{Query: "сша"})
	if n != 1 {
		t.Errorf("Count(по названию страны) = %d, ожидается 1", n)
	}
}

func TestAddressUniqueness_NullsEqual(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	s := NewStore(pool)
	fx := newFixture(t, s)

	// Тот же адрес без подъезда/этажа/квартиры
	dup := &model.Address{
		Identity:    model.Identity{ID: uuid.New()},
		CityID:      fx.city.ID,
		Street:      "Волхонка",
		HouseNumber: "12",
	}
	if err := s.Addresses.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("Create(дубликат адреса) = %v, ожидается ErrConflict", err)
	}

	floor := int16(2)
	dup.Floor = &floor
	if err := s.Addresses.Create(ctx, dup); err != nil {
		t.Errorf("Create(с этажом) = %v, ожидалось nil", err)
	}
}

func TestMuseumDeleteCascade(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	s := NewStore(pool)
	fx := newFixture(t, s)

	museum := &model.Museum{Identity: model.Identity{ID: uuid.New()}, Title: "Эрмитаж", AddressID: fx.address.ID}
	if err := s.Museums.Create(ctx, museum); err != nil {
		t.Fatalf("Museums.Create() ошибка: %v", err)
	}
	exhibition := &model.Exhibition{
		Identity: model.Identity{ID: uuid.New()},
		MuseumID: museum.ID,
		Theme:    "Античность",
		Floor:    1,
		Info:     "Зал 3",
	}
	if err := s.Exhibitions.Create(ctx, exhibition); err != nil {
		t.Fatalf("Exhibitions.Create() ошибка: %v", err)
	}
	exhibit := &model.Exhibit{
		Identity:     model.Identity{ID: uuid.New()},
		ExpositionID: exhibition.ID,
		Title:        "Амфора",
		Info:         "Глина",
		Era:          -5,
	}
	if err := s.Exhibits.Create(ctx, exhibit); err != nil {
		t.Fatalf("Exhibits.Create() ошибка: %v", err)
	}
	guide := &model.Guide{
		Identity:  model.Identity{ID: uuid.New()},
		Firstname: "Анна",
		Lastname:  "Петрова",
		Birthday:  time.Date(1990, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.Guides.Create(ctx, guide); err != nil {
		t.Fatalf("Guides.Create() ошибка: %v", err)
	}
	link := &model.MuseumGuide{Identity: model.Identity{ID: uuid.New()}, MuseumID: museum.ID, GuideID: guide.ID}
	if err := s.MuseumGuides.Create(ctx, link); err != nil {
		t.Fatalf("MuseumGuides.Create() ошибка: %v", err)
	}

	// Дубликат связи
	dupLink := &model.MuseumGuide{Identity: model.Identity{ID: uuid.New()}, MuseumID: museum.ID, GuideID: guide.ID}
	if err := s.MuseumGuides.Create(ctx, dupLink); !errors.Is(err, ErrConflict) {
		t.Errorf("Create(дубликат связи) = %v, ожидается ErrConflict", err)
	}

	guides, err := s.Guides.List(ctx, GuideFilter{MuseumID: &museum.ID}, 10, 0)
	if err != nil || len(guides) != 1 {
		t.Errorf("Guides.List(по музею) = %d, %v; ожидается 1", len(guides), err)
	}

	if err := s.Museums.Delete(ctx, museum.ID); err != nil {
		t.Fatalf("Museums.Delete() ошибка: %v", err)
	}

	if _, err := s.Exhibitions.GetByID(ctx, exhibition.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("выставка не удалена каскадно: %v", err)
	}
	if _, err := s.Exhibits.GetByID(ctx, exhibit.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("экспонат не удалён каскадно: %v", err)
	}
	if _, err := s.MuseumGuides.GetByID(ctx, link.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("связь не удалена каскадно: %v", err)
	}
	if _, err := s.Guides.GetByID(ctx, guide.ID); err != nil {
		t.Errorf("экскурсовод удалён вместе с музеем: %v", err)
	}
	if _, err := s.Addresses.GetByID(ctx, fx.address.ID); err != nil {
		t.Errorf("адрес удалён вместе с музеем: %v", err)
	}
	if _, err := s.Cities.GetByID(ctx, fx.city.ID); err != nil {
		t.Errorf("город удалён вместе с музеем: %v", err)
	}
}

func TestRunInStore_Rollback(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	runner := NewTxRunner(pool)

	id := uuid.New()
	sentinel := errors.New("откат")
	err := runner.RunInStore(ctx, func(s *Store) error {
		if err := s.Countries.Create(ctx, &model.Country{Identity: model.Identity{ID: id}, Name: "Франция"}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("RunInStore() = %v, ожидается исходная ошибка", err)
	}

	if _, err := NewStore(pool).Countries.GetByID(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("страна сохранилась после отката: %v", err)
	}
}

func TestDeleteByMuseumExcept(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	s := NewStore(pool)
	fx := newFixture(t, s)

	museum := &model.Museum{Identity: model.Identity{ID: uuid.New()}, Title: "Третьяковка", AddressID: fx.address.ID}
	if err := s.Museums.Create(ctx, museum); err != nil {
		t.Fatalf("Museums.Create() ошибка: %v", err)
	}

	var ids []uuid.UUID
	for _, theme := range []string{"Передвижники", "Авангард", "Иконы"} {
		e := &model.Exhibition{Identity: model.Identity{ID: uuid.New()}, MuseumID: museum.ID, Theme: theme, Info: theme}
		if err := s.Exhibitions.Create(ctx, e); err != nil {
			t.Fatalf("Exhibitions.Create(%s) ошибка: %v", theme, err)
		}
		ids = append(ids, e.ID)
	}

	n, err := s.Exhibitions.DeleteByMuseumExcept(ctx, museum.ID, ids[:1])
	if err != nil {
		t.Fatalf("DeleteByMuseumExcept() ошибка: %v", err)
	}
	if n != 2 {
		t.Errorf("удалено %d, ожидается 2", n)
	}

	n, err = s.Exhibitions.DeleteByMuseumExcept(ctx, museum.ID, nil)
	if err != nil {
		t.Fatalf("DeleteByMuseumExcept(nil) ошибка: %v", err)
	}
	if n != 1 {
		t.Errorf("удалено %d, ожидается 1", n)
	}
}

func TestDeleteByExpositionAndGuideExcept(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	s := NewStore(pool)
	fx := newFixture(t, s)

	museum := &model.Museum{Identity: model.Identity{ID: uuid.New()}, Title: "Пушкинский музей", AddressID: fx.address.ID}
	if err := s.Museums.Create(ctx, museum); err != nil {
		t.Fatalf("Museums.Create() ошибка: %v", err)
	}
	exhibition := &model.Exhibition{Identity: model.Identity{ID: uuid.New()}, MuseumID: museum.ID, Theme: "Египет"}
	if err := s.Exhibitions.Create(ctx, exhibition); err != nil {
		t.Fatalf("Exhibitions.Create() ошибка: %v", err)
	}

	var exhibitIDs []uuid.UUID
	for _, title := range []string{"Саркофаг", "Папирус"} {
		x := &model.Exhibit{Identity: model.Identity{ID: uuid.New()}, ExpositionID: exhibition.ID, Title: title, Era: 1500}
		if err := s.Exhibits.Create(ctx, x); err != nil {
			t.Fatalf("Exhibits.Create(%s) ошибка: %v", title, err)
		}
		exhibitIDs = append(exhibitIDs, x.ID)
	}

	n, err := s.Exhibits.DeleteByExpositionExcept(ctx, exhibition.ID, exhibitIDs[1:])
	if err != nil {
		t.Fatalf("DeleteByExpositionExcept() ошибка: %v", err)
	}
	if n != 1 {
		t.Errorf("удалено экспонатов %d, ожидается 1", n)
	}
	if _, err := s.Exhibits.GetByID(ctx, exhibitIDs[1]); err != nil {
		t.Errorf("оставленный экспонат: %v", err)
	}

	guide := &model.Guide{
		Identity:  model.Identity{ID: uuid.New()},
		Firstname: "Анна",
		Lastname:  "Петрова",
		Birthday:  time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.Guides.Create(ctx, guide); err != nil {
		t.Fatalf("Guides.Create() ошибка: %v", err)
	}
	link := &model.MuseumGuide{Identity: model.Identity{ID: uuid.New()}, MuseumID: museum.ID, GuideID: guide.ID}
	if err := s.MuseumGuides.Create(ctx, link); err != nil {
		t.Fatalf("MuseumGuides.Create() ошибка: %v", err)
	}

	n, err = s.MuseumGuides.DeleteByGuideExcept(ctx, guide.ID, []uuid.UUID{link.ID})
	if err != nil {
		t.Fatalf("DeleteByGuideExcept(keep) ошибка: %v", err)
	}
	if n != 0 {
		t.Errorf("удалено связей %d, ожидается 0", n)
	}
	n, err = s.MuseumGuides.DeleteByGuideExcept(ctx, guide.ID, nil)
	if err != nil {
		t.Fatalf("DeleteByGuideExcept(nil) ошибка: %v", err)
	}
	if n != 1 {
		t.Errorf("удалено связей %d, ожидается 1", n)
	}
}
