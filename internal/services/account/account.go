// Package account содержит бизнес-логику жизненного цикла учётных записей:
// регистрацию, вход, выход, редактирование профиля и чтение.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/account-service/internal/lib/metrics"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/lib/token"
	"github.com/magabrotheeeer/account-service/internal/models"
	"github.com/magabrotheeeer/account-service/internal/storage"
)

// Repository описывает контракт хранилища аккаунтов.
// Поиск без совпадения возвращает (nil, nil), а не ошибку.
type Repository interface {
	// FindAll возвращает все аккаунты, упорядоченные по ID.
	FindAll(ctx context.Context) ([]models.Account, error)
	// FindByID возвращает аккаунт по ID.
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	// FindByUsername возвращает аккаунт по username.
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	// FindByName возвращает аккаунт по отображаемому имени.
	FindByName(ctx context.Context, name string) (*models.Account, error)
	// Save вставляет аккаунт с нулевым ID или обновляет существующий.
	Save(ctx context.Context, acc models.Account) (models.Account, error)
	// DeleteAll удаляет все аккаунты. Используется только тестовыми фикстурами.
	DeleteAll(ctx context.Context) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// EventPublisher публикует события жизненного цикла аккаунта.
type EventPublisher interface {
	Publish(ctx context.Context, event models.AccountEvent) error
}

const defaultCacheTTL = time.Hour

// Service реализует операции над аккаунтами поверх внешнего хранилища.
// Между вызовами состояние не хранится, всё долговременное лежит в Repository.
type Service struct {
	repo     Repository
	cache    Cache
	events   EventPublisher
	tokens   token.Generator
	now      func() time.Time
	cacheTTL time.Duration
	log      *slog.Logger

	// cacheMu сериализует запись в кеш из GetByID с инвалидацией после записи.
	// generations растёт при каждой записи аккаунта: GetByID кладёт в кеш
	// прочитанное значение, только если поколение не изменилось с момента чтения.
	cacheMu     sync.Mutex
	generations map[int64]uint64
}

// Option настраивает Service.
type Option func(*Service)

// WithTokenGenerator подменяет генератор сессионных токенов.
func WithTokenGenerator(g token.Generator) Option {
	return func(s *Service) { s.tokens = g }
}

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCacheTTL задаёт время жизни записей в кеше.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// NewService создает новый экземпляр Service. cache и events могут быть nil.
func NewService(repo Repository, cache Cache, events EventPublisher, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		cache:    cache,
		events:   events,
		tokens:   token.UUIDGenerator{},
		now:      func() time.Time { return time.Now() },
		cacheTTL: defaultCacheTTL,
		log:      log,

		generations: make(map[int64]uint64),
	}
	if s.cache == nil {
		s.cache = nopCache{}
	}
	if s.events == nil {
		s.events = nopPublisher{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create регистрирует новый аккаунт: выдаёт токен, фиксирует дату создания,
// выставляет статус ONLINE и проверяет уникальность username и name.
func (s *Service) Create(ctx context.Context, in models.CreateInput) (acc models.Account, err error) {
	const op = "services.account.Create"
	defer func() { metrics.ObserveOperation("create", result(err)) }()

	if in.Name == "" || in.Username == "" || in.Password == "" {
		return models.Account{}, newError(KindValidation, "Name, Username, and Password are required.")
	}

	acc = models.Account{
		Name:         in.Name,
		Username:     in.Username,
		Password:     in.Password,
		Token:        s.tokens.New(),
		Status:       models.StatusOnline,
		CreationDate: s.timestamp(),
	}

	if err = s.checkUnique(ctx, acc.Username, acc.Name); err != nil {
		return models.Account{}, err
	}

	acc, err = s.repo.Save(ctx, acc)
	if err != nil {
		return models.Account{}, s.translateWriteError(ctx, op, in.Username, in.Name, err)
	}

	s.log.Debug("created account", sl.Account(acc))
	s.publish(ctx, models.EventAccountCreated, acc)
	return acc, nil
}

// Login проверяет учётные данные, переводит аккаунт в ONLINE и перевыпускает токен.
func (s *Service) Login(ctx context.Context, in models.LoginInput) (acc models.Account, err error) {
	const op = "services.account.Login"
	defer func() { metrics.ObserveOperation("login", result(err)) }()

	found, err := s.repo.FindByUsername(ctx, in.Username)
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	if found == nil {
		return models.Account{}, newError(KindNotFound, "Unknown Username, register now!")
	}
	if found.Password != in.Password {
		return models.Account{}, newError(KindUnauthorized, "Incorrect Password.")
	}

	found.Status = models.StatusOnline
	found.Token = s.tokens.New()

	acc, err = s.repo.Save(ctx, *found)
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, acc.ID)

	s.log.Debug("logged in account", sl.Account(acc))
	s.publish(ctx, models.EventAccountLoggedIn, acc)
	return acc, nil
}

// Logout переводит аккаунт с указанным username в OFFLINE.
// Токен и username не меняются.
func (s *Service) Logout(ctx context.Context, username string) (acc models.Account, err error) {
	const op = "services.account.Logout"
	defer func() { metrics.ObserveOperation("logout", result(err)) }()

	found, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	if found == nil {
		return models.Account{}, newError(KindNotFound, "User with username %s was not found", username)
	}
	return s.logout(ctx, op, *found)
}

// LogoutByID переводит в OFFLINE аккаунт с указанным ID.
// Аккаунт читается из хранилища, кеш не используется.
func (s *Service) LogoutByID(ctx context.Context, id int64) (acc models.Account, err error) {
	const op = "services.account.LogoutByID"
	defer func() { metrics.ObserveOperation("logout", result(err)) }()

	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	if found == nil {
		return models.Account{}, newError(KindNotFound, "User with ID %d was not found", id)
	}
	return s.logout(ctx, op, *found)
}

func (s *Service) logout(ctx context.Context, op string, found models.Account) (models.Account, error) {
	found.Status = models.StatusOffline

	acc, err := s.repo.Save(ctx, found)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return models.Account{}, newError(KindNotFound, "User with ID %d was not found", found.ID)
		}
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, acc.ID)

	s.log.Debug("logged out account", sl.Account(acc))
	s.publish(ctx, models.EventAccountLoggedOut, acc)
	return acc, nil
}

// Edit меняет username и/или дату рождения.
// Повторная отправка текущего username считается конфликтом.
func (s *Service) Edit(ctx context.Context, in models.EditInput) (acc models.Account, err error) {
	const op = "services.account.Edit"
	defer func() { metrics.ObserveOperation("edit", result(err)) }()

	found, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	if found == nil {
		return models.Account{}, newError(KindNotFound, "User with user id %d not found!", in.ID)
	}

	if in.Username != nil && *in.Username == found.Username {
		return models.Account{}, newError(KindConflict, "Username already exists")
	}
	if in.Username != nil && *in.Username != "" {
		found.Username = *in.Username
	}
	if in.Birthday != nil {
		birthday := models.BirthdayDate(*in.Birthday)
		found.Birthday = &birthday
	}

	acc, err = s.repo.Save(ctx, *found)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			return models.Account{}, newError(KindNotFound, "User with user id %d not found!", in.ID)
		}
		if errors.Is(err, storage.ErrAccountExists) {
			return models.Account{}, newError(KindConflict, "Username already exists")
		}
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, acc.ID)

	s.log.Debug("edited account", sl.Account(acc))
	s.publish(ctx, models.EventAccountEdited, acc)
	return acc, nil
}

// List возвращает все аккаунты.
func (s *Service) List(ctx context.Context) ([]models.Account, error) {
	const op = "services.account.List"

	accounts, err := s.repo.FindAll(ctx)
	metrics.ObserveOperation("list", result(err))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return accounts, nil
}

// GetByID возвращает аккаунт по ID, используя кеш или репозиторий.
func (s *Service) GetByID(ctx context.Context, id int64) (acc models.Account, err error) {
	const op = "services.account.GetByID"
	defer func() { metrics.ObserveOperation("get", result(err)) }()

	key := cacheKey(id)
	var cached models.Account
	found, cacheErr := s.cache.Get(ctx, key, &cached)
	if cacheErr != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(cacheErr))
	}
	if found {
		return cached, nil
	}

	gen := s.generation(id)
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	if res == nil {
		return models.Account{}, newError(KindNotFound, "User with ID %d was not found", id)
	}

	s.cacheIfUnchanged(ctx, key, gen, *res)
	return *res, nil
}

func (s *Service) generation(id int64) uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generations[id]
}

// cacheIfUnchanged кладёт acc в кеш, если с момента чтения аккаунт не записывался.
// Иначе значение могло устареть и перетереть инвалидацию, сделанную записью.
func (s *Service) cacheIfUnchanged(ctx context.Context, key string, gen uint64, acc models.Account) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if s.generations[acc.ID] != gen {
		s.log.Debug("skip caching stale account", slog.String("key", key))
		return
	}
	if err := s.cache.Set(ctx, key, acc, s.cacheTTL); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}
}

// checkUnique ищет существующие аккаунты по username и по name независимо друг от друга.
func (s *Service) checkUnique(ctx context.Context, username, name string) error {
	const op = "services.account.checkUnique"

	byUsername, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	byName, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return uniquenessError(byUsername != nil, byName != nil)
}

// translateWriteError превращает нарушение уникальности, пойманное хранилищем
// при записи (конкурентное создание), в конфликт с тем же текстом, что и при проверке.
func (s *Service) translateWriteError(ctx context.Context, op, username, name string, err error) error {
	var dup *storage.DuplicateError
	if !errors.As(err, &dup) && !errors.Is(err, storage.ErrAccountExists) {
		return fmt.Errorf("%s: %w", op, err)
	}

	if checkErr := s.checkUnique(ctx, username, name); checkErr != nil {
		return checkErr
	}

	field := ""
	if dup != nil {
		field = dup.Field
	}
	switch field {
	case storage.FieldName:
		return uniquenessError(false, true)
	default:
		return uniquenessError(true, false)
	}
}

func uniquenessError(usernameTaken, nameTaken bool) error {
	const base = "The %s provided %s not unique. Therefore, the user could not be created!"
	switch {
	case usernameTaken && nameTaken:
		return newError(KindConflict, base, "username and the name", "are")
	case usernameTaken:
		return newError(KindConflict, base, "username", "is")
	case nameTaken:
		return newError(KindConflict, base, "name", "is")
	default:
		return nil
	}
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// invalidate вызывается после каждой записи аккаунта.
func (s *Service) invalidate(ctx context.Context, id int64) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.generations[id]++
	key := cacheKey(id)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) publish(ctx context.Context, t models.EventType, acc models.Account) {
	event := models.NewAccountEvent(t, acc, s.timestamp())
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish account event", slog.String("type", string(t)), sl.Err(err))
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("account:%d", id)
}

type nopCache struct{}

func (nopCache) Get(context.Context, string, any) (bool, error)       { return false, nil }
func (nopCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (nopCache) Invalidate(context.Context, string) error              { return nil }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, models.AccountEvent) error { return nil }
