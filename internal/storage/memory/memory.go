// Package memory реализует хранилище аккаунтов в памяти процесса.
// Уникальность username и name проверяется под тем же мьютексом, что и запись,
// поэтому конкурентные вставки дубликатов невозможны.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/magabrotheeeer/account-service/internal/models"
	"github.com/magabrotheeeer/account-service/internal/storage"
)

// Storage хранит аккаунты в map и выдаёт ID монотонно возрастающим счётчиком.
type Storage struct {
	mu       sync.RWMutex
	accounts map[int64]models.Account
	nextID   int64
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		accounts: make(map[int64]models.Account),
	}
}

// FindAll возвращает все аккаунты, упорядоченные по ID.
func (s *Storage) FindAll(ctx context.Context) ([]models.Account, error) {
	const op = "storage.memory.FindAll"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		result = append(result, clone(acc))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// FindByID возвращает аккаунт по ID или nil.
func (s *Storage) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	const op = "storage.memory.FindByID"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	acc = clone(acc)
	return &acc, nil
}

// FindByUsername возвращает аккаунт по username или nil.
func (s *Storage) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	const op = "storage.memory.FindByUsername"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.findBy(func(acc models.Account) bool { return acc.Username == username }), nil
}

// FindByName возвращает аккаунт по отображаемому имени или nil.
func (s *Storage) FindByName(ctx context.Context, name string) (*models.Account, error) {
	const op = "storage.memory.FindByName"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.findBy(func(acc models.Account) bool { return acc.Name == name }), nil
}

// Save вставляет аккаунт с нулевым ID, назначая новый ID, либо обновляет существующий.
func (s *Storage) Save(ctx context.Context, acc models.Account) (models.Account, error) {
	const op = "storage.memory.Save"
	if err := ctx.Err(); err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if acc.ID != 0 {
		if _, ok := s.accounts[acc.ID]; !ok {
			return models.Account{}, fmt.Errorf("%s: %w", op, storage.ErrAccountNotFound)
		}
	}

	for id, existing := range s.accounts {
		if id == acc.ID {
			continue
		}
		if existing.Username == acc.Username {
			return models.Account{}, fmt.Errorf("%s: %w", op, &storage.DuplicateError{Field: storage.FieldUsername})
		}
		if existing.Name == acc.Name {
			return models.Account{}, fmt.Errorf("%s: %w", op, &storage.DuplicateError{Field: storage.FieldName})
		}
	}

	if acc.ID == 0 {
		s.nextID++
		acc.ID = s.nextID
	}
	s.accounts[acc.ID] = clone(acc)
	return clone(acc), nil
}

// DeleteAll удаляет все аккаунты. Счётчик ID не сбрасывается, чтобы ID не переиспользовались.
func (s *Storage) DeleteAll(ctx context.Context) error {
	const op = "storage.memory.DeleteAll"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = make(map[int64]models.Account)
	return nil
}

// Ping всегда успешен.
func (s *Storage) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close ничего не освобождает.
func (s *Storage) Close() error {
	return nil
}

func (s *Storage) findBy(match func(models.Account) bool) *models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acc := range s.accounts {
		if match(acc) {
			acc = clone(acc)
			return &acc
		}
	}
	return nil
}

func clone(acc models.Account) models.Account {
	if acc.Birthday != nil {
		b := *acc.Birthday
		acc.Birthday = &b
	}
	return acc
}
