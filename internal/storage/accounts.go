package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/account-service/internal/models"
)

const (
	uniqueViolationCode = "23505"

	usernameConstraint = "accounts_username_key"
	nameConstraint     = "accounts_name_key"
)

const accountColumns = `id, name, username, password, token, status, creation_date, birthday`

type scanner interface {
	Scan(dest ...any) error
}

// FindAll возвращает все аккаунты, упорядоченные по ID.
func (s *Storage) FindAll(ctx context.Context) ([]models.Account, error) {
	const op = "storage.FindAll"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Account, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, acc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindByID возвращает аккаунт по ID или nil, если его нет.
func (s *Storage) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	const op = "storage.FindByID"
	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE id = $1`
	return s.findOne(ctx, op, query, id)
}

// FindByUsername возвращает аккаунт по username или nil, если его нет.
func (s *Storage) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	const op = "storage.FindByUsername"
	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE username = $1`
	return s.findOne(ctx, op, query, username)
}

// FindByName возвращает аккаунт по отображаемому имени или nil, если его нет.
func (s *Storage) FindByName(ctx context.Context, name string) (*models.Account, error) {
	const op = "storage.FindByName"
	query := `SELECT ` + accountColumns + `
			  FROM accounts
			  WHERE name = $1`
	return s.findOne(ctx, op, query, name)
}

// Save вставляет аккаунт с нулевым ID и возвращает его с назначенным ID,
// либо обновляет существующую запись.
func (s *Storage) Save(ctx context.Context, acc models.Account) (models.Account, error) {
	const op = "storage.Save"
	select {
	case <-ctx.Done():
		return models.Account{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	birthday := sql.NullTime{}
	if acc.Birthday != nil {
		birthday = sql.NullTime{Time: *acc.Birthday, Valid: true}
	}

	if acc.ID == 0 {
		query := `INSERT INTO accounts (name, username, password, token, status,
				      creation_date, birthday)
				  VALUES ($1, $2, $3, $4, $5, $6, $7)
				  RETURNING id`
		var newID int64
		err := s.DB.QueryRowContext(ctx, query,
			acc.Name, acc.Username, acc.Password, acc.Token, string(acc.Status),
			acc.CreationDate, birthday).Scan(&newID)
		if err != nil {
			return models.Account{}, mapError(op, err)
		}
		acc.ID = newID
		return acc, nil
	}

	query := `UPDATE accounts
			  SET name = $1, username = $2, password = $3, token = $4, status = $5,
			      birthday = $6
			  WHERE id = $7`
	result, err := s.DB.ExecContext(ctx, query,
		acc.Name, acc.Username, acc.Password, acc.Token, string(acc.Status),
		birthday, acc.ID)
	if err != nil {
		return models.Account{}, mapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return models.Account{}, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
	}
	return acc, nil
}

// DeleteAll удаляет все аккаунты. Последовательность ID не сбрасывается.
func (s *Storage) DeleteAll(ctx context.Context) error {
	const op = "storage.DeleteAll"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) findOne(ctx context.Context, op, query string, arg any) (*models.Account, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	acc, err := scanAccount(s.DB.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &acc, nil
}

func scanAccount(row scanner) (models.Account, error) {
	var (
		acc      models.Account
		status   string
		birthday sql.NullTime
	)
	if err := row.Scan(&acc.ID, &acc.Name, &acc.Username, &acc.Password, &acc.Token,
		&status, &acc.CreationDate, &birthday); err != nil {
		return models.Account{}, err
	}
	acc.Status = models.Status(status)
	acc.CreationDate = acc.CreationDate.UTC()
	if birthday.Valid {
		b := birthday.Time.UTC()
		acc.Birthday = &b
	}
	return acc, nil
}

// mapError переводит нарушение уникальности PostgreSQL в DuplicateError.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		field := ""
		switch pgErr.ConstraintName {
		case usernameConstraint:
			field = FieldUsername
		case nameConstraint:
			field = FieldName
		}
		return fmt.Errorf("%s: %w", op, &DuplicateError{Field: field, Err: err})
	}
	return fmt.Errorf("%s: %w", op, err)
}
