package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/account-service/internal/models"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Storage{DB: db}, mock
}

var accountRowColumns = []string{"id", "name", "username", "password", "token", "status", "creation_date", "birthday"}

func TestStorage_FindByID(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	birthday := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		mockSetup func(mock sqlmock.Sqlmock)
		want      *models.Account
		wantErr   bool
	}{
		{
			name: "found",
			mockSetup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(accountRowColumns).
					AddRow(int64(1), "Alice", "alice", "pw", "tok", "ONLINE", created, birthday)
				mock.ExpectQuery(regexp.QuoteMeta("FROM accounts")).WithArgs(int64(1)).WillReturnRows(rows)
			},
			want: &models.Account{
				ID: 1, Name: "Alice", Username: "alice", Password: "pw", Token: "tok",
				Status: models.StatusOnline, CreationDate: created, Birthday: &birthday,
			},
		},
		{
			name: "not found",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM accounts")).WithArgs(int64(1)).WillReturnError(sql.ErrNoRows)
			},
			want: nil,
		},
		{
			name: "database error",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("FROM accounts")).WithArgs(int64(1)).WillReturnError(errors.New("boom"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStorage(t)
			tt.mockSetup(mock)

			got, err := s.FindByID(context.Background(), 1)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "storage.FindByID")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStorage_FindAll(t *testing.T) {
	s, mock := newMockStorage(t)
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(accountRowColumns).
		AddRow(int64(1), "A", "a", "p", "t1", "ONLINE", created, nil).
		AddRow(int64(2), "B", "b", "p", "t2", "OFFLINE", created, nil)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id")).WillReturnRows(rows)

	got, err := s.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, models.StatusOffline, got[1].Status)
	assert.Nil(t, got[1].Birthday)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_SaveInsert(t *testing.T) {
	acc := models.Account{
		Name: "Alice", Username: "alice", Password: "pw", Token: "tok",
		Status: models.StatusOnline, CreationDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name      string
		mockSetup func(mock sqlmock.Sqlmock)
		wantID    int64
		wantField string
		wantErr   bool
	}{
		{
			name: "success",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
					WithArgs("Alice", "alice", "pw", "tok", "ONLINE", acc.CreationDate, sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
			},
			wantID: 7,
		},
		{
			name: "duplicate username",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_username_key"})
			},
			wantField: FieldUsername,
			wantErr:   true,
		},
		{
			name: "duplicate name",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_name_key"})
			},
			wantField: FieldName,
			wantErr:   true,
		},
		{
			name: "other error",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStorage(t)
			tt.mockSetup(mock)

			got, err := s.Save(context.Background(), acc)
			if tt.wantErr {
				require.Error(t, err)
				var dup *DuplicateError
				if tt.wantField != "" {
					require.True(t, errors.As(err, &dup))
					assert.Equal(t, tt.wantField, dup.Field)
					assert.ErrorIs(t, err, ErrAccountExists)
				} else {
					assert.False(t, errors.As(err, &dup))
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, got.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStorage_SaveUpdate(t *testing.T) {
	acc := models.Account{ID: 3, Name: "A", Username: "a", Password: "p", Token: "t", Status: models.StatusOffline}

	t.Run("success", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts")).
			WithArgs("A", "a", "p", "t", "OFFLINE", sqlmock.AnyArg(), int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		got, err := s.Save(context.Background(), acc)
		require.NoError(t, err)
		assert.Equal(t, acc, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown id", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := s.Save(context.Background(), acc)
		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStorage_CanceledContext(t *testing.T) {
	s, mock := newMockStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.FindAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	err = s.DeleteAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
