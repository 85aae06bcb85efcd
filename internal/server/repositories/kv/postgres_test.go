package kv

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/scenevault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var (
	pgGet    = regexp.QuoteMeta(`SELECT value FROM kv_entries WHERE namespace=$1 AND key=$2`)
	pgHas    = regexp.QuoteMeta(`SELECT COUNT(*) FROM kv_entries WHERE namespace=$1 AND key=$2`)
	pgDelete = regexp.QuoteMeta(`DELETE FROM kv_entries WHERE namespace=$1 AND key=$2`)
	pgLock   = `SELECT pg_advisory_xact_lock\(hashtext\(.*\)\)`
	pgUpsert = `INSERT INTO kv_entries .* ON CONFLICT \(namespace, key\)\s+DO UPDATE SET value = EXCLUDED\.value`
)

func TestPostgresGet_Found(t *testing.T) {
	repo, mock, db := newPostgresRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(pgGet).
		WithArgs("scenes", "workspace:u1:s1").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"id":"s1"}`)))

	got, err := repo.Get(context.Background(), NamespaceScenes, "workspace:u1:s1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"s1"}`, string(got))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGet_NotFound(t *testing.T) {
	repo, mock, db := newPostgresRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(pgGet).
		WithArgs("settings", "workspace:meta:u1").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := repo.Get(context.Background(), NamespaceSettings, "workspace:meta:u1")
	assert.True(t, errors.Is(err, common.ErrorNotFound), "got %v", err)
}

func TestPostgresGet_QueryError(t *testing.T) {
	repo, mock, db := newPostgresRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(pgGet).WillReturnError(errors.New("db is down"))

	_, err := repo.Get(context.Background(), NamespaceScenes, "k")
	if err == nil || !regexp.MustCompile(`failed to select value: .*db is down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped select error, got %v", err)
	}
}

func TestPostgresSet_Upserts(t *testing.T) {
	repo, mock, db := newPostgresRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(pgUpsert).
		WithArgs("scenes", "k", []byte("v")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Set(context.Background(), NamespaceScenes, "k", []byte("v")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSet_NilDeletes(t *testing.T) {
	repo, mock, db := newPostgresRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(pgDelete).
		WithArgs("scenes", "k").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Set(context.Background(), NamespaceScenes, "k", nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSet_ExecError(t *testing.T) {
	repo, mock, db := newPostgresRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(pgUpsert).WillReturnError(errors.New("disk full"))

	err := repo.Set(context.Background(), NamespaceScenes, "k", []byte("v"))
	if err == nil || !regexp.MustCompile(`db error: .*disk full`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgresHas(t *testing.T) {
	repo, mock, db := newPostgresRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(pgHas).WithArgs("scenes", "yes").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(pgHas).WithArgs("scenes", "no").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(pgHas).WithArgs("scenes", "err").
		WillReturnError(errors.New("timeout"))

	ok, err := repo.Has(context.Background(), NamespaceScenes, "yes")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Has(context.Background(), NamespaceScenes, "no")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.Has(context.Background(), NamespaceScenes, "err")
	assert.Error(t, err)
}

func TestPostgresUpdate_LocksReadsAndWritesInTx(t *testing.T) {
	repo, mock, db := newPostgresRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(pgLock).WithArgs("settings", "idx").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(pgGet).WithArgs("settings", "idx").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte("old")))
	mock.ExpectExec(pgUpsert).WithArgs("settings", "idx", []byte("old+new")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), NamespaceSettings, "idx", func(old []byte, found bool) ([]byte, error) {
		assert.True(t, found)
		return append(old, []byte("+new")...), nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdate_AbsentKey(t *testing.T) {
	repo, mock, db := newPostgresRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(pgLock).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(pgGet).WillReturnRows(sqlmock.NewRows([]string{"value"}))
	mock.ExpectExec(pgUpsert).WithArgs("settings", "idx", []byte("[]")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), NamespaceSettings, "idx", func(old []byte, found bool) ([]byte, error) {
		assert.False(t, found)
		assert.Nil(t, old)
		return []byte("[]"), nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdate_RollsBackOnError(t *testing.T) {
	repo, mock, db := newPostgresRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(pgLock).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(pgGet).WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte("x")))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := repo.Update(context.Background(), NamespaceSettings, "idx", func([]byte, bool) ([]byte, error) {
		return nil, boom
	})
	assert.True(t, errors.Is(err, boom))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdate_LockError(t *testing.T) {
	repo, mock, db := newPostgresRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(pgLock).WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), NamespaceSettings, "idx", func([]byte, bool) ([]byte, error) {
		t.Fatal("fn must not run when the lock fails")
		return nil, nil
	})
	if err == nil || !regexp.MustCompile(`failed to lock key: .*deadlock`).MatchString(err.Error()) {
		t.Fatalf("expected lock error, got %v", err)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}
