package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/nhood/internal/entity"
)

type DataURLRepositoryTestSuite struct {
	suite.Suite
	errUnknown error
	columns    []string
	mock       sqlmock.Sqlmock
	repo       *DataURLRepository
}

func (suite *DataURLRepositoryTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
	suite.columns = []string{"id", "keys", "url"}
}

func (suite *DataURLRepositoryTestSuite) SetupSubTest() {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		suite.T().Fatalf("Failed to create mock database: %v", err)
	}
	suite.T().Cleanup(func() {
		mockDB.Close()
	})

	db := sqlx.NewDb(mockDB, "sqlmock")

	suite.mock = mock
	suite.repo = NewDataURLRepository(db)
}

func (suite *DataURLRepositoryTestSuite) TearDownSubTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
}

func (suite *DataURLRepositoryTestSuite) TestFindAll() {
	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM data_urls ORDER BY id`).
			WillReturnError(suite.errUnknown)

		entries, err := suite.repo.FindAll(context.Background())

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(entries)
	})

	suite.Run("empty table", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM data_urls ORDER BY id`).
			WillReturnRows(sqlmock.NewRows(suite.columns))

		entries, err := suite.repo.FindAll(context.Background())

		suite.NoError(err)
		suite.NotNil(entries)
		suite.Empty(entries)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows(suite.columns).
			AddRow(1, `{K1,K2}`, "http://a").
			AddRow(2, `{K3}`, "http://b")

		suite.mock.ExpectQuery(`SELECT (.+) FROM data_urls ORDER BY id`).
			WillReturnRows(rows)

		entries, err := suite.repo.FindAll(context.Background())

		suite.NoError(err)
		suite.Equal([]*entity.DataURL{
			{ID: 1, Key: []string{"K1", "K2"}, URL: "http://a"},
			{ID: 2, Key: []string{"K3"}, URL: "http://b"},
		}, entries)
	})
}

func (suite *DataURLRepositoryTestSuite) TestFindByID() {
	suite.Run("entry not found", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM data_urls WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnError(sql.ErrNoRows)

		e, err := suite.repo.FindByID(context.Background(), 1)

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrEntryNotFound)
		suite.Nil(e)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM data_urls WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnError(suite.errUnknown)

		e, err := suite.repo.FindByID(context.Background(), 1)

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(e)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows(suite.columns).
			AddRow(1, `{K1,K2}`, "http://x")

		suite.mock.ExpectQuery(`SELECT (.+) FROM data_urls WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(rows)

		e, err := suite.repo.FindByID(context.Background(), 1)

		suite.NoError(err)
		suite.Equal(&entity.DataURL{ID: 1, Key: []string{"K1", "K2"}, URL: "http://x"}, e)
	})
}

func (suite *DataURLRepositoryTestSuite) TestSave() {
	suite.Run("insert unknown error", func() {
		suite.mock.ExpectQuery(`INSERT INTO data_urls`).
			WithArgs(`{"K1","K2"}`, "http://x").
			WillReturnError(suite.errUnknown)

		e, err := suite.repo.Save(context.Background(), &entity.DataURL{Key: []string{"K1", "K2"}, URL: "http://x"})

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(e)
	})

	suite.Run("insert success", func() {
		rows := sqlmock.NewRows(suite.columns).
			AddRow(1, `{K1,K2}`, "http://x")

		suite.mock.ExpectQuery(`INSERT INTO data_urls`).
			WithArgs(`{"K1","K2"}`, "http://x").
			WillReturnRows(rows)

		e, err := suite.repo.Save(context.Background(), &entity.DataURL{Key: []string{"K1", "K2"}, URL: "http://x"})

		suite.NoError(err)
		suite.Equal(&entity.DataURL{ID: 1, Key: []string{"K1", "K2"}, URL: "http://x"}, e)
	})

	suite.Run("update entry not found", func() {
		suite.mock.ExpectQuery(`UPDATE data_urls`).
			WithArgs(`{"K3"}`, "http://y", int64(7)).
			WillReturnError(sql.ErrNoRows)

		e, err := suite.repo.Save(context.Background(), &entity.DataURL{ID: 7, Key: []string{"K3"}, URL: "http://y"})

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrEntryNotFound)
		suite.Nil(e)
	})

	suite.Run("update success", func() {
		rows := sqlmock.NewRows(suite.columns).
			AddRow(7, `{K3}`, "http://y")

		suite.mock.ExpectQuery(`UPDATE data_urls`).
			WithArgs(`{"K3"}`, "http://y", int64(7)).
			WillReturnRows(rows)

		e, err := suite.repo.Save(context.Background(), &entity.DataURL{ID: 7, Key: []string{"K3"}, URL: "http://y"})

		suite.NoError(err)
		suite.Equal(&entity.DataURL{ID: 7, Key: []string{"K3"}, URL: "http://y"}, e)
	})
}

func (suite *DataURLRepositoryTestSuite) TestDelete() {
	suite.Run("unknown error", func() {
		suite.mock.ExpectExec(`DELETE FROM data_urls`).
			WithArgs(int64(1)).
			WillReturnError(suite.errUnknown)

		err := suite.repo.Delete(context.Background(), &entity.DataURL{ID: 1})

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
	})

	suite.Run("entry not found", func() {
		suite.mock.ExpectExec(`DELETE FROM data_urls`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := suite.repo.Delete(context.Background(), &entity.DataURL{ID: 1})

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrEntryNotFound)
	})

	suite.Run("success", func() {
		suite.mock.ExpectExec(`DELETE FROM data_urls`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := suite.repo.Delete(context.Background(), &entity.DataURL{ID: 1})

		suite.NoError(err)
	})
}

func (suite *DataURLRepositoryTestSuite) TestCount() {
	suite.Run("success", func() {
		suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM data_urls`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		n, err := suite.repo.Count(context.Background())

		suite.NoError(err)
		suite.Equal(int64(3), n)
	})
}

func TestDataURLRepository(t *testing.T) {
	suite.Run(t, new(DataURLRepositoryTestSuite))
}
