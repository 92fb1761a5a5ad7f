package storage_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bxcodec/faker/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/storage"
)

type IDGeneratorMock struct {
	mock.Mock
}

func (i *IDGeneratorMock) Generate() []byte {
	args := i.Called()
	if value, ok := args.Get(0).([]byte); ok {
		return value
	}
	return nil
}

func insertQuery(table string) string {
	return regexp.QuoteMeta("INSERT INTO " + table + "(id, currency, provider, rate, created_at) VALUES(?,?,?,?,?);")
}

func randomRates(n int) []currency.Rate {
	rates := make([]currency.Rate, 0, n)

	for i := 0; i < n; i++ {
		rates = append(rates, currency.Rate{
			From:      currency.Code(faker.Currency()),
			To:        currency.Code(faker.Currency()),
			Provider:  currency.ExchangeRateAPIProvider,
			Rate:      float64(i+1) / 10,
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Minute),
		})
	}

	return rates
}

func TestMySQLStorage_Store(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	db, sqlMock, err := sqlmock.New()
	asserts.NoError(err)
	defer db.Close()

	rates := randomRates(5)
	st := storage.NewSQLStorage(db, "currency_store_test", nil)

	sqlMock.ExpectBegin()
	prepare := sqlMock.ExpectPrepare(insertQuery("currency_store_test"))
	for _, rate := range rates {
		prepare.ExpectExec().
			WithArgs(sqlmock.AnyArg(), string(rate.From)+"_"+string(rate.To), "ExchangeRateAPI", rate.Rate, rate.CreatedAt.Format(storage.MySQLTimeFormat)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	sqlMock.ExpectCommit()

	saved, err := st.Store(context.Background(), rates)

	asserts.NoError(err)
	asserts.Len(saved, len(rates))

	for i, rate := range saved {
		asserts.IsType(uuid.UUID{}, rate.ID)
		asserts.Equal(rates[i], rate.Rate)
	}

	asserts.NoError(sqlMock.ExpectationsWereMet())
}

func TestMySQLStorage_StoreDefaultsCreatedAt(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	db, sqlMock, err := sqlmock.New()
	asserts.NoError(err)
	defer db.Close()

	st := storage.NewSQLStorage(db, "", nil)

	sqlMock.ExpectBegin()
	sqlMock.ExpectPrepare(insertQuery(storage.DefaultTableName)).
		ExpectExec().
		WithArgs(sqlmock.AnyArg(), "EUR_USD", "ExchangeRatesAPI", 1.09, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	saved, err := st.Store(context.Background(), []currency.Rate{{From: "EUR", To: "USD", Provider: currency.ExchangeRatesAPIProvider, Rate: 1.09}})

	asserts.NoError(err)
	asserts.Len(saved, 1)
	asserts.False(saved[0].CreatedAt.IsZero())
	asserts.NoError(sqlMock.ExpectationsWereMet())
}

func TestMySQLStorage_StoreRollsBack(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	db, sqlMock, err := sqlmock.New()
	asserts.NoError(err)
	defer db.Close()

	rates := randomRates(2)
	insertErr := errors.New("duplicate entry")
	st := storage.NewSQLStorage(db, "currency_rollback_test", nil)

	sqlMock.ExpectBegin()
	prepare := sqlMock.ExpectPrepare(insertQuery("currency_rollback_test"))
	prepare.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prepare.ExpectExec().WillReturnError(insertErr)
	sqlMock.ExpectRollback()

	saved, err := st.Store(context.Background(), rates)

	asserts.Nil(saved)
	asserts.ErrorIs(err, insertErr)
	asserts.NoError(sqlMock.ExpectationsWereMet())
}

func TestMySQLStorage_IDGenerator(t *testing.T) {
	t.Parallel()
	idNullBytes := &IDGeneratorMock{}
	idLessBytes := &IDGeneratorMock{}

	idNullBytes.On("Generate").Return(nil)
	idLessBytes.On("Generate").Return(make([]byte, 10))

	for _, gen := range []storage.IDGenerator{idNullBytes, idLessBytes} {
		asserts := require.New(t)
		db, sqlMock, err := sqlmock.New()
		asserts.NoError(err)

		st := storage.NewSQLStorage(db, "currency_store_test", gen)

		sqlMock.ExpectBegin()
		sqlMock.ExpectPrepare(insertQuery("currency_store_test"))
		sqlMock.ExpectRollback()

		saved, err := st.Store(context.Background(), randomRates(1))

		asserts.Nil(saved)
		asserts.ErrorIs(err, storage.ErrNotEnoughBytesInGenerator)
		asserts.NoError(sqlMock.ExpectationsWereMet())
		_ = db.Close()
	}

	t.Run("Custom generator", func(t *testing.T) {
		asserts := require.New(t)
		db, sqlMock, err := sqlmock.New()
		asserts.NoError(err)
		defer db.Close()

		id := uuid.New()
		gen := &IDGeneratorMock{}
		gen.On("Generate").Return(id[:])

		st := storage.NewSQLStorage(db, "currency_store_test", gen)

		sqlMock.ExpectBegin()
		sqlMock.ExpectPrepare(insertQuery("currency_store_test")).
			ExpectExec().
			WithArgs(id[:], sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		sqlMock.ExpectCommit()

		saved, err := st.Store(context.Background(), randomRates(1))

		asserts.NoError(err)
		asserts.Equal(id, saved[0].ID)
		gen.AssertNumberOfCalls(t, "Generate", 1)
	})
}

func TestMySQLStorage_MigrateAndDrop(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)
	db, sqlMock, err := sqlmock.New()
	asserts.NoError(err)

	st := storage.NewSQLStorage(db, "currency_migrate_test", nil)

	sqlMock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS currency_migrate_test(")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	sqlMock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS currency_migrate_test;")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	sqlMock.ExpectClose()

	asserts.NoError(st.Migrate(context.Background()))
	asserts.NoError(st.Drop(context.Background()))
	asserts.NoError(st.Close())
	asserts.Equal("mysql", st.GetStorageProviderName())
	asserts.NoError(sqlMock.ExpectationsWereMet())
}

func TestMySQLConfig_DSN(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	dsn := storage.MySQLConfig{
		User:     "currency",
		Password: "currency",
		Addr:     "localhost:3306",
		Database: "currencydb",
	}.DSN()

	asserts.Contains(dsn, "currency:currency@tcp(localhost:3306)/currencydb")
	asserts.Contains(dsn, "parseTime=true")
}
