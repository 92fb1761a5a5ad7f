package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	currency "github.com/malusev998/currency-converter"
)

const MySQLTimeFormat = "2006-01-02 15:04:05"

var ErrNotEnoughBytesInGenerator = errors.New("id generator must produce 16 bytes")

type (
	IDGenerator interface {
		Generate() []byte
	}

	uuidGenerator struct{}

	mysqlStorage struct {
		db          *sql.DB
		tableName   string
		idGenerator IDGenerator
	}
)

func (uuidGenerator) Generate() []byte {
	id := uuid.New()
	return id[:]
}

func NewMySQLStorage(c MySQLConfig) (currency.Storage, error) {
	db, err := sql.Open("mysql", c.DSN())
	if err != nil {
		return nil, err
	}

	st := NewSQLStorage(db, c.TableName, c.IDGenerator)

	if c.Migrate {
		if err := st.Migrate(context.Background()); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return st, nil
}

// NewSQLStorage wraps an open connection. A nil generator produces UUIDs.
func NewSQLStorage(db *sql.DB, tableName string, idGenerator IDGenerator) currency.Storage {
	if tableName == "" {
		tableName = DefaultTableName
	}

	if idGenerator == nil {
		idGenerator = uuidGenerator{}
	}

	return mysqlStorage{
		db:          db,
		tableName:   tableName,
		idGenerator: idGenerator,
	}
}

func (m mysqlStorage) nextID() (uuid.UUID, error) {
	bytes := m.idGenerator.Generate()

	if len(bytes) < 16 {
		return uuid.Nil, ErrNotEnoughBytesInGenerator
	}

	return uuid.FromBytes(bytes[:16])
}

// Store inserts the batch in a single transaction.
func (m mysqlStorage) Store(ctx context.Context, rates []currency.Rate) ([]currency.RateWithID, error) {
	saved := make([]currency.RateWithID, 0, len(rates))

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s(id, currency, provider, rate, created_at) VALUES(?,?,?,?,?);", m.tableName))
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	defer stmt.Close()

	for _, rate := range rates {
		if rate.CreatedAt.IsZero() {
			rate.CreatedAt = time.Now().UTC()
		}

		id, err := m.nextID()
		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}

		pair := currency.Pair{From: rate.From, To: rate.To}

		_, err = stmt.ExecContext(ctx, id[:], pair.String(), string(rate.Provider), rate.Rate, rate.CreatedAt.Format(MySQLTimeFormat))
		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}

		saved = append(saved, currency.RateWithID{Rate: rate, ID: id})
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return saved, nil
}

func (m mysqlStorage) Migrate(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s(
	id BINARY(16) PRIMARY KEY,
	currency CHAR(7) NOT NULL,
	provider VARCHAR(50) NOT NULL,
	rate DOUBLE NOT NULL,
	created_at DATETIME NOT NULL,
	INDEX currency_created_at (currency, created_at)
);`, m.tableName))

	return err
}

func (m mysqlStorage) Drop(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", m.tableName))

	return err
}

func (m mysqlStorage) Close() error {
	return m.db.Close()
}

func (m mysqlStorage) GetStorageProviderName() string {
	return string(MySQL)
}
