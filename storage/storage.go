package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	currency "github.com/malusev998/currency-converter"
)

type (
	Provider   string
	BaseConfig struct {
		Migrate bool
	}
	MySQLConfig struct {
		BaseConfig
		User        string
		Password    string
		Addr        string
		Database    string
		TableName   string
		IDGenerator IDGenerator
	}
	MongoDBConfig struct {
		BaseConfig
		ConnectionString string
		Database         string
		Collection       string
	}
)

const (
	MySQL   Provider = "mysql"
	MongoDB Provider = "mongodb"

	DefaultTableName = "currency_rates"
)

var (
	ErrStorageNotFound = errors.New("storage is not found")
)

// DSN builds the go-sql-driver connection string. Time values are parsed
// so created_at scans into time.Time.
func (c MySQLConfig) DSN() string {
	config := mysql.NewConfig()
	config.User = c.User
	config.Passwd = c.Password
	config.Net = "tcp"
	config.Addr = c.Addr
	config.DBName = c.Database
	config.ParseTime = true

	return config.FormatDSN()
}

func ConvertToProvidersFromStringSlice(strings []string) ([]Provider, error) {
	providers := make([]Provider, 0, len(strings))

	for _, str := range strings {
		provider, err := ConvertToProviderFromString(str)
		if err != nil {
			return nil, err
		}

		providers = append(providers, provider)
	}

	return providers, nil
}

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "mysql":
		return MySQL, nil
	case "mongodb", "mongo":
		return MongoDB, nil
	}

	return "", fmt.Errorf("value %s is not valid Provider", str)
}

func NewStorage(provider Provider, config interface{}) (currency.Storage, error) {
	switch provider {
	case MySQL:
		c, ok := config.(MySQLConfig)
		if !ok {
			return nil, fmt.Errorf("storage %s expects MySQLConfig, got %T", provider, config)
		}

		return NewMySQLStorage(c)
	case MongoDB:
		c, ok := config.(MongoDBConfig)
		if !ok {
			return nil, fmt.Errorf("storage %s expects MongoDBConfig, got %T", provider, config)
		}

		return NewMongoStorage(c)
	}

	return nil, ErrStorageNotFound
}
