package currency

import "context"

type Storage interface {
	Store(ctx context.Context, rates []Rate) ([]RateWithID, error)
	Migrate(ctx context.Context) error
	Drop(ctx context.Context) error
	Close() error
	GetStorageProviderName() string
}
