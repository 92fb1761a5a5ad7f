package archive

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	currency "github.com/malusev998/currency-converter"
)

var ErrNoStorageProvided = errors.New("no storage provided")

// Service writes fetched rate tables to every configured storage.
type Service struct {
	Storage []currency.Storage
	Logger  *zap.Logger
}

func saveToStorage(
	ctx context.Context,
	wg *sync.WaitGroup,
	rates []currency.Rate,
	data map[string][]currency.RateWithID,
	storage currency.Storage,
	errorChannel chan<- error,
	mutex sync.Locker,
) {
	defer wg.Done()
	saved, err := storage.Store(ctx, rates)

	if err != nil {
		errorChannel <- err
		return
	}

	mutex.Lock()
	data[storage.GetStorageProviderName()] = saved
	mutex.Unlock()
}

// Save stores the flattened table in all storages concurrently. The first
// storage error is returned.
func (s Service) Save(ctx context.Context, table currency.RateTable) (map[string][]currency.RateWithID, error) {
	if len(s.Storage) == 0 {
		return nil, ErrNoStorageProvided
	}

	var wg sync.WaitGroup
	mutex := &sync.Mutex{}
	logger := s.Logger

	if logger == nil {
		logger = zap.NewNop()
	}

	rates := table.Flatten()
	errorChannel := make(chan error, len(s.Storage))
	data := make(map[string][]currency.RateWithID, len(s.Storage))

	wg.Add(len(s.Storage))
	for _, storage := range s.Storage {
		go saveToStorage(ctx, &wg, rates, data, storage, errorChannel, mutex)
	}

	go func(wg *sync.WaitGroup, errorChannel chan error) {
		wg.Wait()
		close(errorChannel)
	}(&wg, errorChannel)

	if err, more := <-errorChannel; more {
		logger.Error("Failed to archive rates", zap.String("base", table.Base.String()), zap.Error(err))
		return nil, err
	}

	logger.Debug("Archived rates", zap.String("base", table.Base.String()), zap.Int("rates", len(rates)), zap.Int("storages", len(data)))

	return data, nil
}

// Close closes every storage and returns the first error. Every failure is
// logged.
func (s Service) Close() error {
	var first error

	for _, storage := range s.Storage {
		if err := storage.Close(); err != nil {
			if s.Logger != nil {
				s.Logger.Error("Failed to close storage", zap.String("storage", storage.GetStorageProviderName()), zap.Error(err))
			}

			if first == nil {
				first = err
			}
		}
	}

	return first
}
