package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/telemetry"
)

type (
	// Archiver receives every freshly fetched rate table.
	Archiver interface {
		Save(ctx context.Context, table currency.RateTable) (map[string][]currency.RateWithID, error)
	}

	// Engine owns one conversion session: the selected pair, the history
	// and the latest result. It is safe for concurrent use; conversions run
	// one at a time.
	Engine struct {
		fetcher   currency.RateFetcher
		archiver  Archiver
		logger    *zap.Logger
		cache     *rateCache
		group     singleflight.Group
		convertMu *semaphore.Weighted
		archiveWg sync.WaitGroup
		timeout   time.Duration
		reference currency.Code
		sessionID uuid.UUID

		mu         sync.RWMutex
		pair       currency.Pair
		history    []currency.ConversionRecord
		latest     *currency.Conversion
		generation uint64
	}
)

func New(fetcher currency.RateFetcher, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		fetcher:   fetcher,
		convertMu: semaphore.NewWeighted(1),
		timeout:   DefaultTimeout,
		reference: DefaultReference,
		sessionID: uuid.New(),
		pair:      DefaultPair,
		history:   make([]currency.ConversionRecord, 0),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.logger = logger.Named("engine").With(zap.String("session", e.sessionID.String()))

	return e
}

func (e *Engine) SessionID() string {
	return e.sessionID.String()
}

// ListCurrencies returns the codes known to the provider, sorted. On failure
// the list is empty and the error wraps ErrProviderUnavailable.
func (e *Engine) ListCurrencies(ctx context.Context) ([]currency.Code, error) {
	table, err := e.fetch(ctx, e.reference)
	if err != nil {
		e.logger.Warn("Failed to list currencies", zap.String("reference", e.reference.String()), zap.Error(err))
		return []currency.Code{}, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	return table.Codes(), nil
}

// Convert converts amount from one currency to another and prepends the
// record to the history. Invalid amounts leave the session untouched.
func (e *Engine) Convert(ctx context.Context, amount string, from, to currency.Code) (*currency.Conversion, error) {
	value, err := ParseAmount(amount)
	if err != nil {
		telemetry.ConversionCounter.WithLabelValues(telemetry.StatusInvalid).Inc()
		e.logger.Debug("Declined to convert", zap.String("amount", amount), zap.Error(err))
		return nil, err
	}

	if err := e.convertMu.Acquire(ctx, 1); err != nil {
		telemetry.ConversionCounter.WithLabelValues(telemetry.StatusFailed).Inc()
		return nil, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}
	defer e.convertMu.Release(1)

	e.mu.RLock()
	generation := e.generation
	e.mu.RUnlock()

	log := e.logger.With(zap.String("from", from.String()), zap.String("to", to.String()))

	rate, err := e.rate(ctx, from, to)
	if err != nil {
		telemetry.ConversionCounter.WithLabelValues(telemetry.StatusFailed).Inc()
		log.Error("Conversion failed", zap.Error(err))
		return nil, err
	}

	result := convert(value, rate)

	e.mu.Lock()
	defer e.mu.Unlock()

	conversion := currency.Conversion{
		ConversionRecord: currency.ConversionRecord{
			ID:     len(e.history) + 1,
			From:   from,
			To:     to,
			Amount: value,
			Result: result,
		},
		Rate: rate,
	}

	e.history = append([]currency.ConversionRecord{conversion.ConversionRecord}, e.history...)

	if e.generation == generation {
		latest := conversion
		e.latest = &latest
	} else {
		log.Debug("Pair changed during conversion, result not displayed", zap.Int("id", conversion.ID))
	}

	telemetry.ConversionCounter.WithLabelValues(telemetry.StatusSuccess).Inc()
	log.Info("Converted", zap.Int("id", conversion.ID), zap.String("amount", value.String()), zap.String("result", conversion.Result.StringFixed(2)))

	return &conversion, nil
}

// ConvertSelected converts amount over the currently selected pair.
func (e *Engine) ConvertSelected(ctx context.Context, amount string) (*currency.Conversion, error) {
	pair := e.Pair()

	return e.Convert(ctx, amount, pair.From, pair.To)
}

func (e *Engine) Pair() currency.Pair {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.pair
}

// Select changes the active pair. A different pair clears the latest result.
func (e *Engine) Select(pair currency.Pair) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if pair == e.pair {
		return
	}

	e.pair = pair
	e.invalidate()
}

// Swap exchanges source and target and clears the latest result.
func (e *Engine) Swap() currency.Pair {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pair = e.pair.Swap()
	e.invalidate()

	return e.pair
}

// ClearHistory empties the history. The next record gets id 1.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.history = make([]currency.ConversionRecord, 0)
}

// History returns the records newest first.
func (e *Engine) History() []currency.ConversionRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()

	history := make([]currency.ConversionRecord, len(e.history))
	copy(history, e.history)

	return history
}

func (e *Engine) LatestResult() (currency.Conversion, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.latest == nil {
		return currency.Conversion{}, false
	}

	return *e.latest, true
}

// Close waits for pending archive writes and drops cached tables.
func (e *Engine) Close() {
	e.archiveWg.Wait()
	e.cache.purge()
}

func (e *Engine) invalidate() {
	e.latest = nil
	e.generation++
}

func (e *Engine) rate(ctx context.Context, from, to currency.Code) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	table, err := e.fetch(ctx, from)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}

	rate, ok := table.Rate(to)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s per %s", ErrUnknownTargetRate, to, from)
	}

	return decimal.NewFromFloat(rate), nil
}

func (e *Engine) fetch(ctx context.Context, base currency.Code) (currency.RateTable, error) {
	if table, ok := e.cache.get(base); ok {
		telemetry.RateFetchCounter.WithLabelValues(base.String(), telemetry.StatusCached).Inc()
		return table, nil
	}

	// The shared fetch outlives any single caller; each caller still gives
	// up on its own ctx.
	fetchCtx := context.WithoutCancel(ctx)

	results := e.group.DoChan(base.String(), func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(fetchCtx, e.timeout)
		defer cancel()

		started := time.Now()
		table, err := e.fetcher.FetchRates(ctx, base)
		telemetry.ObserveFetch(base.String(), started, err)

		if err != nil {
			return nil, err
		}

		e.cache.add(base, table)
		e.archive(ctx, table)

		return table, nil
	})

	select {
	case <-ctx.Done():
		return currency.RateTable{}, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return currency.RateTable{}, result.Err
		}

		return result.Val.(currency.RateTable), nil
	}
}

func (e *Engine) archive(ctx context.Context, table currency.RateTable) {
	if e.archiver == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)

	e.archiveWg.Add(1)
	go func() {
		defer e.archiveWg.Done()

		ctx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		saved, err := e.archiver.Save(ctx, table)
		if err != nil {
			e.logger.Error("Failed to archive rate table", zap.String("base", table.Base.String()), zap.Error(err))
			return
		}

		for storage, rates := range saved {
			e.logger.Debug("Archived rate table", zap.String("storage", storage), zap.Int("rates", len(rates)))
		}
	}()
}
