// Package ledger is the sole gateway for currency mutation. Spend paths call
// Debit synchronously so overdrafts block the whole operation; reward paths
// queue deltas through the worker pool and tolerate transient store failures
// without ever reversing a committed debit.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/pulseroom/pulseroom/internal/domain"
	"github.com/pulseroom/pulseroom/internal/logger"
	"github.com/pulseroom/pulseroom/internal/metrics"
	"github.com/pulseroom/pulseroom/internal/repository"
	"github.com/pulseroom/pulseroom/internal/worker"
)

// Config controls the retry behavior of asynchronous writes.
type Config struct {
	MaxWriteAttempts int
	RetryBaseDelay   time.Duration
}

// DefaultConfig returns the production retry settings.
func DefaultConfig() Config {
	return Config{
		MaxWriteAttempts: DefaultMaxWriteAttempts,
		RetryBaseDelay:   DefaultRetryBaseDelay,
	}
}

// Service mediates all wallet access.
type Service struct {
	repo   repository.Wallet
	pool   *worker.Pool
	config Config
}

// NewService creates a new ledger service
func NewService(repo repository.Wallet, pool *worker.Pool, config Config) *Service {
	if config.MaxWriteAttempts <= 0 {
		config.MaxWriteAttempts = DefaultMaxWriteAttempts
	}
	if config.RetryBaseDelay <= 0 {
		config.RetryBaseDelay = DefaultRetryBaseDelay
	}
	return &Service{repo: repo, pool: pool, config: config}
}

// Balance returns the user's wallet snapshot.
func (s *Service) Balance(ctx context.Context, userID string) (*domain.Wallet, error) {
	return s.repo.GetWallet(ctx, userID)
}

// Debit removes amount coins synchronously. It returns
// domain.ErrInsufficientFunds, and applies nothing, when the balance cannot
// cover it.
func (s *Service) Debit(ctx context.Context, userID string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative debit", domain.ErrInvalidQuantity)
	}
	return s.repo.ApplyDelta(ctx, userID, domain.FieldCoins, -amount)
}

// Credit applies a positive delta to one counter synchronously. Used where
// the caller needs the write confirmed before proceeding, such as the wealth
// increment that accompanies a gift debit.
func (s *Service) Credit(ctx context.Context, userID string, field domain.BalanceField, amount int64) error {
	return s.repo.ApplyDelta(ctx, userID, field, amount)
}

// CreditAsync queues a delta for background application. The write retries a
// bounded number of times; exhaustion is recorded and logged as a warning,
// never bubbled to the request that queued it.
func (s *Service) CreditAsync(userID string, field domain.BalanceField, amount int64, step string) {
	s.pool.Enqueue(&writeJob{
		repo:   s.repo,
		config: s.config,
		userID: userID,
		field:  field,
		delta:  amount,
		step:   step,
	})
}

// writeJob is one queued wallet delta.
type writeJob struct {
	repo   repository.Wallet
	config Config
	userID string
	field  domain.BalanceField
	delta  int64
	step   string
}

// Process applies the delta with linear-backoff retries. It always returns
// nil: a write that outlives every attempt is reported here as a warning and
// a metric, not as a job failure.
func (j *writeJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	var err error
	for attempt := 1; attempt <= j.config.MaxWriteAttempts; attempt++ {
		err = j.repo.ApplyDelta(ctx, j.userID, j.field, j.delta)
		if err == nil {
			return nil
		}
		if attempt < j.config.MaxWriteAttempts {
			metrics.LedgerWriteRetries.WithLabelValues(string(j.field)).Inc()
			log.Warn(LogMsgAsyncWriteRetrying,
				"step", j.step,
				"field", j.field,
				"attempt", attempt,
				"error", err)
			time.Sleep(j.config.RetryBaseDelay * time.Duration(attempt))
		}
	}

	metrics.LedgerWriteFailures.WithLabelValues(string(j.field)).Inc()
	twe := &domain.TransientWriteError{Step: j.step, Err: err}
	log.Warn(LogMsgAsyncWriteAbandoned,
		"step", j.step,
		"field", j.field,
		"user_id", j.userID,
		"delta", j.delta,
		"error", twe)
	return nil
}
