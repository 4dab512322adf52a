// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// maxRetryDelay caps the wait between two attempts at one batch.
const maxRetryDelay = 30 * time.Second

// retryPolicy re-sends failed embedding batches with exponential backoff.
type retryPolicy struct {
	attempts  int
	baseDelay time.Duration
}

// delay returns the wait after the given failed attempt: baseDelay doubled
// for each earlier failure, capped at maxRetryDelay.
func (p retryPolicy) delay(attempt int) time.Duration {
	d := p.baseDelay
	for i := 1; i < attempt && d < maxRetryDelay; i++ {
		d *= 2
	}
	return min(d, maxRetryDelay)
}

// permanent reports errors that another attempt cannot fix.
func permanent(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ErrEmbeddingMismatch)
}

// embed runs send for the batch of size passages starting at pending index
// first, until it succeeds, fails permanently, ctx ends or the attempts run
// out. The last error is returned.
func (p retryPolicy) embed(ctx context.Context, logger *slog.Logger, first, size int, send func() error) error {
	if p.attempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var err error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err = send(); err == nil {
			if attempt > 1 {
				logger.Info("embedding batch recovered", "first", first, "size", size, "attempt", attempt)
			}
			return nil
		}
		if permanent(err) || attempt == p.attempts {
			break
		}

		wait := p.delay(attempt)
		logger.Warn("embedding batch failed, retrying",
			"first", first,
			"size", size,
			"attempt", attempt,
			"of", p.attempts,
			"wait", wait,
			"err", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
