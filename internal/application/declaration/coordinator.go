package declaration

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/customs/backend/internal/domain/declaration"
	"github.com/customs/backend/internal/domain/shared"
)

// Retry policy for reference acquisition
const (
	maxAssessmentAttempts = 3
	retryBaseDelay        = 50 * time.Millisecond
	retryJitterRange      = 100 * time.Millisecond
)

// AssessmentCoordinator acquires a unique reference pair and hands it to a
// persist function, retrying the whole sequence on uniqueness races.
//
// Each attempt draws a fresh counter value, so a retried attempt never reuses
// a consumed number: values burned by failed attempts leave gaps in the
// sequence, which is acceptable; duplicates are not. Only uniqueness
// violations are retried; any other error aborts immediately.
type AssessmentCoordinator struct {
	sequences    declaration.SequenceRepository
	declarations declaration.Repository
	now          func() time.Time
	baseDelay    time.Duration
	jitterRange  time.Duration
}

// NewAssessmentCoordinator creates a new AssessmentCoordinator
func NewAssessmentCoordinator(sequences declaration.SequenceRepository, declarations declaration.Repository) *AssessmentCoordinator {
	return &AssessmentCoordinator{
		sequences:    sequences,
		declarations: declarations,
		now:          time.Now,
		baseDelay:    retryBaseDelay,
		jitterRange:  retryJitterRange,
	}
}

// Execute generates a reference pair, pre-checks it for uniqueness, and calls
// persist with it. The persist function must write the pair and the status
// transition atomically and return shared.ErrReferenceConflict when the
// storage layer reports a duplicate key.
//
// On a conflict from either the pre-check or persist, the whole sequence is
// retried with a jittered delay, up to 3 attempts. Exhausting the attempts
// fails with an ASSESSMENT_FAILED error carrying the last underlying cause.
func (c *AssessmentCoordinator) Execute(ctx context.Context, persist func(pair declaration.ReferencePair) error) (declaration.ReferencePair, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAssessmentAttempts; attempt++ {
		if attempt > 1 {
			if err := c.wait(ctx); err != nil {
				return declaration.ReferencePair{}, err
			}
		}

		pair, err := c.acquire(ctx)
		if err != nil {
			if errors.Is(err, shared.ErrReferenceConflict) {
				lastErr = err
				continue
			}
			return declaration.ReferencePair{}, err
		}

		if err := persist(pair); err != nil {
			if errors.Is(err, shared.ErrReferenceConflict) {
				lastErr = err
				continue
			}
			return declaration.ReferencePair{}, err
		}

		return pair, nil
	}

	return declaration.ReferencePair{}, shared.WrapDomainError("ASSESSMENT_FAILED",
		fmt.Sprintf("Failed to assess declaration after %d attempts", maxAssessmentAttempts), lastErr)
}

// SequenceStatus reports the calendar year and the counter value most recently
// handed out for it, without consuming a number. Gaps between this value and
// the number of assessed declarations are expected; failed attempts burn values.
func (c *AssessmentCoordinator) SequenceStatus(ctx context.Context) (int, int64, error) {
	year := c.now().Year()
	value, err := c.sequences.Current(ctx, declaration.SequenceKey(year))
	if err != nil {
		return 0, 0, shared.WrapDomainError("PERSISTENCE_ERROR", "Failed to read reference counter", err)
	}
	return year, value, nil
}

// acquire draws the next counter value for the current year, formats the
// reference pair, and pre-checks it against existing declarations. The
// pre-check narrows the race window; the storage layer's unique indexes
// remain the actual guarantee.
func (c *AssessmentCoordinator) acquire(ctx context.Context) (declaration.ReferencePair, error) {
	year := c.now().Year()

	value, err := c.sequences.Increment(ctx, declaration.SequenceKey(year))
	if err != nil {
		return declaration.ReferencePair{}, shared.WrapDomainError("PERSISTENCE_ERROR", "Failed to generate customs reference", err)
	}

	pair, err := declaration.NewReferencePair(value, year)
	if err != nil {
		return declaration.ReferencePair{}, err
	}

	exists, err := c.declarations.ExistsWithReference(ctx, pair.CustomsReferenceNumber, pair.AssessmentSerial)
	if err != nil {
		return declaration.ReferencePair{}, shared.WrapDomainError("PERSISTENCE_ERROR", "Failed to verify reference uniqueness", err)
	}
	if exists {
		return declaration.ReferencePair{}, shared.ErrReferenceConflict
	}

	return pair, nil
}

// wait sleeps for the jittered retry delay, desynchronizing competing callers
func (c *AssessmentCoordinator) wait(ctx context.Context) error {
	delay := c.baseDelay
	if c.jitterRange > 0 {
		delay += time.Duration(rand.Int63n(int64(c.jitterRange)))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return shared.WrapDomainError("PERSISTENCE_ERROR", "Assessment aborted", ctx.Err())
	case <-timer.C:
		return nil
	}
}
