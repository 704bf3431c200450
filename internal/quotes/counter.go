package quotes

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	pkgerrors "github.com/dhruvpatel3d/printquote-backend/pkg/errors"
)

// CounterName is the sequence row backing quotation numbers.
const CounterName = "quotation_number"

const allocateRetries = 5

// Counter issues quotation numbers. The stored value is the last issued
// number; peeking formats the next value without consuming it.
type Counter interface {
	PeekNext(ctx context.Context) (string, error)
	AllocateNext(ctx context.Context) (string, error)
}

type counterImpl struct {
	repo   Repository
	seed   int64
	prefix string
}

// NewCounter wires a counter over the quotations repository. The seed is
// installed on first use if the row does not exist yet.
func NewCounter(repo Repository, seed int64, prefix string) (Counter, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "quotations repository required")
	}
	if seed < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "counter seed cannot be negative")
	}
	if prefix == "" {
		prefix = "QT"
	}
	return &counterImpl{repo: repo, seed: seed, prefix: prefix}, nil
}

func (c *counterImpl) format(value int64) string {
	return fmt.Sprintf("%s%d", c.prefix, value)
}

func (c *counterImpl) current(ctx context.Context) (int64, error) {
	counter, err := c.repo.GetCounter(ctx, CounterName)
	if err == nil {
		return counter.Value, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quotation counter")
	}

	if err := c.repo.SeedCounter(ctx, CounterName, c.seed); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed quotation counter")
	}
	counter, err = c.repo.GetCounter(ctx, CounterName)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload quotation counter")
	}
	return counter.Value, nil
}

func (c *counterImpl) PeekNext(ctx context.Context) (string, error) {
	value, err := c.current(ctx)
	if err != nil {
		return "", err
	}
	return c.format(value + 1), nil
}

// AllocateNext advances the counter with a compare-and-set loop so
// concurrent generations never share a number.
func (c *counterImpl) AllocateNext(ctx context.Context) (string, error) {
	for attempt := 0; attempt < allocateRetries; attempt++ {
		value, err := c.current(ctx)
		if err != nil {
			return "", err
		}
		won, err := c.repo.CompareAndSetCounter(ctx, CounterName, value, value+1)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance quotation counter")
		}
		if won {
			return c.format(value + 1), nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "quotation counter contention, retry")
}
