package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-pricing/pkg/logger"
)

// DealActivationJobParams configure the deal activation sweep.
type DealActivationJobParams struct {
	Logger     *logger.Logger
	Repository dealActivator
}

type dealActivator interface {
	SyncActivation(ctx context.Context, now time.Time) (activated, deactivated int64, err error)
}

// NewDealActivationJob builds the job that flips deal is_active flags to match
// their [start, end] windows.
func NewDealActivationJob(params DealActivationJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("deal repository required")
	}
	return &dealActivationJob{
		logg: params.Logger,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type dealActivationJob struct {
	logg *logger.Logger
	repo dealActivator
	now  func() time.Time
}

func (j *dealActivationJob) Name() string { return "deal-activation" }

func (j *dealActivationJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	activated, deactivated, err := j.repo.SyncActivation(ctx, now)
	if err != nil {
		return fmt.Errorf("deal activation: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"as_of":       now,
		"activated":   activated,
		"deactivated": deactivated,
	})
	j.logg.Info(logCtx, "deal activation sweep complete")
	return nil
}
