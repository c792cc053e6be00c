package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
)

type GuideStatistics struct {
	repo  domain.Repository
	rules Rules
}

func NewGuideStatistics(repo domain.Repository, rules Rules) *GuideStatistics {
	return &GuideStatistics{repo: repo, rules: rules}
}

func (uc *GuideStatistics) Execute(ctx context.Context, actor domain.Actor) (*domain.Statistics, error) {
	guideID, err := guideFor(ctx, uc.repo, actor)
	if err != nil {
		return nil, err
	}

	now := uc.rules.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	return uc.repo.GuideStatistics(ctx, guideID, uc.rules.today(), monthStart)
}

type ListGuideCustomers struct {
	repo domain.Repository
}

func NewListGuideCustomers(repo domain.Repository) *ListGuideCustomers {
	return &ListGuideCustomers{repo: repo}
}

func (uc *ListGuideCustomers) Execute(
	ctx context.Context,
	actor domain.Actor,
	search string,
	p domain.Page,
) ([]domain.Customer, int64, error) {

	guideID, err := guideFor(ctx, uc.repo, actor)
	if err != nil {
		return nil, 0, err
	}
	return uc.repo.ListGuideCustomers(ctx, guideID, search, p)
}
