package ml

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"concretepredictor/mix"
)

// CachedPredictor memoises results per request. The model never changes after
// loading and predictions are deterministic, so a hit is always current.
// Failures are not cached.
type CachedPredictor struct {
	model Regressor
	cache *lru.Cache[mix.Request, Result]
}

// NewCachedPredictor wraps model. A size of zero or less disables caching.
func NewCachedPredictor(model Regressor, size int) (*CachedPredictor, error) {
	p := &CachedPredictor{model: model}
	if size <= 0 {
		return p, nil
	}
	cache, err := lru.New[mix.Request, Result](size)
	if err != nil {
		return nil, err
	}
	p.cache = cache
	return p, nil
}

func (p *CachedPredictor) Predict(ctx context.Context, req mix.Request) (Result, error) {
	if p.cache != nil {
		if result, ok := p.cache.Get(req); ok {
			return result, nil
		}
	}
	result, err := Predict(ctx, p.model, req)
	if err != nil {
		return Result{}, err
	}
	if p.cache != nil {
		p.cache.Add(req, result)
	}
	return result, nil
}

// Len reports the number of cached results.
func (p *CachedPredictor) Len() int {
	if p.cache == nil {
		return 0
	}
	return p.cache.Len()
}
