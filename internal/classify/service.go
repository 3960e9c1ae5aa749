// Package classify binds free-text invoice purposes to cost categories.
// Learned mappings take precedence; a built-in keyword heuristic seeded
// from the category registry covers purposes never seen before.
package classify

import (
	"context"
	"strings"

	"github.com/jmeindl/umlage/internal/category"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=classify
type Repository interface {
	FindMapping(ctx context.Context, purpose string) (category.Type, error)
	CreateMapping(ctx context.Context, pattern string, costType category.Type) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Classify suggests a cost category for the given purpose text. The
// second return is false when neither a learned mapping nor a keyword
// matches; absence is a normal outcome the caller handles, not an error.
func (s *Service) Classify(ctx context.Context, purpose string) (category.Type, bool, error) {
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return "", false, nil
	}

	learned, err := s.repo.FindMapping(ctx, purpose)
	if err != nil {
		return "", false, err
	}

	if learned != "" {
		if _, ok := category.Get(learned); ok {
			return learned, true, nil
		}
	}

	if t, ok := matchKeywords(purpose); ok {
		return t, true, nil
	}

	return "", false, nil
}

// Learn remembers an accepted classification so the same purpose text
// resolves without the heuristic next time.
func (s *Service) Learn(ctx context.Context, purpose string, costType category.Type) error {
	return s.repo.CreateMapping(ctx, strings.TrimSpace(purpose), costType)
}
