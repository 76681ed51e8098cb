// Package directory aggregates people lookups across several identity
// sources (the local user table, remote organizational endpoints). A failing
// source is skipped, not fatal to the overall search.
package directory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"taskboard/internal/apperr"
)

type Person struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Department  string `json:"department"`
	Title       string `json:"title"`
}

type Source interface {
	Name() string
	Search(ctx context.Context, query string) ([]Person, error)
}

type Provider struct {
	sources []Source
	logger  *zap.SugaredLogger
}

func NewProvider(logger *zap.Logger, sources ...Source) *Provider {
	return &Provider{
		sources: sources,
		logger:  logger.Sugar(),
	}
}

// Search queries every configured source in order and merges the results,
// de-duplicated by email (first source wins). When some sources fail the
// merged subset is still returned together with a PartialFailure; when every
// source fails the error is ExternalUnavailable.
func (p *Provider) Search(ctx context.Context, query string) ([]Person, error) {
	var (
		people   []Person
		failures []string
		seen     = make(map[string]bool)
	)

	for _, src := range p.sources {
		results, err := src.Search(ctx, query)
		if err != nil {
			p.logger.Warnw("Directory source failed, skipping",
				"source", src.Name(),
				"query", query,
				"error", err,
			)
			failures = append(failures, fmt.Sprintf("%s: %v", src.Name(), err))
			continue
		}
		for _, person := range results {
			key := person.Email
			if key == "" {
				key = src.Name() + "/" + person.ID
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			people = append(people, person)
		}
	}

	if len(failures) > 0 {
		if len(failures) == len(p.sources) {
			return nil, apperr.External("all directory sources failed", fmt.Errorf("%v", failures))
		}
		return people, apperr.Partial(
			fmt.Sprintf("%d of %d directory sources failed", len(failures), len(p.sources)),
			failures,
		)
	}
	return people, nil
}
