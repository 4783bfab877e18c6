// Package tracker is the boundary between the service and the external issue
// tracker. A Session is dialled once per run and must not outlive it.
package tracker

import (
	"context"

	"github.com/YusovID/okr-service/internal/domain"
)

type Dialer interface {
	// Dial opens an authenticated session and verifies connectivity.
	// Failures are returned as *apperrors.ConnectionError.
	Dial(ctx context.Context) (Session, error)
}

type Session interface {
	// SearchByKeys returns the tracker records for keys in project. Keys the
	// tracker does not know are absent from the result.
	SearchByKeys(ctx context.Context, project string, keys []string) ([]domain.ExternalIssue, error)

	// SearchProject returns the issues of a whole project.
	SearchProject(ctx context.Context, project string) ([]domain.ExternalIssue, error)
}
