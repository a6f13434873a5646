//go:generate go run go.uber.org/mock/mockgen -source=interfaces.go -destination=../mocks/mock_repository.go -package=mocks
package repository

import (
	"context"

	"github.com/lalith-99/collabsphere/internal/models"
)

// IdentitySlot is the one durable thing in the system: a single key holding the
// logged-in identity as JSON. Every backend (memory, badger, redis, postgres)
// stores the record under the key it is given and nothing else.
//
// Methods take context.Context because three of the four backends do I/O.
type IdentitySlot interface {
	// Load returns nil, nil when the key holds nothing.
	Load(ctx context.Context, key string) (*models.Identity, error)

	// Save overwrites whatever the key held.
	Save(ctx context.Context, key string, identity *models.Identity) error

	// Clear removes the key. No-op when it is already empty.
	Clear(ctx context.Context, key string) error
}

// The dashboard repositories below hold seeded mock data in memory only; they
// never do I/O, so they take no context.

// ProjectRepository holds projects and their task boards.
type ProjectRepository interface {
	// List returns all projects in seed/creation order. Never nil.
	List() []models.Project

	// Get returns nil when the id is unknown.
	Get(id string) *models.Project

	// Create returns apperr.ErrDuplicate when the id is already taken.
	Create(p models.Project) (models.Project, error)

	// AddTask appends to the project's board. Returns apperr.ErrNotFound for an
	// unknown project.
	AddTask(projectID string, t models.Task) (*models.Task, error)
}

// TeamRepository holds the team roster.
type TeamRepository interface {
	List() []models.TeamMember
	Add(m models.TeamMember) models.TeamMember
}

// ReviewRepository holds performance reviews.
type ReviewRepository interface {
	List() []models.Review
	Add(r models.Review) models.Review
}
