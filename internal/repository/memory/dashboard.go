package memory

import (
	"fmt"
	"sync"

	"github.com/lalith-99/collabsphere/internal/apperr"
	"github.com/lalith-99/collabsphere/internal/models"
)

// ProjectStore is a slice-backed project list. Readers get copies, so handlers
// can never mutate the store by accident.
type ProjectStore struct {
	mu       sync.RWMutex
	projects []models.Project
}

func NewProjectStore(seed []models.Project) *ProjectStore {
	return &ProjectStore{projects: seed}
}

func (s *ProjectStore) List() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, copyProject(p))
	}
	return out
}

func (s *ProjectStore) Get(id string) *models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.ID == id {
			c := copyProject(p)
			return &c
		}
	}
	return nil
}

func (s *ProjectStore) Create(p models.Project) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.projects {
		if existing.ID == p.ID {
			return models.Project{}, fmt.Errorf("project %q: %w", p.ID, apperr.ErrDuplicate)
		}
	}
	s.projects = append(s.projects, copyProject(p))
	return p, nil
}

func (s *ProjectStore) AddTask(projectID string, t models.Task) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID != projectID {
			continue
		}
		if t.ID == "" {
			t.ID = fmt.Sprint(len(s.projects[i].Tasks) + 1)
		}
		s.projects[i].Tasks = append(s.projects[i].Tasks, t)
		return &t, nil
	}
	return nil, fmt.Errorf("project %q: %w", projectID, apperr.ErrNotFound)
}

func copyProject(p models.Project) models.Project {
	p.Members = append(make([]models.ProjectMember, 0, len(p.Members)), p.Members...)
	p.Tasks = append(make([]models.Task, 0, len(p.Tasks)), p.Tasks...)
	return p
}

type TeamStore struct {
	mu      sync.RWMutex
	members []models.TeamMember
}

func NewTeamStore(seed []models.TeamMember) *TeamStore {
	return &TeamStore{members: seed}
}

func (s *TeamStore) List() []models.TeamMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]models.TeamMember, 0, len(s.members)), s.members...)
}

// Add assigns the next sequential id, like the roster page does.
func (s *TeamStore) Add(m models.TeamMember) models.TeamMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = fmt.Sprint(len(s.members) + 1)
	if m.Projects == nil {
		m.Projects = []string{}
	}
	s.members = append(s.members, m)
	return m
}

type ReviewStore struct {
	mu      sync.RWMutex
	reviews []models.Review
}

func NewReviewStore(seed []models.Review) *ReviewStore {
	return &ReviewStore{reviews: seed}
}

func (s *ReviewStore) List() []models.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]models.Review, 0, len(s.reviews)), s.reviews...)
}

func (s *ReviewStore) Add(r models.Review) models.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = fmt.Sprint(len(s.reviews) + 1)
	s.reviews = append(s.reviews, r)
	return r
}
