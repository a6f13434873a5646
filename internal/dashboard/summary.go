package dashboard

import (
	"github.com/lalith-99/collabsphere/internal/models"
	"github.com/samber/lo"
)

// Summary backs the dashboard landing page cards.
type Summary struct {
	Projects       int                          `json:"projects"`
	ByStatus       map[models.ProjectStatus]int `json:"byStatus"`
	Tasks          int                          `json:"tasks"`
	CompletedTasks int                          `json:"completedTasks"`
	Channels       int                          `json:"channels"`
	Unread         int                          `json:"unread"`
	// Team is only filled in for managers.
	Team *int `json:"team,omitempty"`
}

func (w *Workspace) Summary() (Summary, error) {
	u, err := w.actor()
	if err != nil {
		return Summary{}, err
	}

	projects := w.projects.List()
	s := Summary{
		Projects: len(projects),
		ByStatus: lo.CountValuesBy(projects, func(p models.Project) models.ProjectStatus { return p.Status }),
		Tasks:    lo.SumBy(projects, func(p models.Project) int { return len(p.Tasks) }),
		CompletedTasks: lo.SumBy(projects, func(p models.Project) int {
			return p.CompletedTasks()
		}),
	}
	if w.chat != nil {
		channels := w.chat.Channels()
		s.Channels = len(channels)
		s.Unread = lo.SumBy(channels, func(c models.Channel) int { return c.Unread })
	}
	if u.IsManager() {
		n := len(w.team.List())
		s.Team = &n
	}
	return s, nil
}
