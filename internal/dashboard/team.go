package dashboard

import (
	"strings"

	"github.com/lalith-99/collabsphere/internal/models"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Team lists roster entries matching query on name, role or department.
// Managers only.
func (w *Workspace) Team(query string) ([]models.TeamMember, error) {
	if _, err := w.manager(); err != nil {
		return nil, err
	}
	all := w.team.List()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}
	return lo.Filter(all, func(m models.TeamMember, _ int) bool {
		return strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.Role), q) ||
			strings.Contains(strings.ToLower(m.Department), q)
	}), nil
}

// AddMember adds an Active member who joined today and is on no projects.
func (w *Workspace) AddMember(form MemberForm) (*models.TeamMember, error) {
	if _, err := w.manager(); err != nil {
		return nil, err
	}
	if err := check(form); err != nil {
		return nil, err
	}

	m := w.team.Add(models.TeamMember{
		Name:       form.Name,
		Email:      form.Email,
		Role:       form.Role,
		Department: form.Department,
		Phone:      form.Phone,
		Status:     models.MemberActive,
		JoinDate:   w.now().Format(dateLayout),
		Projects:   []string{},
	})

	w.logger.Info("team member added", zap.String("member_id", m.ID), zap.String("department", m.Department))
	return &m, nil
}

func (w *Workspace) Reviews() ([]models.Review, error) {
	if _, err := w.manager(); err != nil {
		return nil, err
	}
	return w.reviews.List(), nil
}

// SubmitReview records a completed review signed by the acting manager. The
// reviewed employee's role is taken from the roster when they are on it.
func (w *Workspace) SubmitReview(form ReviewForm) (*models.Review, error) {
	u, err := w.manager()
	if err != nil {
		return nil, err
	}
	if err := check(form); err != nil {
		return nil, err
	}

	rating := defaultRating
	if form.OverallRating != nil {
		rating = *form.OverallRating
	}
	var role string
	if m, ok := lo.Find(w.team.List(), func(m models.TeamMember) bool { return m.Name == form.Employee }); ok {
		role = m.Role
	}

	r := w.reviews.Add(models.Review{
		Employee: form.Employee,
		Role:     role,
		Project:  form.Project,
		Status:   "Completed",
		Metrics: models.ReviewMetrics{
			TaskCompletion:     intOr(form.TaskCompletion, defaultMetric),
			TimeEfficiency:     intOr(form.TimeEfficiency, defaultMetric),
			CommunicationScore: intOr(form.CommunicationScore, defaultMetric),
			QualityOfWork:      intOr(form.QualityOfWork, defaultMetric),
			TeamCollaboration:  intOr(form.TeamCollaboration, defaultMetric),
			OverallRating:      rating,
		},
		Strengths:           form.Strengths,
		AreasForImprovement: form.AreasForImprovement,
		AdditionalComments:  form.AdditionalComments,
		SubmittedBy:         u.Name,
		SubmittedDate:       w.now().Format(dateLayout),
	})

	w.logger.Info("review submitted",
		zap.String("review_id", r.ID),
		zap.String("employee", r.Employee),
		zap.Float64("rating", rating),
	)
	return &r, nil
}
