package dashboard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lalith-99/collabsphere/internal/apperr"
	"github.com/lalith-99/collabsphere/internal/models"
	"github.com/stretchr/testify/require"
)

func TestWorkspace_Team(t *testing.T) {
	t.Run("should filter on name, role or department", func(t *testing.T) {
		req := require.New(t)
		ws, _ := newWorkspace(t, managerID)

		all, err := ws.Team("")
		req.NoError(err)
		req.Len(all, 8)

		byDept, err := ws.Team("engineering")
		req.NoError(err)
		req.Len(byDept, 2)

		byRole, err := ws.Team("qa tester")
		req.NoError(err)
		req.Equal("David Wilson", byRole[0].Name)
	})

	t.Run("should be hidden from team members", func(t *testing.T) {
		ws, _ := newWorkspace(t, memberID)

		_, err := ws.Team("")

		require.ErrorIs(t, err, apperr.ErrForbidden)
	})
}

func TestWorkspace_AddMember(t *testing.T) {
	t.Run("should add an active member", func(t *testing.T) {
		req := require.New(t)
		ws, _ := newWorkspace(t, managerID)

		m, err := ws.AddMember(MemberForm{
			Name:       "Priya Patel",
			Email:      "priya@example.com",
			Role:       "Data Engineer",
			Department: "Engineering",
		})

		req.NoError(err)
		req.Equal("9", m.ID)
		req.Equal(models.MemberActive, m.Status)
		req.Equal("2025-04-20", m.JoinDate)
		req.Empty(m.Projects)
	})

	t.Run("should reject an invalid email", func(t *testing.T) {
		ws, _ := newWorkspace(t, managerID)

		_, err := ws.AddMember(MemberForm{Name: "P", Email: "not-an-email", Role: "R", Department: "D"})

		require.ErrorIs(t, err, apperr.ErrInvalidField)
		all, _ := ws.Team("")
		require.Len(t, all, 8)
	})

	t.Run("should require a department", func(t *testing.T) {
		ws, _ := newWorkspace(t, managerID)

		_, err := ws.AddMember(MemberForm{Name: "P", Email: "p@example.com", Role: "R"})

		require.ErrorIs(t, err, apperr.ErrMissingRequiredField)
	})
}

func TestWorkspace_SubmitReview(t *testing.T) {
	t.Run("should fill in default metrics", func(t *testing.T) {
		req := require.New(t)
		ws, _ := newWorkspace(t, managerID)

		r, err := ws.SubmitReview(ReviewForm{Employee: "Michael Brown", Project: "Website Redesign"})

		req.NoError(err)
		req.Equal(models.ReviewMetrics{
			TaskCompletion:     80,
			TimeEfficiency:     80,
			CommunicationScore: 80,
			QualityOfWork:      80,
			TeamCollaboration:  80,
			OverallRating:      4,
		}, r.Metrics)
		req.Equal("Frontend Developer", r.Role)
		req.Equal("alex", r.SubmittedBy)
		req.Equal("Completed", r.Status)

		all, err := ws.Reviews()
		req.NoError(err)
		req.Len(all, 7)
	})

	t.Run("should keep explicit metrics", func(t *testing.T) {
		ws, _ := newWorkspace(t, managerID)
		quality, rating := 95, 4.8

		r, err := ws.SubmitReview(ReviewForm{
			Employee:      "Outside Contractor",
			Project:       "Marketing Campaign",
			QualityOfWork: &quality,
			OverallRating: &rating,
		})

		require.NoError(t, err)
		require.Equal(t, 95, r.Metrics.QualityOfWork)
		require.Equal(t, 4.8, r.Metrics.OverallRating)
		require.Empty(t, r.Role)
	})

	t.Run("should reject out-of-range metrics", func(t *testing.T) {
		ws, _ := newWorkspace(t, managerID)
		over := 120

		_, err := ws.SubmitReview(ReviewForm{Employee: "E", Project: "P", TaskCompletion: &over})

		require.ErrorIs(t, err, apperr.ErrInvalidField)
	})

	t.Run("should require an employee", func(t *testing.T) {
		ws, _ := newWorkspace(t, managerID)

		_, err := ws.SubmitReview(ReviewForm{Project: "P"})

		require.ErrorIs(t, err, apperr.ErrMissingRequiredField)
	})

	t.Run("should be forbidden for team members", func(t *testing.T) {
		ws, _ := newWorkspace(t, memberID)

		_, err := ws.SubmitReview(ReviewForm{Employee: "E", Project: "P"})
		require.ErrorIs(t, err, apperr.ErrForbidden)
		_, err = ws.Reviews()
		require.ErrorIs(t, err, apperr.ErrForbidden)
	})
}

func TestWorkspace_Settings(t *testing.T) {
	t.Run("should update the profile and the identity", func(t *testing.T) {
		req := require.New(t)
		ws, _ := newWorkspace(t, memberID)

		p, err := ws.UpdateProfile(context.Background(), ProfileForm{
			Name:  "Sam Lee",
			Email: "sam.lee@example.com",
			Phone: "+1 (555) 000-0000",
		})

		req.NoError(err)
		req.Equal("Sam Lee", p.Name)
		req.Equal("Sam Lee", ws.identity.Current().Name)
		got, err := ws.Profile()
		req.NoError(err)
		req.Equal(p, got)
	})

	t.Run("should require name and email", func(t *testing.T) {
		ws, _ := newWorkspace(t, memberID)

		_, err := ws.UpdateProfile(context.Background(), ProfileForm{Name: "Sam"})

		require.ErrorIs(t, err, apperr.ErrMissingRequiredField)
		require.Equal(t, "sam", ws.identity.Current().Name)
	})

	t.Run("should surface identity failures", func(t *testing.T) {
		ws, _ := newWorkspace(t, memberID)
		boom := errors.New("slot down")
		ws.identity = &stubIdentity{current: memberID, err: boom}

		_, err := ws.UpdateProfile(context.Background(), ProfileForm{Name: "Sam", Email: "s@example.com"})

		require.ErrorIs(t, err, boom)
	})

	t.Run("should start with every notification on", func(t *testing.T) {
		ws, _ := newWorkspace(t, memberID)

		n, err := ws.Notifications()
		require.NoError(t, err)
		require.True(t, n.Mentions)

		n.Mentions = false
		_, err = ws.UpdateNotifications(n)
		require.NoError(t, err)
		got, _ := ws.Notifications()
		require.False(t, got.Mentions)
		require.True(t, got.DirectMessages)
	})

	t.Run("should reject mismatched passwords", func(t *testing.T) {
		ws, _ := newWorkspace(t, memberID)

		err := ws.ChangePassword(PasswordForm{NewPassword: "hunter22", ConfirmPassword: "hunter23"})

		require.ErrorIs(t, err, apperr.ErrPasswordMismatch)
		require.False(t, ws.passwordMatches("hunter22"))
	})

	t.Run("should keep a hash of the new password", func(t *testing.T) {
		ws, _ := newWorkspace(t, memberID)

		err := ws.ChangePassword(PasswordForm{CurrentPassword: "old", NewPassword: "hunter22", ConfirmPassword: "hunter22"})

		require.NoError(t, err)
		require.True(t, ws.passwordMatches("hunter22"))
		require.False(t, ws.passwordMatches("old"))
	})

	t.Run("should check the current password after the first change", func(t *testing.T) {
		req := require.New(t)
		ws, _ := newWorkspace(t, memberID)
		req.NoError(ws.ChangePassword(PasswordForm{NewPassword: "hunter22", ConfirmPassword: "hunter22"}))

		err := ws.ChangePassword(PasswordForm{CurrentPassword: "wrong", NewPassword: "swordfish", ConfirmPassword: "swordfish"})
		req.ErrorIs(err, apperr.ErrInvalidCredentials)
		req.True(ws.passwordMatches("hunter22"))

		err = ws.ChangePassword(PasswordForm{CurrentPassword: "hunter22", NewPassword: "swordfish", ConfirmPassword: "swordfish"})
		req.NoError(err)
		req.True(ws.passwordMatches("swordfish"))
	})

	t.Run("should reject a password bcrypt cannot hash", func(t *testing.T) {
		req := require.New(t)
		ws, _ := newWorkspace(t, memberID)
		long := strings.Repeat("a", 80)

		err := ws.ChangePassword(PasswordForm{NewPassword: long, ConfirmPassword: long})

		req.ErrorIs(err, apperr.ErrInvalidField)
		req.False(ws.passwordMatches(long))
	})

	t.Run("should count bytes rather than characters", func(t *testing.T) {
		ws, _ := newWorkspace(t, memberID)
		long := strings.Repeat("é", 40)

		err := ws.ChangePassword(PasswordForm{NewPassword: long, ConfirmPassword: long})

		require.ErrorIs(t, err, apperr.ErrInvalidField)
	})

	t.Run("should need an identity", func(t *testing.T) {
		ws, _ := newWorkspace(t, nil)

		_, err := ws.Profile()

		require.ErrorIs(t, err, apperr.ErrNoIdentity)
	})
}

func TestWorkspace_Summary(t *testing.T) {
	t.Run("should count projects and tasks", func(t *testing.T) {
		req := require.New(t)
		ws, _ := newWorkspace(t, memberID)

		s, err := ws.Summary()

		req.NoError(err)
		req.Equal(4, s.Projects)
		req.Equal(1, s.ByStatus[models.ProjectCompleted])
		req.Equal(9, s.Channels)
		req.Equal(12, s.Unread)
		req.Nil(s.Team)
		req.LessOrEqual(s.CompletedTasks, s.Tasks)
	})

	t.Run("should include the roster size for managers", func(t *testing.T) {
		ws, _ := newWorkspace(t, managerID)

		s, err := ws.Summary()

		require.NoError(t, err)
		require.NotNil(t, s.Team)
		require.Equal(t, 8, *s.Team)
	})
}
