package dashboard

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/lalith-99/collabsphere/internal/apperr"
	"github.com/lalith-99/collabsphere/internal/models"
)

// Forms are validated as a whole before anything changes. A failed form has no
// effect at all.

type ProjectForm struct {
	Name        string               `json:"name" validate:"required"`
	Description string               `json:"description" validate:"required"`
	Status      models.ProjectStatus `json:"status" validate:"omitempty,oneof=Planning 'In Progress' Completed 'On Hold'"`
	StartDate   string               `json:"startDate" validate:"required,datetime=2006-01-02"`
	DueDate     string               `json:"dueDate" validate:"required,datetime=2006-01-02"`
}

type TaskForm struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Assignee    string          `json:"assignee" validate:"required"`
	DueDate     string          `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Priority    models.Priority `json:"priority" validate:"omitempty,oneof=Low Medium High"`
}

type MemberForm struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Role       string `json:"role" validate:"required"`
	Department string `json:"department" validate:"required"`
	Phone      string `json:"phone"`
}

// ReviewForm leaves unset metrics at their defaults (80%, rating 4).
type ReviewForm struct {
	Employee            string   `json:"employee" validate:"required"`
	Project             string   `json:"project" validate:"required"`
	TaskCompletion      *int     `json:"taskCompletion" validate:"omitempty,min=0,max=100"`
	TimeEfficiency      *int     `json:"timeEfficiency" validate:"omitempty,min=0,max=100"`
	CommunicationScore  *int     `json:"communicationScore" validate:"omitempty,min=0,max=100"`
	QualityOfWork       *int     `json:"qualityOfWork" validate:"omitempty,min=0,max=100"`
	TeamCollaboration   *int     `json:"teamCollaboration" validate:"omitempty,min=0,max=100"`
	OverallRating       *float64 `json:"overallRating" validate:"omitempty,min=1,max=5"`
	Strengths           string   `json:"strengths"`
	AreasForImprovement string   `json:"areasForImprovement"`
	AdditionalComments  string   `json:"additionalComments"`
}

type ProfileForm struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone"`
	Bio   string `json:"bio"`
}

// PasswordForm only checks CurrentPassword once a password has been changed in
// this session.
type PasswordForm struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"required,bcryptlen"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

const (
	defaultMetric = 80
	defaultRating = 4.0
)

// bcrypt refuses anything longer than this many bytes.
const maxPasswordBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// max counts runes; bcrypt counts bytes.
	_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})
	return v
}

// check validates a form and translates the first failure into the sentinel
// the client shows a notification for.
func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate form: %w", err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s: %w", fe.Field(), apperr.ErrMissingRequiredField)
	case "eqfield":
		return apperr.ErrPasswordMismatch
	default:
		return fmt.Errorf("%s failed %q: %w", fe.Field(), fe.Tag(), apperr.ErrInvalidField)
	}
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
