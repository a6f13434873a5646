package apperr

import "errors"

// Every failure in the dashboard is detected at the point of submission and shown
// to the user as a dismissable notification. None of them is fatal.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidUserData      = errors.New("invalid user data")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrPasswordMismatch     = errors.New("passwords don't match")
	ErrInvalidField         = errors.New("invalid field value")
	ErrForbidden            = errors.New("manager permissions required")
	ErrNotFound             = errors.New("not found")
	ErrDuplicate            = errors.New("already exists")
	ErrNoIdentity           = errors.New("not logged in")
)

// Notification is the {title, description} pair the client renders as a toast.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Notify maps an error to the toast the original forms show for it.
// Unknown errors get a generic notification.
func Notify(err error) Notification {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return Notification{"Login failed", "Invalid credentials. Please check your email and password."}
	case errors.Is(err, ErrInvalidUserData):
		return Notification{"Signup failed", "Please provide your name, email and password."}
	case errors.Is(err, ErrMissingRequiredField):
		return Notification{"Missing information", "Please fill in all required fields."}
	case errors.Is(err, ErrPasswordMismatch):
		return Notification{"Passwords don't match", "New password and confirmation password must match."}
	case errors.Is(err, ErrInvalidField):
		return Notification{"Invalid information", "One of the fields has an invalid value."}
	case errors.Is(err, ErrForbidden):
		return Notification{"Access Restricted", "You need manager permissions to view this page."}
	case errors.Is(err, ErrNotFound):
		return Notification{"Not found", "The requested item does not exist."}
	case errors.Is(err, ErrDuplicate):
		return Notification{"Already exists", "An item with the same id already exists."}
	case errors.Is(err, ErrNoIdentity):
		return Notification{"Not logged in", "Please log in to continue."}
	default:
		return Notification{"Something went wrong", "Please try again."}
	}
}
