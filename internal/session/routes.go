package session

import (
	"path"
	"strings"

	"github.com/lalith-99/collabsphere/internal/models"
)

const (
	PathLanding        = "/"
	PathLogin          = "/login"
	PathSignup         = "/signup"
	PathForgotPassword = "/forgot-password"
	PathHome           = "/dashboard"
)

var publicPaths = map[string]bool{
	PathLanding:        true,
	PathLogin:          true,
	PathSignup:         true,
	PathForgotPassword: true,
}

// Views only a manager may open. Their sub-pages are restricted too.
var managerPaths = []string{
	"/dashboard/team",
	"/dashboard/performance",
}

type Action string

const (
	ActionAllow    Action = "allow"
	ActionRedirect Action = "redirect"
	// ActionRestricted means the path is reachable but the view renders an
	// "Access Restricted" panel for this role.
	ActionRestricted Action = "restricted"
)

// Decision is what the client does with a navigation: stay on Target, or go there.
type Decision struct {
	Action Action `json:"action"`
	Target string `json:"target"`
}

// IsPublic reports whether a path is reachable without an identity.
func IsPublic(p string) bool {
	return publicPaths[normalize(p)]
}

// Decide applies the navigation policy to one navigation. It keeps no state;
// callers evaluate it again on every path change and every identity change.
func Decide(identity *models.Identity, p string) Decision {
	p = normalize(p)
	public := publicPaths[p]

	switch {
	case identity == nil && !public:
		return Decision{Action: ActionRedirect, Target: PathLogin}
	case identity != nil && public && p != PathLanding:
		return Decision{Action: ActionRedirect, Target: PathHome}
	case identity != nil && !identity.IsManager() && isManagerPath(p):
		return Decision{Action: ActionRestricted, Target: p}
	default:
		return Decision{Action: ActionAllow, Target: p}
	}
}

func isManagerPath(p string) bool {
	for _, prefix := range managerPaths {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

// normalize drops the query and fragment and cleans the path, so "/login/"
// and "/login?next=x" classify like "/login".
func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return PathLanding
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
