package models

import (
	"fmt"
	"time"
)

// Role decides which views an identity can reach. It is binary: managers see the
// team roster and performance pages, team members do not.
type Role string

const (
	RoleManager    Role = "manager"
	RoleTeamMember Role = "team_member"
)

// Identity is the locally synthesized "logged-in user".
//
// The JSON shape is the persisted identity record, so the field names must stay
// exactly id/name/email/role.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (i *Identity) IsManager() bool {
	return i != nil && i.Role == RoleManager
}

// ChannelCategory groups channels in the chat sidebar.
type ChannelCategory string

const (
	CategoryProject       ChannelCategory = "project"
	CategoryGeneral       ChannelCategory = "general-channel"
	CategoryDirectMessage ChannelCategory = "direct-message"
)

// Channel is any addressable conversation surface. ID is the only key into the
// message store.
//
// Unread is seeded and never decremented by reading.
type Channel struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Category ChannelCategory `json:"category" yaml:"category"`
	Unread   int             `json:"unread" yaml:"unread"`
	Online   bool            `json:"online,omitempty" yaml:"online"`
}

// Attachment keeps only what the file picker reports. Contents are never read.
type Attachment struct {
	Name string `json:"name" yaml:"name"`
	Size int64  `json:"size" yaml:"size"`
}

// SizeLabel renders the size the way the chat panel shows it, e.g. "12.3 KB".
func (a Attachment) SizeLabel() string {
	return fmt.Sprintf("%.1f KB", float64(a.Size)/1024)
}

// Message is a single chat message. Messages are append-only: never edited,
// never deleted, never sent anywhere.
type Message struct {
	ID            string      `json:"id" yaml:"id"`
	ChannelID     string      `json:"channelId" yaml:"-"`
	Sender        string      `json:"sender" yaml:"sender"`
	Content       string      `json:"content" yaml:"content"`
	Timestamp     time.Time   `json:"timestamp" yaml:"timestamp"`
	IsCurrentUser bool        `json:"isCurrentUser" yaml:"isCurrentUser"`
	File          *Attachment `json:"file,omitempty" yaml:"file"`
}

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "Planning"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectCompleted  ProjectStatus = "Completed"
	ProjectOnHold     ProjectStatus = "On Hold"
)

type TaskStatus string

const (
	TaskToDo       TaskStatus = "To Do"
	TaskInProgress TaskStatus = "In Progress"
	TaskCompleted  TaskStatus = "Completed"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ProjectMember is a person staffed on a project with their project role
// (e.g. "UI Designer"), unrelated to the identity Role.
type ProjectMember struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
}

type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Status      TaskStatus `json:"status" yaml:"status"`
	Assignee    string     `json:"assignee" yaml:"assignee"`
	DueDate     string     `json:"dueDate" yaml:"dueDate"`
	Priority    Priority   `json:"priority" yaml:"priority"`
}

type Project struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Status      ProjectStatus   `json:"status" yaml:"status"`
	StartDate   string          `json:"startDate" yaml:"startDate"`
	DueDate     string          `json:"dueDate" yaml:"dueDate"`
	Members     []ProjectMember `json:"members" yaml:"members"`
	Tasks       []Task          `json:"tasks" yaml:"tasks"`
	CreatedBy   string          `json:"createdBy,omitempty" yaml:"createdBy"`
	CreatedAt   string          `json:"createdAt,omitempty" yaml:"createdAt"`
}

// CompletedTasks counts tasks in the Completed column.
func (p *Project) CompletedTasks() int {
	n := 0
	for _, t := range p.Tasks {
		if t.Status == TaskCompleted {
			n++
		}
	}
	return n
}

type MemberStatus string

const (
	MemberActive   MemberStatus = "Active"
	MemberOnLeave  MemberStatus = "On Leave"
	MemberInactive MemberStatus = "Inactive"
)

// TeamMember is an entry in the manager-only team roster.
type TeamMember struct {
	ID         string       `json:"id" yaml:"id"`
	Name       string       `json:"name" yaml:"name"`
	Email      string       `json:"email" yaml:"email"`
	Role       string       `json:"role" yaml:"role"`
	Department string       `json:"department" yaml:"department"`
	Phone      string       `json:"phone" yaml:"phone"`
	Status     MemberStatus `json:"status" yaml:"status"`
	JoinDate   string       `json:"joinDate" yaml:"joinDate"`
	Projects   []string     `json:"projects" yaml:"projects"`
}

// ReviewMetrics are percentages except OverallRating, which is 1..5.
type ReviewMetrics struct {
	TaskCompletion     int     `json:"taskCompletion" yaml:"taskCompletion"`
	TimeEfficiency     int     `json:"timeEfficiency" yaml:"timeEfficiency"`
	CommunicationScore int     `json:"communicationScore" yaml:"communicationScore"`
	QualityOfWork      int     `json:"qualityOfWork" yaml:"qualityOfWork"`
	TeamCollaboration  int     `json:"teamCollaboration" yaml:"teamCollaboration"`
	OverallRating      float64 `json:"overallRating" yaml:"overallRating"`
}

type Review struct {
	ID                  string        `json:"id" yaml:"id"`
	Employee            string        `json:"employee" yaml:"employee"`
	Role                string        `json:"role,omitempty" yaml:"role"`
	Project             string        `json:"project" yaml:"project"`
	Status              string        `json:"status" yaml:"status"`
	Metrics             ReviewMetrics `json:"metrics" yaml:"metrics"`
	Strengths           string        `json:"strengths" yaml:"strengths"`
	AreasForImprovement string        `json:"areasForImprovement" yaml:"areasForImprovement"`
	AdditionalComments  string        `json:"additionalComments" yaml:"additionalComments"`
	SubmittedBy         string        `json:"submittedBy" yaml:"submittedBy"`
	SubmittedDate       string        `json:"submittedDate" yaml:"submittedDate"`
}

// NotificationSettings mirrors the toggles on the settings page.
type NotificationSettings struct {
	EmailNotifications bool `json:"emailNotifications"`
	TaskAssignments    bool `json:"taskAssignments"`
	TaskUpdates        bool `json:"taskUpdates"`
	ProjectUpdates     bool `json:"projectUpdates"`
	DirectMessages     bool `json:"directMessages"`
	Mentions           bool `json:"mentions"`
	PerformanceReviews bool `json:"performanceReviews"`
}

// Profile is the editable part of the settings page. Name and Email mirror the
// session identity.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Bio   string `json:"bio"`
}
