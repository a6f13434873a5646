package seed

import (
	_ "embed"
	"fmt"

	"github.com/lalith-99/collabsphere/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var fixture []byte

// Data is the mock data every new session starts from.
type Data struct {
	Channels []models.Channel            `yaml:"channels"`
	Messages map[string][]models.Message `yaml:"messages"`
	Projects []models.Project            `yaml:"projects"`
	Team     []models.TeamMember         `yaml:"team"`
	Reviews  []models.Review             `yaml:"reviews"`
}

// Load parses the embedded fixture.
func Load() (*Data, error) {
	return Parse(fixture)
}

// Parse decodes a fixture document and stamps each seeded message with the
// channel it belongs to.
func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for channelID, msgs := range d.Messages {
		for i := range msgs {
			msgs[i].ChannelID = channelID
		}
	}
	return &d, nil
}

// Clone returns a deep copy so a session can mutate its data freely.
func (d *Data) Clone() *Data {
	c := &Data{
		Channels: append([]models.Channel(nil), d.Channels...),
		Messages: make(map[string][]models.Message, len(d.Messages)),
		Projects: make([]models.Project, len(d.Projects)),
		Team:     make([]models.TeamMember, len(d.Team)),
		Reviews:  append([]models.Review(nil), d.Reviews...),
	}
	for id, msgs := range d.Messages {
		c.Messages[id] = append([]models.Message(nil), msgs...)
	}
	for i, p := range d.Projects {
		p.Members = append([]models.ProjectMember(nil), p.Members...)
		p.Tasks = append([]models.Task(nil), p.Tasks...)
		c.Projects[i] = p
	}
	for i, m := range d.Team {
		m.Projects = append([]string(nil), m.Projects...)
		c.Team[i] = m
	}
	return c
}
