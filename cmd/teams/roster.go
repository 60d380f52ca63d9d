package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/matchday/internal/domain/model"
)

var errEmptyRoster = errors.New("roster has no participants")

// rosterEntry is one participant as written in a roster file. Active
// defaults to true.
type rosterEntry struct {
	ID         string             `yaml:"id"`
	Name       string             `yaml:"name"`
	Attributes map[string]float64 `yaml:"attributes"`
	Active     *bool              `yaml:"active"`
}

// rosterFile is the document form of a roster. A bare list of
// participants is accepted as well.
type rosterFile struct {
	GroupSize    int           `yaml:"group_size"`
	Seed         int64         `yaml:"seed"`
	Participants []rosterEntry `yaml:"participants"`
}

// readRoster decodes a YAML or JSON roster.
func readRoster(r io.Reader) (rosterFile, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return rosterFile{}, errEmptyRoster
		}
		return rosterFile{}, fmt.Errorf("parse roster: %w", err)
	}

	var rf rosterFile
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&rf.Participants); err != nil {
			return rosterFile{}, fmt.Errorf("decode participants: %w", err)
		}
	case yaml.MappingNode:
		if err := root.Decode(&rf); err != nil {
			return rosterFile{}, fmt.Errorf("decode roster: %w", err)
		}
	default:
		return rosterFile{}, fmt.Errorf("parse roster: expected a list or a mapping at line %d", root.Line)
	}

	if len(rf.Participants) == 0 {
		return rosterFile{}, errEmptyRoster
	}
	for i, e := range rf.Participants {
		if strings.TrimSpace(e.ID) == "" {
			return rosterFile{}, fmt.Errorf("participant %d: missing id", i)
		}
	}
	return rf, nil
}

func (rf rosterFile) participants() []model.Participant { //nolint:gocritic // hugeParam: read-only
	ps := make([]model.Participant, len(rf.Participants))
	for i, e := range rf.Participants {
		active := true
		if e.Active != nil {
			active = *e.Active
		}
		ps[i] = model.Participant{
			ID:         strings.TrimSpace(e.ID),
			Name:       e.Name,
			Attributes: e.Attributes,
			Active:     active,
		}
	}
	return ps
}
