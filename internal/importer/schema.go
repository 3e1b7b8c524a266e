package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan is the top-level structure of a course plan file. JSON files are
// accepted as well since the YAML decoder reads JSON documents.
type Plan struct {
	Courses      []CourseImport      `yaml:"courses" validate:"required,min=1,dive"`
	Assignments  []AssignmentImport  `yaml:"assignments" validate:"dive"`
	BlockedDates []BlockedDateImport `yaml:"blocked_dates" validate:"dive"`
}

// CourseImport is a course template and its curriculum.
type CourseImport struct {
	ID      string         `yaml:"id" validate:"notblank"`
	Name    string         `yaml:"name" validate:"notblank"`
	Lessons []LessonImport `yaml:"lessons" validate:"dive"`
}

// LessonImport is one curriculum lesson. ID defaults to "<course>-L<n>"
// and Order to the lesson's position in the list.
type LessonImport struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title" validate:"notblank"`
	Order *int   `yaml:"order" validate:"omitempty,min=0"`
}

// AssignmentImport offers a course at an institution.
type AssignmentImport struct {
	ID          string  `yaml:"id" validate:"notblank"`
	Course      string  `yaml:"course" validate:"notblank"`
	Institution string  `yaml:"institution"`
	Instructor  string  `yaml:"instructor"`
	StartDate   string  `yaml:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     *string `yaml:"end_date" validate:"omitempty,datetime=2006-01-02"`

	Pattern     *PatternImport     `yaml:"pattern"`
	Occurrences []OccurrenceImport `yaml:"occurrences" validate:"dive"`
	Reported    []string           `yaml:"reported"`
}

// PatternImport is the weekly schedule. A zero target means uncapped.
type PatternImport struct {
	TargetLessons int          `yaml:"target_lessons" validate:"min=0"`
	Slots         []SlotImport `yaml:"slots" validate:"required,min=1,dive"`
}

type SlotImport struct {
	Weekday string  `yaml:"weekday" validate:"required,weekday"`
	Start   string  `yaml:"start" validate:"required,datetime=15:04"`
	End     string  `yaml:"end" validate:"required,datetime=15:04"`
	Anchor  *string `yaml:"anchor" validate:"omitempty,datetime=2006-01-02"`
	Active  *bool   `yaml:"active"`
}

// OccurrenceImport is an already-scheduled lesson carried over from a
// previous calendar. It is stored as authoritative.
type OccurrenceImport struct {
	Lesson string `yaml:"lesson" validate:"notblank"`
	Date   string `yaml:"date" validate:"required,datetime=2006-01-02"`
	Start  string `yaml:"start" validate:"required,datetime=15:04"`
	End    string `yaml:"end" validate:"required,datetime=15:04"`
}

type BlockedDateImport struct {
	Date    string  `yaml:"date" validate:"required,datetime=2006-01-02"`
	EndDate *string `yaml:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Reason  string  `yaml:"reason"`
}

// LoadPlan reads and parses a plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePlan(data)
}

// ParsePlan decodes a plan document, rejecting unknown keys.
func ParsePlan(data []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var plan Plan
	if err := dec.Decode(&plan); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	return &plan, nil
}
