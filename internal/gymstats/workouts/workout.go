package workouts

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/2beens/gymvariations/internal/gymstats/exercises"
)

const (
	dateLayout = "20060102"
	timeLayout = "15:04"

	maxEffort = 10
)

var DistanceUnit = struct {
	Kilometers string
	Miles      string
}{
	Kilometers: "km",
	Miles:      "mi",
}

var (
	ErrSessionNotFound = errors.New("workout session not found")
	ErrEntryNotFound   = errors.New("workout entry not found")
)

// RepCount holds either bilateral reps, or reps for each side.
type RepCount struct {
	Bilateral *int `json:"bilateral,omitempty"`
	Left      *int `json:"left,omitempty"`
	Right     *int `json:"right,omitempty"`
}

func (r RepCount) empty() bool {
	return r.Bilateral == nil && r.Left == nil && r.Right == nil
}

type Set struct {
	Weight          float64  `json:"weight"`
	Reps            RepCount `json:"reps"`
	Effort          *int     `json:"effort,omitempty"`
	DurationSeconds *int     `json:"durationSeconds,omitempty"`
}

type Entry struct {
	ID         string              `json:"id"`
	Owner      string              `json:"owner"`
	SessionID  string              `json:"sessionId,omitempty"`
	ExerciseID string              `json:"exerciseId"`
	Variations exercises.Selection `json:"variations"`
	Sets       []Set               `json:"sets"`
	Notes      string              `json:"notes,omitempty"`
	Distance   *float64            `json:"distance,omitempty"`
	Unit       string              `json:"unit,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// HistoryEntry is a logged entry with the YYYYMMDD day it was performed on.
type HistoryEntry struct {
	Entry
	Date string `json:"date"`
}

type Session struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Entries   []Entry   `json:"entries"`
	CreatedAt time.Time `json:"createdAt"`
}

type EntryPayload struct {
	ExerciseID string              `json:"exerciseId"`
	Variations exercises.Selection `json:"variations"`
	Sets       []Set               `json:"sets"`
	Notes      string              `json:"notes"`
	// Distance and Unit are only recorded for cardio.
	Distance *float64 `json:"distance"`
	Unit     string   `json:"unit"`
}

type RecordEntryRequest struct {
	EntryPayload
	// SessionID appends the entry to an existing session of the same owner.
	SessionID string `json:"sessionId"`
}

type RecordSessionRequest struct {
	Date      string         `json:"date"`
	StartTime string         `json:"startTime"`
	EndTime   string         `json:"endTime"`
	Entries   []EntryPayload `json:"entries"`
}

// ListSessionsParams bounds sessions by date, both ends inclusive, in YYYYMMDD.
type ListSessionsParams struct {
	Owner string
	From  string
	To    string
}

func invalid(field, reason string) *exercises.ValidationError {
	return &exercises.ValidationError{Field: field, Reason: reason}
}

func (p *EntryPayload) normalize() {
	p.ExerciseID = strings.TrimSpace(p.ExerciseID)
	p.Notes = strings.TrimSpace(p.Notes)
	p.Unit = strings.TrimSpace(p.Unit)
	if p.Variations == nil {
		p.Variations = exercises.Selection{}
	}
	if p.Sets == nil {
		p.Sets = []Set{}
	}
}

// validatePerformance checks the sets of an entry. Cardio entries may log
// duration only sets without reps.
func (p *EntryPayload) validatePerformance(category string) error {
	if len(p.Sets) == 0 {
		return invalid("sets", "at least one set is required")
	}
	if err := p.validateDistance(category); err != nil {
		return err
	}

	for i, set := range p.Sets {
		field := fmt.Sprintf("sets[%d]", i)
		if set.Weight < 0 {
			return invalid(field, "weight cannot be negative")
		}
		if set.Effort != nil && (*set.Effort < 0 || *set.Effort > maxEffort) {
			return invalid(field, fmt.Sprintf("effort must be within 0..%d", maxEffort))
		}
		if set.DurationSeconds != nil && *set.DurationSeconds < 0 {
			return invalid(field, "duration cannot be negative")
		}

		if set.Reps.empty() && category == exercises.Category.Cardio && set.DurationSeconds != nil {
			continue
		}
		if err := validateReps(field, set.Reps); err != nil {
			return err
		}
	}
	return nil
}

func (p *EntryPayload) validateDistance(category string) error {
	if p.Distance == nil && p.Unit == "" {
		return nil
	}
	if category != exercises.Category.Cardio {
		return invalid("distance", "distance is only recorded for cardio")
	}
	if p.Distance == nil {
		return invalid("distance", "unit given without a distance")
	}
	if *p.Distance < 0 || !isFinite(*p.Distance) {
		return invalid("distance", "distance must be a non negative number")
	}
	if p.Unit != DistanceUnit.Kilometers && p.Unit != DistanceUnit.Miles {
		return invalid("unit", fmt.Sprintf("unit must be %q or %q", DistanceUnit.Kilometers, DistanceUnit.Miles))
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// validateReps accepts either bilateral reps of at least 1, or both sides.
// A side may be 0 so a set where only one arm or leg got through still counts.
func validateReps(field string, reps RepCount) error {
	if reps.Bilateral != nil {
		if reps.Left != nil || reps.Right != nil {
			return invalid(field, "either provide bilateral reps, or both left and right reps")
		}
		if *reps.Bilateral < 1 {
			return invalid(field, "bilateral reps must be at least 1")
		}
		return nil
	}

	if reps.Left == nil || reps.Right == nil {
		return invalid(field, "either provide bilateral reps, or both left and right reps")
	}
	if *reps.Left < 0 || *reps.Right < 0 {
		return invalid(field, "reps cannot be negative")
	}
	return nil
}

func (req *RecordSessionRequest) validate() error {
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return invalid("date", "date must be in YYYYMMDD format")
	}
	if _, err := time.Parse(timeLayout, req.StartTime); err != nil {
		return invalid("startTime", "start time must be in HH:MM format")
	}
	if _, err := time.Parse(timeLayout, req.EndTime); err != nil {
		return invalid("endTime", "end time must be in HH:MM format")
	}
	return nil
}

func (p ListSessionsParams) validate() error {
	if p.From != "" {
		if _, err := time.Parse(dateLayout, p.From); err != nil {
			return invalid("from", "from must be in YYYYMMDD format")
		}
	}
	if p.To != "" {
		if _, err := time.Parse(dateLayout, p.To); err != nil {
			return invalid("to", "to must be in YYYYMMDD format")
		}
	}
	if p.From != "" && p.To != "" && p.From > p.To {
		return invalid("from", "from is after to")
	}
	return nil
}
