package workouts

import (
	"context"
	"slices"

	"github.com/2beens/gymvariations/internal/gymstats/exercises"
	"github.com/2beens/gymvariations/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// RecordSet is the single set with the highest volume logged for an exercise.
type RecordSet struct {
	Date        string   `json:"date"`
	Weight      float64  `json:"weight"`
	Reps        RepCount `json:"reps"`
	TotalVolume float64  `json:"totalVolume"`
}

// RecentPerformance is what was done for an exercise the last time it was
// logged, enough to repeat that workout.
type RecentPerformance struct {
	Date       string              `json:"date"`
	SessionID  string              `json:"sessionId,omitempty"`
	Variations exercises.Selection `json:"variations"`
	Sets       []Set               `json:"sets"`
}

type ExerciseStats struct {
	ExerciseID        string             `json:"exerciseId"`
	Key               string             `json:"key"`
	Name              string             `json:"name"`
	Category          string             `json:"category"`
	EntriesCount      int                `json:"entriesCount"`
	MostRecentSession *RecentPerformance `json:"mostRecentSession,omitempty"`
	RecordSet         *RecordSet         `json:"recordSet,omitempty"`
	Notes             string             `json:"notes,omitempty"`
}

// ExerciseGroup lists custom exercise keys of one category, alphabetically.
type ExerciseGroup struct {
	Group string   `json:"group"`
	Items []string `json:"items"`
}

type ExerciseMeta struct {
	Owner           string                   `json:"owner"`
	CustomExercises []ExerciseGroup          `json:"customExercises"`
	Exercises       map[string]ExerciseStats `json:"exercises"`
}

// SetVolume is weight times reps. Sets logged per side use the average of
// both sides. Duration only sets have no volume.
func SetVolume(set Set) float64 {
	if set.Reps.Bilateral != nil {
		return set.Weight * float64(*set.Reps.Bilateral)
	}
	if set.Reps.Left != nil && set.Reps.Right != nil {
		return set.Weight * float64(*set.Reps.Left+*set.Reps.Right) / 2
	}
	return 0
}

// ExerciseMeta summarises the owner's history per exercise: the most recent
// performance, the personal record set and the latest notes. It also groups
// the owner's custom exercises by category.
func (s *Service) ExerciseMeta(ctx context.Context, owner string) (_ *ExerciseMeta, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.workouts.meta")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("owner", owner))

	definitions, err := s.definitions.ListDefinitions(ctx, owner, "")
	if err != nil {
		return nil, err
	}
	history, err := s.repo.ListHistory(ctx, owner)
	if err != nil {
		return nil, err
	}

	meta := &ExerciseMeta{
		Owner:           owner,
		CustomExercises: groupCustomExercises(owner, definitions),
		Exercises:       make(map[string]ExerciseStats),
	}

	byID := make(map[string]exercises.Definition, len(definitions))
	for _, def := range definitions {
		byID[def.ID] = def
	}

	// history is newest first
	stats := make(map[string]*ExerciseStats)
	for _, entry := range history {
		st, ok := stats[entry.ExerciseID]
		if !ok {
			st = &ExerciseStats{
				ExerciseID: entry.ExerciseID,
				Key:        entry.ExerciseID,
			}
			if def, known := byID[entry.ExerciseID]; known {
				st.Key = def.Key
				st.Name = def.Name
				st.Category = def.Category
			}
			stats[entry.ExerciseID] = st
		}

		st.EntriesCount++
		if st.MostRecentSession == nil {
			st.MostRecentSession = &RecentPerformance{
				Date:       entry.Date,
				SessionID:  entry.SessionID,
				Variations: entry.Variations,
				Sets:       entry.Sets,
			}
		}
		if st.Notes == "" {
			st.Notes = entry.Notes
		}

		for _, set := range entry.Sets {
			volume := SetVolume(set)
			if volume <= 0 {
				continue
			}
			// >= so that among equal volumes the earliest set keeps the record
			if st.RecordSet == nil || volume >= st.RecordSet.TotalVolume {
				st.RecordSet = &RecordSet{
					Date:        entry.Date,
					Weight:      set.Weight,
					Reps:        set.Reps,
					TotalVolume: volume,
				}
			}
		}
	}

	for id, st := range stats {
		meta.Exercises[id] = *st
	}
	return meta, nil
}

func groupCustomExercises(owner string, definitions []exercises.Definition) []ExerciseGroup {
	byCategory := make(map[string][]string)
	for _, def := range definitions {
		if def.Owner != owner {
			continue
		}
		byCategory[def.Category] = append(byCategory[def.Category], def.Key)
	}

	groups := []ExerciseGroup{}
	for _, category := range exercises.Categories {
		keys, ok := byCategory[category]
		if !ok {
			continue
		}
		slices.Sort(keys)
		groups = append(groups, ExerciseGroup{Group: category, Items: keys})
	}
	return groups
}
