package exercises

import (
	"slices"
)

// ComputeTargeting returns the normalized per muscle weighting of def for the
// given selection. All selected multipliers are applied before any delta, then
// weights are clamped at 0 and normalized to sum to 1. When nothing remains
// the result is empty. An invalid selection yields a *ValidationError and no result.
func ComputeTargeting(def *Definition, selection Selection, registry OptionRegistry) (MuscleWeights, error) {
	if err := ValidateSelection(def, selection, registry); err != nil {
		return nil, err
	}

	weights := make(MuscleWeights, len(def.Targets))
	for _, t := range def.Targets {
		weights[t.Muscle] += t.Weight
	}

	// effects of the selected options, in support declaration order
	selected := make([]Effect, 0, len(selection))
	for _, s := range def.Supports {
		optionKey, ok := selection[s.TemplateID]
		if !ok {
			continue
		}
		if eff, ok := def.effect(s.TemplateID, optionKey); ok {
			selected = append(selected, eff)
		}
	}

	for _, eff := range selected {
		for _, muscle := range sortedKeys(eff.Multipliers) {
			if w, ok := weights[muscle]; ok {
				weights[muscle] = w * eff.Multipliers[muscle]
			}
		}
	}
	for _, eff := range selected {
		for _, muscle := range sortedKeys(eff.Deltas) {
			weights[muscle] += eff.Deltas[muscle]
		}
	}

	muscles := sortedKeys(weights)
	var sum float64
	for _, muscle := range muscles {
		if weights[muscle] <= 0 {
			weights[muscle] = 0
		}
		sum += weights[muscle]
	}

	if sum <= 0 {
		return MuscleWeights{}, nil
	}

	for _, muscle := range muscles {
		weights[muscle] /= sum
	}
	return weights, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
