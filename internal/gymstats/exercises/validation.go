package exercises

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// OptionRegistry is the part of the variation registry needed for validation.
type OptionRegistry interface {
	HasTemplate(templateID string) bool
	OptionExists(templateID, optionKey string) bool
}

// CreateRequest carries a whole exercise aggregate, as supplied by its owner.
type CreateRequest struct {
	Key             string                `json:"key"`
	Name            string                `json:"name"`
	Category        string                `json:"category"`
	RepMode         string                `json:"repMode"`
	Targets         []TargetWeight        `json:"targets"`
	Supports        []VariationSupport    `json:"supports"`
	OptionOverrides []OptionLabelOverride `json:"optionOverrides"`
	Effects         []VariationEffect     `json:"effects"`
}

func (req *CreateRequest) applyDefaults() {
	req.Key = strings.TrimSpace(req.Key)
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	req.RepMode = strings.TrimSpace(req.RepMode)
	if req.RepMode == "" {
		req.RepMode = RepMode.Bilateral
	}

	if req.Targets == nil {
		req.Targets = []TargetWeight{}
	}
	for i := range req.Targets {
		req.Targets[i].Muscle = strings.TrimSpace(req.Targets[i].Muscle)
	}

	if req.Supports == nil {
		req.Supports = []VariationSupport{}
	}
	for i := range req.Supports {
		s := &req.Supports[i]
		s.TemplateID = strings.TrimSpace(s.TemplateID)
		s.LabelOverride = strings.TrimSpace(s.LabelOverride)
		s.DefaultOptionKey = strings.TrimSpace(s.DefaultOptionKey)
	}

	if req.OptionOverrides == nil {
		req.OptionOverrides = []OptionLabelOverride{}
	}
	for i := range req.OptionOverrides {
		o := &req.OptionOverrides[i]
		o.TemplateID = strings.TrimSpace(o.TemplateID)
		o.OptionKey = strings.TrimSpace(o.OptionKey)
		o.Label = strings.TrimSpace(o.Label)
	}

	if req.Effects == nil {
		req.Effects = []VariationEffect{}
	}
	for i := range req.Effects {
		e := &req.Effects[i]
		e.TemplateID = strings.TrimSpace(e.TemplateID)
		e.OptionKey = strings.TrimSpace(e.OptionKey)
		if e.Effect.Multipliers == nil {
			e.Effect.Multipliers = map[string]float64{}
		}
		if e.Effect.Deltas == nil {
			e.Effect.Deltas = map[string]float64{}
		}
	}
}

// validate checks the request in a fixed order, so the reported
// violation is stable for a given input.
func (req *CreateRequest) validate(owner string, registry OptionRegistry) error {
	// required fields
	switch {
	case strings.TrimSpace(owner) == "":
		return newValidationError("owner", "", "", "owner is required")
	case req.Key == "":
		return newValidationError("key", "", "", "key is required")
	case req.Name == "":
		return newValidationError("name", "", "", "name is required")
	case req.Category == "":
		return newValidationError("category", "", "", "category is required")
	case !slices.Contains(Categories, req.Category):
		return newValidationError("category", "", "", fmt.Sprintf("unknown category %q", req.Category))
	case !slices.Contains(RepModes, req.RepMode):
		return newValidationError("repMode", "", "", fmt.Sprintf("unknown rep mode %q", req.RepMode))
	}

	// supported templates exist
	declared := make(map[string]struct{}, len(req.Supports))
	for _, s := range req.Supports {
		if s.TemplateID == "" || !registry.HasTemplate(s.TemplateID) {
			return newValidationError("supports", s.TemplateID, "", "unknown variation template")
		}
		if s.DefaultOptionKey != "" && !registry.OptionExists(s.TemplateID, s.DefaultOptionKey) {
			return newValidationError("supports", s.TemplateID, s.DefaultOptionKey, "default option is not an option of the template")
		}
		declared[s.TemplateID] = struct{}{}
	}

	// overrides and effects reference a declared support and a legal option
	for _, o := range req.OptionOverrides {
		if err := checkOptionRef("optionOverrides", o.TemplateID, o.OptionKey, declared, registry); err != nil {
			return err
		}
	}
	for _, e := range req.Effects {
		if err := checkOptionRef("effects", e.TemplateID, e.OptionKey, declared, registry); err != nil {
			return err
		}
	}

	// duplicates
	seenSupports := make(map[string]struct{}, len(req.Supports))
	for _, s := range req.Supports {
		if _, ok := seenSupports[s.TemplateID]; ok {
			return newValidationError("supports", s.TemplateID, "", "duplicate variation support")
		}
		seenSupports[s.TemplateID] = struct{}{}
	}
	seenOverrides := make(map[[2]string]struct{}, len(req.OptionOverrides))
	for _, o := range req.OptionOverrides {
		k := [2]string{o.TemplateID, o.OptionKey}
		if _, ok := seenOverrides[k]; ok {
			return newValidationError("optionOverrides", o.TemplateID, o.OptionKey, "duplicate option label override")
		}
		seenOverrides[k] = struct{}{}
	}
	seenEffects := make(map[[2]string]struct{}, len(req.Effects))
	for _, e := range req.Effects {
		k := [2]string{e.TemplateID, e.OptionKey}
		if _, ok := seenEffects[k]; ok {
			return newValidationError("effects", e.TemplateID, e.OptionKey, "duplicate variation effect")
		}
		seenEffects[k] = struct{}{}
	}

	// payload values
	seenMuscles := make(map[string]struct{}, len(req.Targets))
	for _, t := range req.Targets {
		if t.Muscle == "" {
			return newValidationError("targets", "", "", "muscle is required")
		}
		if _, ok := seenMuscles[t.Muscle]; ok {
			return newValidationError("targets", "", "", fmt.Sprintf("duplicate muscle %q", t.Muscle))
		}
		seenMuscles[t.Muscle] = struct{}{}
		if !isFinite(t.Weight) || t.Weight < 0 {
			return newValidationError("targets", "", "", fmt.Sprintf("weight of %q must be a non-negative number", t.Muscle))
		}
	}
	for _, o := range req.OptionOverrides {
		if o.Label == "" {
			return newValidationError("optionOverrides", o.TemplateID, o.OptionKey, "label is required")
		}
	}
	for _, e := range req.Effects {
		if err := checkEffectValues(e); err != nil {
			return err
		}
	}

	return nil
}

func checkOptionRef(field, templateID, optionKey string, declared map[string]struct{}, registry OptionRegistry) error {
	if _, ok := declared[templateID]; !ok {
		return newValidationError(field, templateID, optionKey, "template is not supported by the exercise")
	}
	if !registry.OptionExists(templateID, optionKey) {
		return newValidationError(field, templateID, optionKey, "option is not an option of the template")
	}
	return nil
}

func checkEffectValues(e VariationEffect) error {
	for muscle, factor := range e.Effect.Multipliers {
		if strings.TrimSpace(muscle) == "" {
			return newValidationError("effects", e.TemplateID, e.OptionKey, "multiplier muscle is required")
		}
		if !isFinite(factor) {
			return newValidationError("effects", e.TemplateID, e.OptionKey, fmt.Sprintf("multiplier for %q must be finite", muscle))
		}
	}
	for muscle, amount := range e.Effect.Deltas {
		if strings.TrimSpace(muscle) == "" {
			return newValidationError("effects", e.TemplateID, e.OptionKey, "delta muscle is required")
		}
		if !isFinite(amount) {
			return newValidationError("effects", e.TemplateID, e.OptionKey, fmt.Sprintf("delta for %q must be finite", muscle))
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ValidateSelection checks that every selected template is supported by the
// exercise and that every option is legal for its template. A partial
// selection is valid. Pairs are checked in template id order so the
// reported pair is deterministic.
func ValidateSelection(def *Definition, selection Selection, registry OptionRegistry) error {
	templateIDs := make([]string, 0, len(selection))
	for templateID := range selection {
		templateIDs = append(templateIDs, templateID)
	}
	slices.Sort(templateIDs)

	for _, templateID := range templateIDs {
		optionKey := selection[templateID]
		if _, ok := def.Support(templateID); !ok {
			return newValidationError("selection", templateID, optionKey, "template is not supported by the exercise")
		}
		if !registry.OptionExists(templateID, optionKey) {
			return newValidationError("selection", templateID, optionKey, "option is not an option of the template")
		}
	}
	return nil
}
