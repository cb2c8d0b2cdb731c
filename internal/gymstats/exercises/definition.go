package exercises

import (
	"maps"
	"slices"
	"time"

	"github.com/2beens/gymvariations/internal/gymstats/variations"
)

// SystemOwner owns the built-in exercises, which are visible to everybody.
const SystemOwner = "system"

var Category = struct {
	UpperBody string
	LowerBody string
	Core      string
	Cardio    string
}{
	UpperBody: "upperBody",
	LowerBody: "lowerBody",
	Core:      "core",
	Cardio:    "cardio",
}

var Categories = []string{
	Category.UpperBody,
	Category.LowerBody,
	Category.Core,
	Category.Cardio,
}

var RepMode = struct {
	Bilateral      string
	DualUnilateral string
}{
	Bilateral:      "bilateral",
	DualUnilateral: "dualUnilateral",
}

var RepModes = []string{
	RepMode.Bilateral,
	RepMode.DualUnilateral,
}

// Selection maps a template id to the chosen option key.
type Selection map[string]string

// MuscleWeights maps a muscle to its share of the work.
type MuscleWeights map[string]float64

type TargetWeight struct {
	Muscle string  `json:"muscle"`
	Weight float64 `json:"weight"`
}

type VariationSupport struct {
	TemplateID       string `json:"templateId"`
	LabelOverride    string `json:"labelOverride,omitempty"`
	DefaultOptionKey string `json:"defaultOptionKey,omitempty"`
}

type OptionLabelOverride struct {
	TemplateID string `json:"templateId"`
	OptionKey  string `json:"optionKey"`
	Label      string `json:"label"`
}

// Effect adjusts the base targets when an option is selected.
// Multipliers scale muscles already targeted, deltas add on top.
type Effect struct {
	Multipliers map[string]float64 `json:"multipliers"`
	Deltas      map[string]float64 `json:"deltas"`
}

type VariationEffect struct {
	TemplateID string `json:"templateId"`
	OptionKey  string `json:"optionKey"`
	Effect     Effect `json:"effect"`
}

// Definition is the exercise aggregate. It is always loaded and written whole.
type Definition struct {
	ID       string `json:"id"`
	Owner    string `json:"owner"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Category string `json:"category"`
	RepMode  string `json:"repMode"`

	Targets         []TargetWeight        `json:"targets"`
	Supports        []VariationSupport    `json:"supports"`
	OptionOverrides []OptionLabelOverride `json:"optionOverrides"`
	Effects         []VariationEffect     `json:"effects"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *Definition) VisibleTo(owner string) bool {
	return d.Owner == SystemOwner || d.Owner == owner
}

func (d *Definition) Support(templateID string) (VariationSupport, bool) {
	for _, s := range d.Supports {
		if s.TemplateID == templateID {
			return s, true
		}
	}
	return VariationSupport{}, false
}

func (d *Definition) effect(templateID, optionKey string) (Effect, bool) {
	for _, e := range d.Effects {
		if e.TemplateID == templateID && e.OptionKey == optionKey {
			return e.Effect, true
		}
	}
	return Effect{}, false
}

func (d *Definition) optionLabelOverride(templateID, optionKey string) (string, bool) {
	for _, o := range d.OptionOverrides {
		if o.TemplateID == templateID && o.OptionKey == optionKey {
			return o.Label, true
		}
	}
	return "", false
}

func (d *Definition) Clone() *Definition {
	if d == nil {
		return nil
	}
	c := *d
	c.Targets = slices.Clone(d.Targets)
	c.Supports = slices.Clone(d.Supports)
	c.OptionOverrides = slices.Clone(d.OptionOverrides)
	c.Effects = make([]VariationEffect, 0, len(d.Effects))
	for _, e := range d.Effects {
		e.Effect = Effect{
			Multipliers: maps.Clone(e.Effect.Multipliers),
			Deltas:      maps.Clone(e.Effect.Deltas),
		}
		c.Effects = append(c.Effects, e)
	}
	return &c
}

type ResolvedOption struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	HasEffect   bool   `json:"hasEffect"`
}

type ResolvedVariation struct {
	TemplateID       string           `json:"templateId"`
	Label            string           `json:"label"`
	DefaultOptionKey string           `json:"defaultOptionKey,omitempty"`
	Options          []ResolvedOption `json:"options"`
}

// Variations lists the supported templates with exercise specific labels applied,
// in support declaration order. Templates unknown to the registry are skipped.
func (d *Definition) Variations(registry *variations.Registry) []ResolvedVariation {
	resolved := make([]ResolvedVariation, 0, len(d.Supports))
	for _, s := range d.Supports {
		tpl, err := registry.GetTemplate(s.TemplateID)
		if err != nil {
			continue
		}

		rv := ResolvedVariation{
			TemplateID:       s.TemplateID,
			Label:            tpl.Label,
			DefaultOptionKey: s.DefaultOptionKey,
			Options:          make([]ResolvedOption, 0, len(tpl.Options)),
		}
		if s.LabelOverride != "" {
			rv.Label = s.LabelOverride
		}

		for _, opt := range tpl.Options {
			ro := ResolvedOption{
				Key:         opt.Key,
				Label:       opt.Label,
				Description: opt.Description,
			}
			if label, ok := d.optionLabelOverride(s.TemplateID, opt.Key); ok {
				ro.Label = label
			}
			_, ro.HasEffect = d.effect(s.TemplateID, opt.Key)
			rv.Options = append(rv.Options, ro)
		}

		resolved = append(resolved, rv)
	}
	return resolved
}
