package variations

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/BurntSushi/toml"
)

var ErrTemplateNotFound = errors.New("variation template not found")

//go:embed templates.toml
var builtinTemplatesTOML string

// Option is one legal value of a variation template, e.g. "neutral" within "grip".
type Option struct {
	Key         string `json:"key" toml:"key"`
	Label       string `json:"label" toml:"label"`
	Description string `json:"description,omitempty" toml:"description"`
	Order       int    `json:"order" toml:"order"`
}

// Template is a reusable variation dimension with an enumerated set of options.
type Template struct {
	ID          string   `json:"id" toml:"id"`
	Label       string   `json:"label" toml:"label"`
	Description string   `json:"description,omitempty" toml:"description"`
	Options     []Option `json:"options" toml:"options"`
}

func (t Template) clone() Template {
	t.Options = slices.Clone(t.Options)
	return t
}

type templatesFile struct {
	Templates []Template `toml:"templates"`
}

// Registry holds the variation templates known to the process.
// It is built once and never mutated, so reads need no locking.
type Registry struct {
	templates []Template
	byID      map[string]int
	options   map[string]map[string]int
}

func NewRegistry(templates ...Template) (*Registry, error) {
	r := &Registry{
		templates: make([]Template, 0, len(templates)),
		byID:      make(map[string]int, len(templates)),
		options:   make(map[string]map[string]int, len(templates)),
	}

	for _, t := range templates {
		if t.ID == "" {
			return nil, errors.New("template id empty")
		}
		if _, ok := r.byID[t.ID]; ok {
			return nil, fmt.Errorf("duplicate template [%s]", t.ID)
		}
		if len(t.Options) == 0 {
			return nil, fmt.Errorf("template [%s] has no options", t.ID)
		}

		t = t.clone()
		slices.SortStableFunc(t.Options, func(a, b Option) int {
			return a.Order - b.Order
		})

		keys := make(map[string]int, len(t.Options))
		for i, opt := range t.Options {
			if opt.Key == "" {
				return nil, fmt.Errorf("template [%s] has an option with empty key", t.ID)
			}
			if _, ok := keys[opt.Key]; ok {
				return nil, fmt.Errorf("template [%s] has duplicate option [%s]", t.ID, opt.Key)
			}
			keys[opt.Key] = i
		}

		r.byID[t.ID] = len(r.templates)
		r.options[t.ID] = keys
		r.templates = append(r.templates, t)
	}

	return r, nil
}

func (r *Registry) GetTemplate(templateID string) (Template, error) {
	i, ok := r.byID[templateID]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
	}
	return r.templates[i].clone(), nil
}

func (r *Registry) HasTemplate(templateID string) bool {
	_, ok := r.byID[templateID]
	return ok
}

func (r *Registry) OptionExists(templateID, optionKey string) bool {
	keys, ok := r.options[templateID]
	if !ok {
		return false
	}
	_, ok = keys[optionKey]
	return ok
}

// OptionLabel returns the registry label of an option, without any
// exercise specific override applied.
func (r *Registry) OptionLabel(templateID, optionKey string) (string, bool) {
	keys, ok := r.options[templateID]
	if !ok {
		return "", false
	}
	i, ok := keys[optionKey]
	if !ok {
		return "", false
	}
	return r.templates[r.byID[templateID]].Options[i].Label, true
}

// Templates returns all templates in declaration order, options sorted by Order.
func (r *Registry) Templates() []Template {
	templates := make([]Template, 0, len(r.templates))
	for _, t := range r.templates {
		templates = append(templates, t.clone())
	}
	return templates
}

var builtinTemplates = sync.OnceValue(func() []Template {
	templates, err := decodeTemplates(builtinTemplatesTOML)
	if err != nil {
		panic(fmt.Sprintf("decode builtin variation templates: %s", err))
	}
	return templates
})

// Builtin returns a copy of the templates shipped with the service.
func Builtin() []Template {
	builtin := builtinTemplates()
	templates := make([]Template, 0, len(builtin))
	for _, t := range builtin {
		templates = append(templates, t.clone())
	}
	return templates
}

func decodeTemplates(data string) ([]Template, error) {
	var f templatesFile
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, err
	}
	return f.Templates, nil
}

// LoadFile reads extra templates from an operator supplied TOML file.
func LoadFile(path string) ([]Template, error) {
	var f templatesFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decode templates file [%s]: %w", path, err)
	}
	return f.Templates, nil
}

// MergeTemplates appends new templates from extra to base. A template in extra
// that reuses an id from base replaces it, but only if it keeps every option
// key of the base template; options may be added, never removed.
func MergeTemplates(base, extra []Template) ([]Template, error) {
	merged := make([]Template, 0, len(base)+len(extra))
	index := make(map[string]int, len(base)+len(extra))
	for _, t := range base {
		index[t.ID] = len(merged)
		merged = append(merged, t.clone())
	}

	for _, t := range extra {
		i, ok := index[t.ID]
		if !ok {
			index[t.ID] = len(merged)
			merged = append(merged, t.clone())
			continue
		}

		existing := merged[i]
		for _, opt := range existing.Options {
			if !slices.ContainsFunc(t.Options, func(o Option) bool { return o.Key == opt.Key }) {
				return nil, fmt.Errorf("template [%s] redefinition drops option [%s]", t.ID, opt.Key)
			}
		}
		merged[i] = t.clone()
	}

	return merged, nil
}

// NewDefaultRegistry builds the registry from the built-in templates, merged
// with the templates in extraPath when it is set.
func NewDefaultRegistry(extraPath string) (*Registry, error) {
	templates := Builtin()
	if extraPath != "" {
		extra, err := LoadFile(extraPath)
		if err != nil {
			return nil, err
		}
		templates, err = MergeTemplates(templates, extra)
		if err != nil {
			return nil, fmt.Errorf("merge templates: %w", err)
		}
	}
	return NewRegistry(templates...)
}
