package pipeline

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/pkg/errors"

	"github.com/adcdata/go-pipeline/internal/snapshot"
	"github.com/adcdata/go-pipeline/pkg/config"
	"github.com/adcdata/go-pipeline/pkg/frame"
)

// Pipeline is an ordered, editable sequence of named operations over a
// frame it exclusively owns. The settings list is the declarative program;
// the resolved list is its executable form. The two are kept index-aligned
// by every mutation, and execution always goes through the resolved form.
type Pipeline struct {
	registry  Registry
	settings  []Setting
	resolved  []resolvedStep
	frame     *frame.Frame
	cursor    int
	cache     *snapshot.Store
	cacheName string
	logger    *slog.Logger
	measure   *measure
	drawFile  string
}

// New builds a pipeline over the given frame. Every setting is resolved
// eagerly against the registry; any invalid setting aborts construction.
// A nil frame means an empty dataset.
func New(f *frame.Frame, reg Registry, settings []Setting, opts ...Option) (*Pipeline, error) {
	if f == nil {
		f = &frame.Frame{}
	}

	p := &Pipeline{
		registry: reg,
		frame:    f,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	if err := p.setSettings(settings); err != nil {
		return nil, err
	}

	return p, nil
}

// FromYAMLFile builds a pipeline from the `pipeline` key of a YAML file:
//
//	pipeline:
//	  - <operation_name>: {<argument_name>: <argument_value>}
//	  - <operation_name>:
//	  - ...
func FromYAMLFile(f *frame.Frame, reg Registry, path string, opts ...Option) (*Pipeline, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	raw, ok := cfg["pipeline"]
	if !ok {
		return nil, errors.Wrapf(ErrConfigFormat, "missing %q key in %s", "pipeline", path)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, errors.Wrapf(ErrConfigFormat, "%q key in %s is not a sequence", "pipeline", path)
	}

	settings := make([]Setting, 0, len(list))
	for i, item := range list {
		setting, err := settingFromRaw(item)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline entry %d in %s", i, path)
		}
		settings = append(settings, setting)
	}

	return New(f, reg, settings, opts...)
}

func settingFromRaw(item any) (Setting, error) {
	switch m := item.(type) {
	case Setting:
		return m, nil
	case map[any]any:
		return Setting(m), nil
	case map[string]any:
		setting := make(Setting, len(m))
		for k, v := range m {
			setting[k] = v
		}

		return setting, nil
	default:
		return nil, errors.Wrapf(ErrMalformedStep, "expected a mapping, got %T", item)
	}
}

// setSettings resolves the whole list before committing either side, so a
// failure leaves the pipeline untouched.
func (p *Pipeline) setSettings(settings []Setting) error {
	resolved := make([]resolvedStep, 0, len(settings))
	for i, setting := range settings {
		step, err := resolveStep(p, setting)
		if err != nil {
			return errors.Wrapf(err, "step %d", i)
		}
		resolved = append(resolved, step)
	}

	p.settings = slices.Clone(settings)
	p.resolved = resolved

	return nil
}

// Frame returns the dataset the pipeline owns.
func (p *Pipeline) Frame() *frame.Frame { return p.frame }

// SetFrame replaces the dataset. Step implementations use it to swap the
// frame rather than mutate it in place.
func (p *Pipeline) SetFrame(f *frame.Frame) {
	if f == nil {
		f = &frame.Frame{}
	}
	p.frame = f
}

// Cursor returns the number of steps committed so far.
func (p *Pipeline) Cursor() int { return p.cursor }

// Reset moves the cursor back to the start without touching the dataset.
func (p *Pipeline) Reset() { p.cursor = 0 }

// Len returns the number of steps.
func (p *Pipeline) Len() int { return len(p.settings) }

// At returns the setting at position i.
func (p *Pipeline) At(i int) (Setting, error) {
	if i < 0 || i >= len(p.settings) {
		return nil, errors.Wrapf(ErrIndexRange, "index %d with %d steps", i, len(p.settings))
	}

	return p.settings[i], nil
}

// Settings returns a copy of the settings list.
func (p *Pipeline) Settings() []Setting {
	return slices.Clone(p.settings)
}

// All returns a forward traversal over the current settings. Each call
// produces a fresh traversal.
func (p *Pipeline) All() iter.Seq[Setting] {
	return func(yield func(Setting) bool) {
		for _, setting := range p.settings {
			if !yield(setting) {
				return
			}
		}
	}
}

// Backward returns a reverse traversal over the current settings.
func (p *Pipeline) Backward() iter.Seq[Setting] {
	return func(yield func(Setting) bool) {
		for i := len(p.settings) - 1; i >= 0; i-- {
			if !yield(p.settings[i]) {
				return
			}
		}
	}
}

// SetAt replaces the setting at position i, re-resolving it. An invalid
// setting fails the whole mutation and leaves both lists unchanged.
func (p *Pipeline) SetAt(i int, setting Setting) error {
	if i < 0 || i >= len(p.settings) {
		return errors.Wrapf(ErrIndexRange, "index %d with %d steps", i, len(p.settings))
	}
	step, err := resolveStep(p, setting)
	if err != nil {
		return errors.Wrapf(err, "step %d", i)
	}
	p.settings[i] = setting
	p.resolved[i] = step

	return nil
}

// Insert adds a setting at position i, shifting later steps. Inserting
// before the cursor shifts it forward by one so the committed steps and the
// remaining work are unchanged; a step inserted at the cursor is the next
// one to run.
func (p *Pipeline) Insert(i int, setting Setting) error {
	if i < 0 || i > len(p.settings) {
		return errors.Wrapf(ErrIndexRange, "index %d with %d steps", i, len(p.settings))
	}
	step, err := resolveStep(p, setting)
	if err != nil {
		return errors.Wrapf(err, "step %d", i)
	}
	p.settings = slices.Insert(p.settings, i, setting)
	p.resolved = slices.Insert(p.resolved, i, step)
	if i < p.cursor {
		p.cursor++
	}

	return nil
}

// Delete removes the setting at position i. Deleting an already-committed
// step moves the cursor back by one so the remaining work is unchanged.
func (p *Pipeline) Delete(i int) error {
	if i < 0 || i >= len(p.settings) {
		return errors.Wrapf(ErrIndexRange, "index %d with %d steps", i, len(p.settings))
	}
	p.settings = slices.Delete(p.settings, i, i+1)
	p.resolved = slices.Delete(p.resolved, i, i+1)
	if i < p.cursor {
		p.cursor--
	}

	return nil
}

// String renders the settings list.
func (p *Pipeline) String() string {
	return fmt.Sprintf("%v", p.settings)
}
