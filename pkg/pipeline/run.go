package pipeline

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"github.com/adcdata/go-pipeline/internal/snapshot"
	"github.com/adcdata/go-pipeline/pkg/frame"
	"github.com/adcdata/go-pipeline/pkg/pipeline/drawer"
)

// Run executes all remaining steps in order.
func (p *Pipeline) Run() error {
	return p.RunSteps(len(p.resolved) - p.cursor)
}

// RunSteps executes at most n steps starting at the cursor, advancing it by
// every completed step. A step failure propagates with the cursor left at
// the last committed step. A fully-advanced pipeline does no work. When the
// run completes the whole list and a cache is configured, the dataset is
// snapshotted under the cache name.
func (p *Pipeline) RunSteps(n int) error {
	if n < 0 {
		return errors.Wrapf(ErrIndexRange, "step count %d", n)
	}

	total := len(p.resolved)
	if p.cursor >= total {
		p.logger.Info("pipeline already fully advanced, nothing to run", "steps", total)

		return nil
	}

	end := min(p.cursor+n, total)
	p.logger.Info("running pipeline", "settings", p.String(), "from", p.cursor, "to", end)

	for p.cursor < end {
		step := p.resolved[p.cursor]
		start := time.Now()
		if err := step.call(); err != nil {
			return errors.Wrapf(err, "step %d (%s)", p.cursor, step.name)
		}
		if p.measure != nil {
			p.measure.add(step.name, time.Since(start))
		}
		p.cursor++
	}

	if p.cursor == total {
		return p.persist(p.cacheName, total)
	}

	return nil
}

// RunOrLoad loads the dataset from the cache snapshot when one exists for
// the current settings, skipping execution entirely; the cursor is not
// advanced, the loaded dataset is trusted as equivalent to a full run.
// Otherwise it runs everything and persists the result. A snapshot written
// for a different settings list counts as a miss and is overwritten.
func (p *Pipeline) RunOrLoad() error {
	if p.cache == nil {
		return errors.Wrap(ErrNoCacheConfigured, "load-or-run needs a cache")
	}

	if loaded, err := p.loadSnapshot(p.cacheName, len(p.settings)); err != nil {
		return err
	} else if loaded {
		return nil
	}

	return p.Run()
}

// RunOrLoadFromStep is the per-step variant of RunOrLoad: the snapshot is
// taken at the given step boundary under `<name>_step<i>`. On a hit the
// boundary dataset is loaded, the cursor moves to the boundary and only the
// remaining steps run. On a miss the steps before the boundary run first
// and their result is snapshotted before the rest of the pipeline runs.
func (p *Pipeline) RunOrLoadFromStep(step int) error {
	if p.cache == nil {
		return errors.Wrap(ErrNoCacheConfigured, "load-or-run needs a cache")
	}
	if step < 0 || step > len(p.settings) {
		return errors.Wrapf(ErrIndexRange, "step boundary %d with %d steps", step, len(p.settings))
	}

	name := fmt.Sprintf("%s_step%d", p.cacheName, step)
	if loaded, err := p.loadSnapshot(name, step); err != nil {
		return err
	} else if loaded {
		p.cursor = step

		return p.Run()
	}

	if p.cursor < step {
		if err := p.RunSteps(step - p.cursor); err != nil {
			return err
		}
		if err := p.persist(name, step); err != nil {
			return err
		}
	}

	return p.Run()
}

// loadSnapshot reads the named snapshot into the pipeline's frame when it
// exists and matches the fingerprint of the first `steps` settings.
func (p *Pipeline) loadSnapshot(name string, steps int) (bool, error) {
	var f frame.Frame
	err := p.cache.Load(name, p.fingerprint(steps), &f)
	switch {
	case err == nil:
		p.logger.Info("loaded dataset from cache", "name", name)
		p.frame = &f

		return true, nil
	case errors.Is(err, snapshot.ErrNotFound):
		p.logger.Info("cache not available, running pipeline", "name", name)

		return false, nil
	case errors.Is(err, snapshot.ErrStale):
		p.logger.Warn("cache no longer matches the pipeline settings, running pipeline", "name", name)

		return false, nil
	default:
		return false, err
	}
}

func (p *Pipeline) persist(name string, steps int) error {
	if p.cache == nil {
		return nil
	}
	if err := p.cache.Save(name, p.fingerprint(steps), p.frame); err != nil {
		return errors.Wrap(err, "unable to snapshot dataset")
	}
	p.logger.Info("snapshotted dataset", "name", name)

	return nil
}

// fingerprint hashes the first `steps` settings. Snapshots carry it so a
// settings edit invalidates any snapshot taken for the old program.
func (p *Pipeline) fingerprint(steps int) uint64 {
	digest := xxhash.New()
	for i := 0; i < steps; i++ {
		// fmt renders map entries in sorted key order, which makes
		// the rendering canonical.
		fmt.Fprintf(digest, "%d:%v\n", i, p.settings[i])
	}

	return digest.Sum64()
}

// Draw renders the step sequence as a DOT graph to the configured file,
// coloring committed steps differently from pending ones.
func (p *Pipeline) Draw() error {
	if p.drawFile == "" {
		return errors.Wrap(ErrNoDrawerConfigured, "draw needs a file name")
	}

	d := drawer.New(p.drawFile)
	prev := ""
	for i, step := range p.resolved {
		label := fmt.Sprintf("%d: %s", i, step.name)
		if err := d.AddStep(label, i < p.cursor); err != nil {
			return err
		}
		if prev != "" {
			if err := d.AddLink(prev, label); err != nil {
				return err
			}
		}
		prev = label
	}

	return d.Draw()
}
