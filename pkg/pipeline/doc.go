// Package pipeline runs ordered sequences of named data-transformation
// steps against an in-memory tabular dataset.
//
// A pipeline is declared as a list of step settings: single-entry mappings
// from an operation name to its named arguments. Settings are plain data
// and can be written literally, loaded from a YAML file, inspected, logged
// and edited in place. At construction every setting is resolved against
// the pipeline's operation registry into a bound closure, so a pipeline
// that exists is guaranteed to be runnable: malformed settings, unknown
// operations and bad arguments are rejected eagerly, never at run time.
//
// The pipeline owns its dataset and a cursor counting the steps committed
// so far. Run executes all remaining steps in order; RunSteps executes a
// bounded number, which makes pipelines resumable. With a cache configured,
// RunOrLoad skips execution entirely when a snapshot of a previous run is
// still valid for the current settings, and re-runs otherwise.
package pipeline
