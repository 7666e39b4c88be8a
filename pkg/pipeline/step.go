package pipeline

import "github.com/pkg/errors"

// Setting is a step descriptor: a single-entry mapping from an operation
// name to its named arguments, or to nil when the operation takes none.
// The key type is deliberately loose so settings parsed from configuration
// files can be validated rather than silently coerced.
type Setting map[any]any

// resolvedStep is the executable form of a Setting: a zero-argument closure
// binding the pipeline, the operation and its fixed arguments. The pipeline
// keeps resolved steps index-aligned with settings and regenerates them on
// every settings mutation.
type resolvedStep struct {
	name string
	call func() error
}

// resolveStep validates one setting and binds it to the pipeline. All
// descriptor-shape failures happen here, at construction or mutation time,
// so a pipeline that exists cannot fail on descriptor shape during a run.
func resolveStep(p *Pipeline, setting Setting) (resolvedStep, error) {
	if len(setting) != 1 {
		return resolvedStep{}, errors.Wrapf(ErrMalformedStep, "got %d entries", len(setting))
	}

	var rawName, rawArgs any
	for k, v := range setting {
		rawName, rawArgs = k, v
	}

	name, ok := rawName.(string)
	if !ok {
		return resolvedStep{}, errors.Wrapf(ErrInvalidStepName, "got %v (%T)", rawName, rawName)
	}

	args, err := stepArgs(name, rawArgs)
	if err != nil {
		return resolvedStep{}, err
	}

	op, ok := p.registry[name]
	if !ok {
		return resolvedStep{}, errors.Wrapf(ErrUnknownOperation, "%q", name)
	}

	if err := validateArgs(name, op, args); err != nil {
		return resolvedStep{}, err
	}

	return resolvedStep{
		name: name,
		call: func() error { return op.Do(p, args) },
	}, nil
}

func stepArgs(name string, raw any) (Args, error) {
	switch m := raw.(type) {
	case nil:
		return nil, nil
	case Args:
		return m, nil
	case map[string]any:
		return Args(m), nil
	case map[any]any:
		args := make(Args, len(m))
		for k, v := range m {
			key, ok := k.(string)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidArgumentName, "operation %q: got %v (%T)", name, k, k)
			}
			args[key] = v
		}

		return args, nil
	default:
		return nil, errors.Wrapf(ErrMalformedStep, "arguments of operation %q must be a mapping, got %T", name, raw)
	}
}

func validateArgs(name string, op Operation, args Args) error {
	declared := make(map[string]Param, len(op.Params))
	for _, param := range op.Params {
		declared[param.Name] = param
	}

	for argName, value := range args {
		param, ok := declared[argName]
		if !ok {
			return errors.Wrapf(ErrUnexpectedArgument, "operation %q does not accept %q", name, argName)
		}
		if !kindMatches(value, param.Kind) {
			return errors.Wrapf(ErrArgumentType, "argument %q of operation %q wants %s, got %T", argName, name, param.Kind, value)
		}
	}

	for _, param := range op.Params {
		if !param.Required {
			continue
		}
		if _, ok := args[param.Name]; !ok {
			return errors.Wrapf(ErrMissingArgument, "operation %q needs %q", name, param.Name)
		}
	}

	return nil
}
