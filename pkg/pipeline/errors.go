package pipeline

import "github.com/pkg/errors"

var (
	ErrMalformedStep       = errors.New("step setting must contain exactly one operation")
	ErrInvalidStepName     = errors.New("operation name must be a string")
	ErrInvalidArgumentName = errors.New("argument names must be strings")
	ErrUnknownOperation    = errors.New("operation is not in the pipeline registry")
	ErrUnexpectedArgument  = errors.New("argument is not declared by the operation")
	ErrMissingArgument     = errors.New("required argument is missing")
	ErrArgumentType        = errors.New("argument value has the wrong type")
	ErrConfigFormat        = errors.New("config file has no pipeline section")
	ErrNoCacheConfigured   = errors.New("no cache configured for this pipeline")
	ErrNoDrawerConfigured  = errors.New("no drawer configured for this pipeline")
	ErrIndexRange          = errors.New("step index out of range")
)
