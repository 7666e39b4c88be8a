package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adcdata/go-pipeline/pkg/frame"
	"github.com/adcdata/go-pipeline/pkg/pipeline"
)

// testRegistry extends the built-in frame operations with the operations
// the tests drive. The counter, when not nil, is incremented by every
// square_all_elements execution so tests can observe whether steps ran.
func testRegistry(counter *int) pipeline.Registry {
	reg := pipeline.FrameRegistry()
	reg["square_all_elements"] = pipeline.Operation{
		Do: func(p *pipeline.Pipeline, _ pipeline.Args) error {
			if counter != nil {
				*counter++
			}
			for _, col := range p.Frame().Columns() {
				switch col.Kind() {
				case frame.Int:
					values := col.Ints()
					for i := range values {
						values[i] *= values[i]
					}
				case frame.Float:
					values := col.Floats()
					for i := range values {
						values[i] *= values[i]
					}
				}
			}

			return nil
		},
	}
	reg["print_text_from_argument"] = pipeline.Operation{
		Params: []pipeline.Param{{Name: "text", Kind: pipeline.KindAny}},
		Do: func(p *pipeline.Pipeline, args pipeline.Args) error {
			text, _ := args.Value("text")
			_ = text

			return nil
		},
	}
	reg["print_predefined_text"] = pipeline.Operation{
		Do: func(p *pipeline.Pipeline, _ pipeline.Args) error {
			return nil
		},
	}
	reg["n_times_squared"] = pipeline.Operation{
		Params: []pipeline.Param{
			{Name: "value", Kind: pipeline.KindInt, Required: true},
			{Name: "n", Kind: pipeline.KindInt, Required: true},
		},
		Do: func(p *pipeline.Pipeline, args pipeline.Args) error {
			value, _ := args.Int("value")
			n, _ := args.Int("n")
			result := value
			for i := 0; i < n; i++ {
				result *= result
			}
			_ = result

			return nil
		},
	}

	return reg
}

// testData builds the dataset [[1,2,3],[4,5,6]].
func testData(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.FromRows([]string{"0", "1", "2"}, [][]any{
		{1, 2, 3},
		{4, 5, 6},
	})
	require.NoError(t, err)

	return f
}

// squaredOnce is testData after one square_all_elements.
func squaredOnce(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.FromRows([]string{"0", "1", "2"}, [][]any{
		{1, 4, 9},
		{16, 25, 36},
	})
	require.NoError(t, err)

	return f
}

// squaredTwice is testData after two square_all_elements.
func squaredTwice(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.FromRows([]string{"0", "1", "2"}, [][]any{
		{1, 16, 81},
		{256, 625, 1296},
	})
	require.NoError(t, err)

	return f
}
