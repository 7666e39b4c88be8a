package pipeline

import "github.com/pkg/errors"

// FrameRegistry returns the built-in operations over the pipeline's frame.
// Callers merge their own operations into the returned map to build a
// concrete pipeline variant.
func FrameRegistry() Registry {
	return Registry{
		"downcast": {
			Params: []Param{{Name: "signed_columns", Kind: KindSeq}},
			Do: func(p *Pipeline, args Args) error {
				signed, _ := args.Strings("signed_columns")
				before, after := p.frame.Downcast(signed)
				p.logger.Info("downcast frame", "bytes_before", before, "bytes_after", after)

				return nil
			},
		},
		"reorder_column": {
			Params: []Param{
				{Name: "column", Kind: KindAny, Required: true},
				{Name: "index", Kind: KindInt, Required: true},
			},
			Do: func(p *Pipeline, args Args) error {
				columns, ok := args.Strings("column")
				if !ok {
					return errors.Wrap(ErrArgumentType, "column must be a string or a sequence of strings")
				}
				index, _ := args.Int("index")

				return p.frame.ReorderColumns(columns, index)
			},
		},
		"drop_single_value_columns": {
			Params: []Param{{Name: "skip_columns", Kind: KindAny}},
			Do: func(p *Pipeline, args Args) error {
				skip, _ := args.Strings("skip_columns")
				dropped := p.frame.DropSingleValueColumns(skip)
				if len(dropped) == 0 {
					p.logger.Info("no columns dropped, could not find a column with only a single value")

					return nil
				}
				p.logger.Info("dropped columns containing only a single value", "columns", dropped)

				return nil
			},
		},
		"factorize_columns": {
			Params: []Param{{Name: "columns", Kind: KindAny, Required: true}},
			Do: func(p *Pipeline, args Args) error {
				columns, ok := args.Strings("columns")
				if !ok {
					return errors.Wrap(ErrArgumentType, "columns must be a string or a sequence of strings")
				}

				return p.frame.Factorize(columns)
			},
		},
		"fill_nans": {
			Params: []Param{
				{Name: "value", Kind: KindAny, Required: true},
				{Name: "columns", Kind: KindAny},
			},
			Do: func(p *Pipeline, args Args) error {
				value, _ := args.Value("value")
				columns, _ := args.Strings("columns")

				return p.frame.FillNaNs(value, columns)
			},
		},
		"drop_nan_rows": {
			Do: func(p *Pipeline, args Args) error {
				p.frame.DropNaNRows()

				return nil
			},
		},
	}
}
