package frame

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
)

// Wire shape for gob. Kept separate from the public types so the internal
// representation can change without breaking existing snapshots.
type columnData struct {
	Name       string
	Kind       Kind
	Ints       []int64
	Floats     []float64
	Strings    []string
	Bools      []bool
	Valid      []bool
	Width      uint8
	Unsigned   bool
	Categories []string
}

type frameData struct {
	Columns []columnData
}

// GobEncode implements gob.GobEncoder.
func (f *Frame) GobEncode() ([]byte, error) {
	data := frameData{Columns: make([]columnData, len(f.cols))}
	for i, col := range f.cols {
		data.Columns[i] = columnData{
			Name:       col.name,
			Kind:       col.kind,
			Ints:       col.ints,
			Floats:     col.floats,
			Strings:    col.strs,
			Bools:      col.bools,
			Valid:      col.valid,
			Width:      col.width,
			Unsigned:   col.unsigned,
			Categories: col.categories,
		}
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, errors.Wrap(err, "unable to encode frame")
	}

	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (f *Frame) GobDecode(raw []byte) error {
	var data frameData
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&data); err != nil {
		return errors.Wrap(err, "unable to decode frame")
	}

	f.cols = make([]*Column, len(data.Columns))
	for i, col := range data.Columns {
		f.cols[i] = &Column{
			name:       col.Name,
			kind:       col.Kind,
			ints:       col.Ints,
			floats:     col.Floats,
			strs:       col.Strings,
			bools:      col.Bools,
			valid:      col.Valid,
			width:      col.Width,
			unsigned:   col.Unsigned,
			categories: col.Categories,
		}
	}

	return nil
}
