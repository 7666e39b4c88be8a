// Package snapshot persists named, fingerprinted snapshots of arbitrary
// gob-encodable values under a single directory. Payloads are compressed
// with lz4. A snapshot carries the fingerprint of whatever produced it, so
// readers can detect that a snapshot no longer matches its producer.
package snapshot

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("no snapshot under that name")
	ErrStale    = errors.New("snapshot does not match the current fingerprint")
	ErrBadName  = errors.New("snapshot name must not contain path separators")
)

const ext = ".snap"

// Store is a directory of snapshots.
type Store struct {
	dir string
}

// New creates the snapshot directory if needed and returns a store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "unable to create snapshot directory %s", dir)
	}

	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string { return s.dir }

// Path returns the file path a snapshot name maps to.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+ext)
}

// Exists reports whether a snapshot is present under the given name.
func (s *Store) Exists(name string) bool {
	if !validName(name) {
		return false
	}
	_, err := os.Stat(s.Path(name))

	return err == nil
}

// Save writes v under the given name, tagged with the fingerprint. An
// existing snapshot under the same name is overwritten.
func (s *Store) Save(name string, fingerprint uint64, v any) (err error) {
	if !validName(name) {
		return errors.Wrapf(ErrBadName, "%q", name)
	}

	file, err := os.Create(s.Path(name))
	if err != nil {
		return errors.Wrapf(err, "unable to create snapshot %s", name)
	}
	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "unable to close snapshot %s", name)
		}
	}()

	compressor := lz4.NewWriter(file)
	enc := gob.NewEncoder(compressor)
	if err := enc.Encode(fingerprint); err != nil {
		return errors.Wrapf(err, "unable to encode fingerprint for snapshot %s", name)
	}
	if err := enc.Encode(v); err != nil {
		return errors.Wrapf(err, "unable to encode snapshot %s", name)
	}
	if err := compressor.Close(); err != nil {
		return errors.Wrapf(err, "unable to flush snapshot %s", name)
	}

	return nil
}

// Load reads the snapshot under the given name into v. It returns
// ErrNotFound if no snapshot exists and ErrStale if the stored fingerprint
// differs from the one supplied.
func (s *Store) Load(name string, fingerprint uint64, v any) error {
	if !validName(name) {
		return errors.Wrapf(ErrBadName, "%q", name)
	}

	file, err := os.Open(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrNotFound, "%q", name)
		}

		return errors.Wrapf(err, "unable to open snapshot %s", name)
	}
	defer file.Close()

	dec := gob.NewDecoder(lz4.NewReader(file))
	var stored uint64
	if err := dec.Decode(&stored); err != nil {
		return errors.Wrapf(err, "unable to decode fingerprint of snapshot %s", name)
	}
	if stored != fingerprint {
		return errors.Wrapf(ErrStale, "%q", name)
	}
	if err := dec.Decode(v); err != nil {
		return errors.Wrapf(err, "unable to decode snapshot %s", name)
	}

	return nil
}

// Remove deletes the snapshot under the given name, if present.
func (s *Store) Remove(name string) error {
	if !validName(name) {
		return errors.Wrapf(ErrBadName, "%q", name)
	}
	err := os.Remove(s.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "unable to remove snapshot %s", name)
	}

	return nil
}

func validName(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`)
}
