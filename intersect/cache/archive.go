package cache

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/achilleasa/strokedensity/intersect"
	"github.com/achilleasa/strokedensity/log"
	"github.com/klauspost/compress/flate"
)

const (
	metaFile     = "meta.gob"
	locationFile = "loc.gob"
	rayIndexFile = "ray_idx.gob"

	// Bumped whenever the archive layout changes.
	formatVersion = 1
)

var (
	ErrMissingEntry       = errors.New("cache: archive is missing a required entry")
	ErrUnsupportedVersion = errors.New("cache: unsupported archive version")
)

// ArchiveInfo describes the contents of a cache archive.
type ArchiveInfo struct {
	Version   int
	NumRays   int
	Crossings int
	Created   time.Time
}

// ArchiveStore keeps one zip archive per key inside a directory. Keys that
// are absolute paths are used as is.
//
// Writes go through a temporary file that is renamed into place, so readers
// never observe a partial archive. Concurrent writers of the same key are
// not coordinated; the last rename wins.
type ArchiveStore struct {
	logger log.Logger
	dir    string
}

// NewArchiveStore creates a store rooted at dir. An empty dir resolves keys
// relative to the working directory.
func NewArchiveStore(dir string) *ArchiveStore {
	return &ArchiveStore{
		logger: log.New("cache archive"),
		dir:    dir,
	}
}

// Path returns the archive file used for key.
func (s *ArchiveStore) Path(key string) string {
	if filepath.IsAbs(key) || s.dir == "" {
		return key
	}
	return filepath.Join(s.dir, key)
}

// Get implements intersect.Store.
func (s *ArchiveStore) Get(key string) (*intersect.Raw, bool, error) {
	path := s.Path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}

	start := time.Now()
	raw, _, err := decodeArchive(data)
	if err != nil {
		return nil, false, fmt.Errorf("cache: failed to load %q: %w", path, err)
	}

	s.logger.Debugf(`loaded %d crossings from "%s" in %d ms`, raw.Len(), path, time.Since(start).Nanoseconds()/1e6)
	return raw, true, nil
}

// Put implements intersect.Store.
func (s *ArchiveStore) Put(key string, raw *intersect.Raw) error {
	path := s.Path(key)
	start := time.Now()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile.Name())

	if err = encodeArchive(tmpFile, raw); err != nil {
		tmpFile.Close()
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmpFile.Name(), path); err != nil {
		return err
	}

	s.logger.Debugf(`wrote %d crossings to "%s" in %d ms`, raw.Len(), path, time.Since(start).Nanoseconds()/1e6)
	return nil
}

// ReadArchiveInfo reads the metadata of the archive at path without keeping
// the decoded crossings around.
func ReadArchiveInfo(path string) (*ArchiveInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	_, info, err := decodeArchive(data)
	if err != nil {
		return nil, fmt.Errorf("cache: failed to load %q: %w", path, err)
	}
	return info, nil
}

func encodeArchive(w io.Writer, raw *intersect.Raw) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})

	entries := []struct {
		name string
		data interface{}
	}{
		{metaFile, &ArchiveInfo{
			Version:   formatVersion,
			NumRays:   raw.NumRays,
			Crossings: raw.Len(),
			Created:   time.Now().UTC(),
		}},
		{locationFile, raw.Locations},
		{rayIndexFile, raw.RayIndex},
	}
	for _, entry := range entries {
		cw, err := zw.Create(entry.name)
		if err != nil {
			return err
		}
		if err = gob.NewEncoder(cw).Encode(entry.data); err != nil {
			return err
		}
	}
	return zw.Close()
}

func decodeArchive(data []byte) (*intersect.Raw, *ArchiveInfo, error) {
	// zip requires an io.ReaderAt so the archive is decoded from memory
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, err
	}
	zr.RegisterDecompressor(zip.Deflate, flate.NewReader)

	var (
		info  *ArchiveInfo
		raw   = &intersect.Raw{}
		found = make(map[string]bool)
	)
	for _, f := range zr.File {
		var target interface{}
		switch f.Name {
		case metaFile:
			info = &ArchiveInfo{}
			target = info
		case locationFile:
			target = &raw.Locations
		case rayIndexFile:
			target = &raw.RayIndex
		default:
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, nil, err
		}
		err = gob.NewDecoder(rc).Decode(target)
		rc.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		found[f.Name] = true
	}

	for _, name := range []string{metaFile, locationFile, rayIndexFile} {
		if !found[name] {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingEntry, name)
		}
	}
	if info.Version != formatVersion {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, info.Version)
	}
	raw.NumRays = info.NumRays
	return raw, info, nil
}
