// Package cache persists the last successfully fetched worksheet rows to a
// flat JSON file. The cache is the only local persistence this tool has: it
// is written after every successful remote fetch and read back only when the
// remote sheet is unreachable.
package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Upload is one operator-provided attachment kept alongside the cached rows,
// keyed by "site|date" in Snapshot.Uploads.
type Upload struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

// Snapshot is the full cache file contents.
type Snapshot struct {
	Rows    [][]string          `json:"rows"`
	Uploads map[string][]Upload `json:"uploads,omitempty"`
	SavedAt time.Time           `json:"saved_at"`
}

// UploadKey builds the site|date key used by Snapshot.Uploads.
func UploadKey(site, date string) string {
	return site + "|" + date
}

// Cache reads and writes one snapshot file.
type Cache struct {
	path string
}

// New creates a cache backed by the given file path.
func New(path string) *Cache {
	return &Cache{path: path}
}

// Path returns the backing file path.
func (c *Cache) Path() string {
	return c.path
}

// Load reads the snapshot. A missing or corrupted file yields an empty
// snapshot and no error; a cache that cannot be read must never take the
// tool down.
func (c *Cache) Load() *Snapshot {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return &Snapshot{}
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return &Snapshot{}
	}
	return &snap
}

// Save writes the snapshot, stamping SavedAt. The write goes through a temp
// file and rename so a crash mid-write leaves the previous snapshot intact.
func (c *Cache) Save(snap *Snapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}
	snap.SavedAt = time.Now().UTC()

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".cache-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.path)
}

// SaveRows stores rows while preserving any uploads already in the cache.
func (c *Cache) SaveRows(rows [][]string) error {
	snap := c.Load()
	snap.Rows = rows
	return c.Save(snap)
}

// PutUpload attaches an upload to a site/date pair and persists the cache.
func (c *Cache) PutUpload(site, date string, up Upload) error {
	snap := c.Load()
	if snap.Uploads == nil {
		snap.Uploads = make(map[string][]Upload)
	}
	key := UploadKey(site, date)
	snap.Uploads[key] = append(snap.Uploads[key], up)
	return c.Save(snap)
}
