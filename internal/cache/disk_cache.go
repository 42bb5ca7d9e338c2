package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// DiskCache implements GenericCache with one file per key
type DiskCache struct {
	cacheDir string
}

// NewDisk creates a new disk cache rooted at cacheDir
func NewDisk(cacheDir string) *DiskCache {
	return &DiskCache{
		cacheDir: cacheDir,
	}
}

// Escaped keys longer than maxNameLen, the usual limit on one path element,
// keep hashedPrefixLen bytes and end with the key's hash.
const (
	maxNameLen      = 255
	hashedPrefixLen = 100
	fileExt         = ".bin"
	tempExt         = ".tmp"
)

// Path returns the file holding key.
// Keys are escaped so that "BTC/USDT" stays a single flat file.
func (d *DiskCache) Path(key string) string {
	if key == "" {
		return ""
	}
	return filepath.Join(d.cacheDir, fileName(key))
}

// fileName escapes key, replacing the tail of names too long for the
// filesystem with the key's SHA-256
func fileName(key string) string {
	name := url.PathEscape(key)
	if len(name)+len(fileExt)+len(tempExt) <= maxNameLen {
		return name + fileExt
	}

	prefix := name[:hashedPrefixLen]
	// do not split a %XX escape
	if i := strings.LastIndexByte(prefix, '%'); i >= len(prefix)-2 {
		prefix = prefix[:i]
	}
	sum := sha256.Sum256([]byte(key))
	return prefix + "-" + hex.EncodeToString(sum[:]) + fileExt
}

// Get retrieves the stored value, nil when the key was never written
func (d *DiskCache) Get(key string) ([]byte, error) {
	cachePath := d.Path(key)
	if cachePath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(cachePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", cachePath, err)
	}

	return data, nil
}

// Set stores a value atomically (temp file + rename)
func (d *DiskCache) Set(key string, data []byte) error {
	cachePath := d.Path(key)
	if cachePath == "" {
		return nil
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return err
	}

	tempPath := cachePath + tempExt
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tempPath, cachePath); err != nil {
		return err
	}

	logrus.Debugf("Cached value: %s", cachePath)
	return nil
}

// Delete removes the file holding key
func (d *DiskCache) Delete(key string) error {
	cachePath := d.Path(key)
	if cachePath == "" {
		return nil
	}

	if err := os.Remove(cachePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Init ensures the cache directory exists
func (d *DiskCache) Init() error {
	return os.MkdirAll(d.cacheDir, 0o755)
}
