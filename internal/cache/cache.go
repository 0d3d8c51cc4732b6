// Package cache keeps engine verdicts on disk so unchanged sources are not
// re-linted. Entries are keyed by the engine bundle, the runtime and the
// source content together; changing any of them is a miss.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"jsreport/internal/lint"
)

// Current schema version - increment when payload format changes
const schemaVersion uint16 = 1

// Digest is a fixed 256-bit hash, compatible with source.File.Hash.
type Digest [32]byte

// Combine builds an entry key: H(part1 || part2 || ...). Order matters.
func Combine(parts ...Digest) Digest {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write(p[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Sum hashes an arbitrary string, e.g. a runtime name or command line.
func Sum(s string) Digest {
	return sha256.Sum256([]byte(s))
}

// Cache stores lint results under a directory. Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type payload struct {
	Schema  uint16
	OK      bool
	Errors  []entry
	Implied []string
}

type entry struct {
	Fatal     bool
	Line      int
	Character int
	Reason    string
}

// Open returns the cache for app under $XDG_CACHE_HOME or ~/.cache.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app))
}

// OpenDir returns a cache rooted at dir, creating it when needed.
func OpenDir(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "results", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a result. A nil cache ignores the call.
func (c *Cache) Put(key Digest, res lint.Result) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(toPayload(res)); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a result. Missing entries and entries from older schemas are misses.
func (c *Cache) Get(key Digest) (lint.Result, bool, error) {
	if c == nil {
		return lint.Result{}, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return lint.Result{}, false, nil
		}
		return lint.Result{}, false, err
	}
	defer f.Close()

	var p payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return lint.Result{}, false, fmt.Errorf("corrupt cache entry: %w", err)
	}
	if p.Schema != schemaVersion {
		return lint.Result{}, false, nil
	}
	return fromPayload(p), true, nil
}

// DropAll invalidates the cache.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(filepath.Join(c.dir, "results")); err != nil {
		return fmt.Errorf("failed to drop cache: %w", err)
	}
	return nil
}

func toPayload(res lint.Result) payload {
	p := payload{Schema: schemaVersion, OK: res.OK}
	if len(res.Errors) > 0 {
		p.Errors = make([]entry, len(res.Errors))
		for i, e := range res.Errors {
			if e == nil {
				p.Errors[i] = entry{Fatal: true}
				continue
			}
			p.Errors[i] = entry{Line: e.Line, Character: e.Character, Reason: e.Reason}
		}
	}
	p.Implied = res.ImpliedNames()
	slices.Sort(p.Implied)
	return p
}

func fromPayload(p payload) lint.Result {
	if p.OK {
		return lint.Clean()
	}
	errs := make([]*lint.Error, len(p.Errors))
	for i, e := range p.Errors {
		if e.Fatal {
			continue
		}
		errs[i] = &lint.Error{Line: e.Line, Character: e.Character, Reason: e.Reason}
	}
	return lint.Failed(errs, p.Implied...)
}
