// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials kept outside the config file. A secrets
// directory holds one file per credential: the file name is the key and the
// trimmed contents are the value.
//
// Known keys: api-token (bearer token required by the HTTP API).
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// APIToken is the key file holding the HTTP API bearer token.
const APIToken = "api-token"

// Set maps secret keys to their values.
type Set map[string]string

// Load reads the secrets in dir. A missing directory yields an empty Set.
func Load(dir string, log *zap.Logger) (Set, error) {
	set, err := LoadFS(os.DirFS(dir), log)
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}
	return set, nil
}

// LoadFS reads the secrets at the root of fsys. Subdirectories, dotfiles and
// empty files are ignored. A file that cannot be read is logged and skipped.
func LoadFS(fsys fs.FS, log *zap.Logger) (Set, error) {
	if log == nil {
		log = zap.NewNop()
	}

	entries, err := fs.ReadDir(fsys, ".")
	if errors.Is(err, fs.ErrNotExist) {
		return Set{}, nil
	}
	if err != nil {
		return nil, err
	}

	set := make(Set, len(entries))
	for _, entry := range entries {
		key := entry.Name()
		if entry.IsDir() || strings.HasPrefix(key, ".") {
			continue
		}
		data, err := fs.ReadFile(fsys, key)
		if err != nil {
			log.Warn("could not read secret", zap.String("key", key), zap.Error(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			set[key] = value
		}
	}
	return set, nil
}

// Resolve returns explicit when set, otherwise the stored value for key.
// Configuration and environment values win over secret files.
func (s Set) Resolve(key, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return s[key]
}

// Keys returns the loaded key names in sorted order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
