package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	// Packages
	askstack "github.com/thesubgraph/go-askstack"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	jsonExt              = ".json"
	DirPerm  os.FileMode = 0o700 // Directory permission for store directories
	FilePerm os.FileMode = 0o600 // File permission for store files
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS - FILE UTILITIES

// ensureDir validates that dir is non-empty and creates it if needed
func ensureDir(dir string) error {
	if dir == "" {
		return askstack.ErrBadParameter.With("directory is required")
	}
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return askstack.ErrInternalServerError.Withf("mkdir: %v", err)
	}
	return nil
}

// writeJSON serialises v to a JSON file at the given path. The write goes
// through a temporary file and rename so a crash mid-write never leaves a
// truncated document behind.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return askstack.ErrInternalServerError.Withf("marshal: %v", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, FilePerm); err != nil {
		return askstack.ErrInternalServerError.Withf("write: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return askstack.ErrInternalServerError.Withf("rename: %v", err)
	}
	return nil
}

// readJSON deserialises a JSON file into v. Returns ErrNotFound when the
// file does not exist, using label to identify the missing resource.
func readJSON(path string, label string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return askstack.ErrNotFound.Withf("%s", label)
		}
		return askstack.ErrInternalServerError.Withf("read: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return askstack.ErrInternalServerError.Withf("unmarshal: %v", err)
	}
	return nil
}

// readJSONDir returns the IDs (filenames without .json extension) of all
// JSON files in dir, skipping subdirectories and non-JSON files
func readJSONDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, askstack.ErrInternalServerError.Withf("readdir: %v", err)
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), jsonExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), jsonExt))
	}
	return ids, nil
}

// jsonPath returns the file path for an ID in the given directory
func jsonPath(dir, id string) string {
	return filepath.Join(dir, id+jsonExt)
}
