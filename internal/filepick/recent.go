// ABOUTME: Manages the list of recently attached files
// ABOUTME: Stores paths in recent.json in the config directory

package filepick

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// MaxRecent is the maximum number of recent attachments to keep
const MaxRecent = 10

// Recent manages the list of recently attached files
type Recent struct {
	configDir string
	files     []string
}

type recentData struct {
	Files []string `json:"files"`
}

// NewRecent creates a Recent manager rooted at the config directory
func NewRecent(configDir string) *Recent {
	return &Recent{configDir: configDir}
}

// configFile returns the path to the recent files JSON
func (r *Recent) configFile() string {
	return filepath.Join(r.configDir, "recent.json")
}

// Load reads the recent list from disk, dropping files that no longer exist
func (r *Recent) Load() ([]string, error) {
	data, err := os.ReadFile(r.configFile())
	if os.IsNotExist(err) {
		r.files = []string{}
		return r.files, nil
	}
	if err != nil {
		return nil, err
	}

	var recent recentData
	if err := json.Unmarshal(data, &recent); err != nil {
		// Invalid JSON, start fresh
		r.files = []string{}
		return r.files, nil
	}

	r.files = make([]string, 0, len(recent.Files))
	for _, path := range recent.Files {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			r.files = append(r.files, path)
		}
	}
	return r.files, nil
}

// Save writes the list to disk, keeping at most MaxRecent entries
func (r *Recent) Save(files []string) error {
	if err := os.MkdirAll(r.configDir, 0o700); err != nil {
		return err
	}
	if len(files) > MaxRecent {
		files = files[:MaxRecent]
	}
	r.files = files

	data, err := json.MarshalIndent(recentData{Files: files}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.configFile(), data, 0o600)
}

// Add moves the paths to the front of the list in the given order
func (r *Recent) Add(paths ...string) error {
	if r.files == nil {
		if _, err := r.Load(); err != nil {
			r.files = []string{}
		}
	}

	seen := make(map[string]bool, len(paths))
	next := make([]string, 0, len(r.files)+len(paths))
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			next = append(next, p)
		}
	}
	for _, f := range r.files {
		if !seen[f] {
			next = append(next, f)
		}
	}
	return r.Save(next)
}

// List returns the current list
func (r *Recent) List() []string {
	if r.files == nil {
		r.Load()
	}
	return r.files
}
