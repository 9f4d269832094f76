// Package data provides durable local storage: flat JSON files for small
// state and SQLite for indexed data.
package data

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Dir returns the data directory, creating it if needed.
// Override with the MOODPLACES_HOME environment variable.
func Dir() string {
	dir := os.Getenv("MOODPLACES_HOME")
	if dir == "" {
		dir = os.ExpandEnv("$HOME/.moodplaces")
	}
	path := filepath.Join(dir, "data")
	os.MkdirAll(path, 0700)
	return path
}

// Save writes a value to disk
func Save(key, val string) error {
	file := filepath.Join(Dir(), key)
	os.MkdirAll(filepath.Dir(file), 0700)
	return os.WriteFile(file, []byte(val), 0644)
}

// Load reads a file from disk
func Load(key string) ([]byte, error) {
	return os.ReadFile(filepath.Join(Dir(), key))
}

// Delete removes a file from disk
func Delete(key string) error {
	return os.Remove(filepath.Join(Dir(), key))
}

// SaveJSON marshals and writes a value to disk
func SaveJSON(key string, val interface{}) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	file := filepath.Join(Dir(), key)
	os.MkdirAll(filepath.Dir(file), 0700)
	return os.WriteFile(file, b, 0644)
}

// LoadJSON reads and unmarshals a value from disk
func LoadJSON(key string, val interface{}) error {
	b, err := Load(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, val)
}
