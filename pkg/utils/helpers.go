package utils

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

//InSlice returns true if given string appears in given slice
func InSlice(lookingFor string, slice []string) bool {
	for _, s := range slice {
		if s == lookingFor {
			return true
		}
	}

	return false
}

//ListDir returns a sorted list of regular files names in given path. Hidden files are skipped.
func ListDir(path string) ([]string, error) {
	names := make([]string, 0)
	if entries, err := os.ReadDir(path); err != nil {
		return nil, fmt.Errorf("ListDir: Error, got '%v'", err)
	} else {
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			names = append(names, e.Name())
		}
	}

	sort.Strings(names)
	return names, nil
}

//EnsureDir creates given directory (and its parents) if it does not exist yet
func EnsureDir(path string) error {
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("EnsureDir: Error, got '%v'", err)
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("EnsureDir: Could not create '%s', got '%v'", path, err)
		}
	}

	return nil
}
