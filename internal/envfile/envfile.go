// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package envfile loads process settings from dotenv files. Values already
// present in the environment win over values from a file.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/joho/godotenv"
)

// Load reads each file in order and sets every variable that is not already
// set. A missing file is not an error. Load returns the sorted names of the
// variables it set.
func Load(paths ...string) ([]string, error) {
	var set []string
	for _, path := range paths {
		vars, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading env file %s: %w", path, err)
		}
		for k, v := range vars {
			if _, ok := os.LookupEnv(k); ok {
				continue
			}
			if err := os.Setenv(k, v); err != nil {
				return nil, fmt.Errorf("setting %s: %w", k, err)
			}
			set = append(set, k)
		}
	}
	sort.Strings(set)
	return set, nil
}
