package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// starterFileMode is the permission set for a written starter config.
const starterFileMode = 0o644

// ErrConfigExists is returned by WriteStarter when the target file already exists.
var ErrConfigExists = errors.New("config file already exists")

// WriteStarter writes a starter config file carrying every default value to
// path. It refuses to overwrite an existing file.
func WriteStarter(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	out, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal starter config: %w", err)
	}

	if err := os.WriteFile(path, out, starterFileMode); err != nil {
		return fmt.Errorf("write starter config: %w", err)
	}

	return nil
}
