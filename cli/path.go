package cli

import (
	"os"
	"path/filepath"
)

// baseConfig is the base name of the configuration file and namespace.
const baseConfig = "config"

// defaultDirMode is the permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// configPath joins dir with the given path elements.
func configPath(dir string, elem ...string) string {
	return filepath.Join(append([]string{dir}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
