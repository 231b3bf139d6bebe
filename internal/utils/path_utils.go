package utils

import (
	"path/filepath"
	"strings"
)

// programExts are the extensions of serialized program files.
var programExts = []string{".yaml", ".yml"}

// UnitName derives a unit name from a program file path.
// It takes the base filename and removes any recognized program extension.
func UnitName(path string) string {
	name := filepath.Base(path)
	for _, ext := range programExts {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}
