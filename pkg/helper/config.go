package helper

import (
	"os"
	"path/filepath"
)

// SystemConfigDir is searched last when a configuration file is not found
// next to the binary.
const SystemConfigDir = "/etc/carrousel"

// GetCfgPath returns the path to the configuration file.
//
// Lookup order:
//  1. filename itself when absolute
//  2. ./{filename}, then ./configs/{filename}
//  3. SystemConfigDir/{filename}
func GetCfgPath(filename string) string {
	if filename == "" {
		panic("filename cannot be empty")
	}
	if filepath.IsAbs(filename) {
		return filename
	}
	if p := lookupWorkingDir(filename); p != "" {
		return p
	}
	return filepath.Join(SystemConfigDir, filename)
}

func lookupWorkingDir(filename string) string {
	wd, err := os.Getwd()
	if err != nil || wd == "" {
		return ""
	}
	for _, candidate := range []string{
		filepath.Join(wd, filename),
		filepath.Join(wd, "configs", filename),
	} {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if abs, err := filepath.Abs(candidate); err == nil {
			return abs
		}
	}
	return ""
}
