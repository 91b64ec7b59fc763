package selector

import (
	"os"
	"path/filepath"
	"runtime"
)

// VenvMarker is the file a Python virtual environment keeps at its root.
const VenvMarker = "pyvenv.cfg"

// IsVirtualEnv reports whether dir looks like a self-contained interpreter
// installation: it holds VenvMarker, or a launcher directory containing an
// interpreter (Scripts/python.exe on Windows, bin/python elsewhere).
func IsVirtualEnv(dir string) bool {
	return isVirtualEnv(dir, runtime.GOOS)
}

func isVirtualEnv(dir, goos string) bool {
	if exists(filepath.Join(dir, VenvMarker)) {
		return true
	}
	launcher, interpreter := "bin", "python"
	if goos == "windows" {
		launcher, interpreter = "Scripts", "python.exe"
	}
	if !isDir(filepath.Join(dir, launcher)) {
		return false
	}
	return exists(filepath.Join(dir, launcher, interpreter))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
