package nvar

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables consulted by DefaultConfig.
const (
	EnvSDKPath  = "NV_AR_SDK_PATH"
	EnvModelDir = "NV_AR_MODEL_DIR"
)

// Config controls where the SDK is loaded from.
type Config struct {
	// SDKPath is the SDK install directory. Empty means the platform default.
	SDKPath string

	// LibraryPath overrides the shared library location. When set, SDKPath
	// does not need to exist.
	LibraryPath string

	// ModelDir overrides the model directory (default: SDKPath/models).
	ModelDir string
}

// DefaultConfig returns a Config populated from the environment.
func DefaultConfig() Config {
	return Config{
		SDKPath:  os.Getenv(EnvSDKPath),
		ModelDir: os.Getenv(EnvModelDir),
	}
}

// location is a resolved Config.
type location struct {
	sdkDir   string
	library  string
	modelDir string
}

func (c Config) locate() (location, error) {
	sdk := c.SDKPath
	if sdk == "" {
		sdk = defaultSDKPath()
	}

	loc := location{
		sdkDir:   sdk,
		library:  c.LibraryPath,
		modelDir: c.ModelDir,
	}

	if loc.library == "" {
		if !isDir(sdk) {
			return loc, fmt.Errorf("%w: %s", ErrSDKNotFound, sdk)
		}
		loc.library = findLibrary(sdk)
	}

	if loc.modelDir == "" {
		loc.modelDir = filepath.Join(sdk, "models")
	}

	return loc, nil
}

// searchDir is the directory the platform loader should search for the
// SDK's own dependencies, or "" when none is known.
func (l location) searchDir() string {
	if isDir(l.sdkDir) {
		return l.sdkDir
	}
	if filepath.IsAbs(l.library) {
		return filepath.Dir(l.library)
	}
	return ""
}

// findLibrary returns the first existing candidate below dir, falling back
// to the bare library name so the system loader search applies.
func findLibrary(dir string) string {
	for _, name := range libraryCandidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return libraryName
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
