package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// AppDirName is the directory name used under the platform config root.
const AppDirName = "weathrly"

// PathResolver finds config and dataset files relative to the user's config
// dir, the executable and the working directory.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver determines the executable location and config dir.
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		homeDir:       homeDir,
		configDir:     platformConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr, nil
}

// platformConfigDir returns the appropriate config directory for the platform
func platformConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppDirName)
		}
		return filepath.Join(homeDir, ".config", AppDirName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppDirName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppDirName)
	default:
		return filepath.Join(homeDir, ".config", AppDirName)
	}
}

// GetConfigPath returns the full path for a config file, falling back to a
// temp dir when the config dir is not writable.
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	for _, dir := range []string{pr.configDir, filepath.Join(os.TempDir(), AppDirName)} {
		if err := WritableDir(dir); err == nil {
			return filepath.Join(dir, filename), nil
		}
		log.Debugf("Config dir candidate not writable: %s", dir)
	}
	path := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary config file: %s", path)
	return path, nil
}

// FindDataFile resolves a dataset path. Absolute paths are used as given;
// relative ones are tried against the working dir, the executable dir and
// the config dir, in that order.
func (pr *PathResolver) FindDataFile(userPath string) (string, error) {
	if userPath == "" {
		return "", os.ErrNotExist
	}
	if filepath.IsAbs(userPath) {
		if FileExists(userPath) {
			return userPath, nil
		}
		return "", os.ErrNotExist
	}

	var cwd string
	if wd, err := os.Getwd(); err == nil {
		cwd = filepath.Join(wd, userPath)
	}
	if path, ok := firstExisting(
		cwd,
		filepath.Join(pr.executableDir, userPath),
		filepath.Join(pr.configDir, userPath),
	); ok {
		log.Debugf("Found data file: %s", path)
		return path, nil
	}
	return "", os.ErrNotExist
}
