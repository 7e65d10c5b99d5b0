package domain

import "path/filepath"

// File and directory names.
const (
	AppDirName      = "focuspilot"  // Directory name under XDG config/data homes
	ConfigFileName  = "config.toml" // Config file name
	StoreFileName   = "store.json"  // JSON backend file name
	GitStoreDirName = "store.git"   // Git backend repository directory
)

// Persistence keys.
const (
	KeyTasks           = "focuspilot.tasks"
	KeyRecommendations = "focuspilot.recommendations"
	KeySessions        = "focuspilot.sessions"
	KeyStandup         = "focuspilot.standup"
)

// GlobalConfigDir returns the global config directory under configHome.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// DataDir returns the data directory under dataHome.
func DataDir(dataHome string) string {
	return filepath.Join(dataHome, AppDirName)
}

// StorePath returns the path to the JSON backend file.
func StorePath(dataDir string) string {
	return filepath.Join(dataDir, StoreFileName)
}

// GitStorePath returns the path to the git backend repository.
func GitStorePath(dataDir string) string {
	return filepath.Join(dataDir, GitStoreDirName)
}

// LogPath returns the path to the log file.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, "logs", "focuspilot.log")
}
