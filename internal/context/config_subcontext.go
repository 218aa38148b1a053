// Settings operations for the workspace context, including dot-env overlays.
// Keys are stored lowercase without the ECHOIDE_ prefix, matching the viper keys
// used by the configuration service.
package context

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const envPrefix = "ECHOIDE_"

// GetSetting returns a settings value.
func (w *WorkspaceContext) GetSetting(key string) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	value, ok := w.settings[key]
	return value, ok
}

// GetSettingDefault returns a settings value, or fallback when unset.
func (w *WorkspaceContext) GetSettingDefault(key, fallback string) string {
	if value, ok := w.GetSetting(key); ok && value != "" {
		return value
	}
	return fallback
}

// SetSetting stores a settings value.
func (w *WorkspaceContext) SetSetting(key, value string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.settings[key] = value
}

// Settings returns a copy of the settings map.
func (w *WorkspaceContext) Settings() map[string]string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	settings := make(map[string]string, len(w.settings))
	for key, value := range w.settings {
		settings[key] = value
	}
	return settings
}

// LoadDotEnv overlays ECHOIDE_-prefixed entries from the given dot-env files
// onto the settings map. Missing files are skipped; parse errors are returned.
func (w *WorkspaceContext) LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		envMap, err := godotenv.Read(path)
		if err != nil {
			return err
		}
		for key, value := range envMap {
			if !strings.HasPrefix(key, envPrefix) {
				continue
			}
			w.SetSetting(strings.ToLower(strings.TrimPrefix(key, envPrefix)), value)
		}
	}
	return nil
}
