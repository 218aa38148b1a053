package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	workspacecontext "echoide/internal/context"
	"echoide/internal/logger"
)

// Configuration keys and their defaults. Values resolve in the usual viper
// order: explicit flag binding, then ECHOIDE_* environment variables, then the
// .echoide.yaml config file, then these defaults.
const (
	KeyBackendURL        = "backend_url"
	KeyModel             = "model"
	KeyWorkspace         = "workspace"
	KeyChatTimeout       = "chat_timeout_seconds"
	KeyCompletionTimeout = "completion_timeout_seconds"
	KeyAnalysisTimeout   = "analysis_timeout_seconds"
	KeyAutosaveQuiet     = "autosave_quiet_seconds"
	KeyAutosaveEnabled   = "autosave_enabled"
)

// DefaultModel is the model requested from the inference collaborator when
// none is configured.
const DefaultModel = "phi3.5:3.8b"

// ConfigService resolves workspace configuration through viper and seeds the
// resolved values into the workspace context's settings map, where the other
// services and the shell read them.
type ConfigService struct {
	initialized bool
	v           *viper.Viper
}

// NewConfigService creates a ConfigService on a fresh viper instance so tests
// never share state through the global one.
func NewConfigService() *ConfigService {
	return &ConfigService{v: viper.New()}
}

// NewConfigServiceWithViper creates a ConfigService over an existing viper
// instance, letting the CLI bind flags before initialization.
func NewConfigServiceWithViper(v *viper.Viper) *ConfigService {
	return &ConfigService{v: v}
}

// Name returns the service name "config" for registration.
func (c *ConfigService) Name() string {
	return "config"
}

// Initialize loads .env files, resolves configuration, and seeds the workspace
// context settings. A missing config file is not an error.
func (c *ConfigService) Initialize(ctx *workspacecontext.WorkspaceContext) error {
	if err := ctx.LoadDotEnv(".env"); err != nil {
		logger.Debug("No .env file loaded", "error", err)
	}

	c.v.SetDefault(KeyBackendURL, DefaultBackendURL)
	c.v.SetDefault(KeyModel, DefaultModel)
	c.v.SetDefault(KeyWorkspace, ".")
	c.v.SetDefault(KeyChatTimeout, 120)
	c.v.SetDefault(KeyCompletionTimeout, 60)
	c.v.SetDefault(KeyAnalysisTimeout, 60)
	c.v.SetDefault(KeyAutosaveQuiet, 2)
	c.v.SetDefault(KeyAutosaveEnabled, false)

	c.v.SetEnvPrefix("ECHOIDE")
	c.v.AutomaticEnv()

	c.v.SetConfigName(".echoide")
	c.v.SetConfigType("yaml")
	c.v.AddConfigPath(".")
	c.v.AddConfigPath("$HOME")
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for _, key := range []string{
		KeyBackendURL, KeyModel, KeyWorkspace,
		KeyChatTimeout, KeyCompletionTimeout, KeyAnalysisTimeout,
		KeyAutosaveQuiet, KeyAutosaveEnabled,
	} {
		ctx.SetSetting(key, c.v.GetString(key))
	}
	ctx.SetWorkingDirectory(c.v.GetString(KeyWorkspace))

	c.initialized = true
	logger.Debug("ConfigService initialized", "backend", c.v.GetString(KeyBackendURL), "model", c.v.GetString(KeyModel))
	return nil
}

// BackendURL returns the configured backend address.
func (c *ConfigService) BackendURL() string {
	return c.v.GetString(KeyBackendURL)
}

// Model returns the configured inference model.
func (c *ConfigService) Model() string {
	return c.v.GetString(KeyModel)
}

// Workspace returns the configured working directory.
func (c *ConfigService) Workspace() string {
	return c.v.GetString(KeyWorkspace)
}

// ChatTimeout returns the chat exchange deadline.
func (c *ConfigService) ChatTimeout() time.Duration {
	return secondsOrDefault(c.v.GetInt(KeyChatTimeout), DefaultChatTimeout)
}

// CompletionTimeout returns the completion request deadline.
func (c *ConfigService) CompletionTimeout() time.Duration {
	return secondsOrDefault(c.v.GetInt(KeyCompletionTimeout), DefaultCompletionTimeout)
}

// AnalysisTimeout returns the analysis request deadline.
func (c *ConfigService) AnalysisTimeout() time.Duration {
	return secondsOrDefault(c.v.GetInt(KeyAnalysisTimeout), DefaultAnalysisTimeout)
}

// AutosaveQuietPeriod returns the autosave debounce window.
func (c *ConfigService) AutosaveQuietPeriod() time.Duration {
	return secondsOrDefault(c.v.GetInt(KeyAutosaveQuiet), DefaultAutosaveQuietPeriod)
}

// AutosaveEnabled reports whether autosave starts enabled.
func (c *ConfigService) AutosaveEnabled() bool {
	return c.v.GetBool(KeyAutosaveEnabled)
}

func secondsOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
