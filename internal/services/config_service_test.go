package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigService_Defaults(t *testing.T) {
	wsCtx := newTestContext()
	service := NewConfigService()
	require.NoError(t, service.Initialize(wsCtx))

	assert.Equal(t, DefaultBackendURL, service.BackendURL())
	assert.Equal(t, DefaultModel, service.Model())
	assert.Equal(t, ".", service.Workspace())
	assert.Equal(t, 120*time.Second, service.ChatTimeout())
	assert.Equal(t, 60*time.Second, service.CompletionTimeout())
	assert.Equal(t, 60*time.Second, service.AnalysisTimeout())
	assert.Equal(t, 2*time.Second, service.AutosaveQuietPeriod())
	assert.False(t, service.AutosaveEnabled())
}

func TestConfigService_SeedsContextSettings(t *testing.T) {
	wsCtx := newTestContext()
	service := NewConfigService()
	require.NoError(t, service.Initialize(wsCtx))

	model, ok := wsCtx.GetSetting(KeyModel)
	assert.True(t, ok)
	assert.Equal(t, DefaultModel, model)

	backend, _ := wsCtx.GetSetting(KeyBackendURL)
	assert.Equal(t, DefaultBackendURL, backend)
	assert.Equal(t, ".", wsCtx.WorkingDirectory())
}

func TestConfigService_EnvironmentOverride(t *testing.T) {
	t.Setenv("ECHOIDE_MODEL", "mistral:latest")
	t.Setenv("ECHOIDE_BACKEND_URL", "http://backend:9000")
	t.Setenv("ECHOIDE_CHAT_TIMEOUT_SECONDS", "30")

	wsCtx := newTestContext()
	service := NewConfigService()
	require.NoError(t, service.Initialize(wsCtx))

	assert.Equal(t, "mistral:latest", service.Model())
	assert.Equal(t, "http://backend:9000", service.BackendURL())
	assert.Equal(t, 30*time.Second, service.ChatTimeout())

	model, _ := wsCtx.GetSetting(KeyModel)
	assert.Equal(t, "mistral:latest", model)
}

func TestConfigService_WorkspaceSetting(t *testing.T) {
	t.Setenv("ECHOIDE_WORKSPACE", "/proj")

	wsCtx := newTestContext()
	service := NewConfigService()
	require.NoError(t, service.Initialize(wsCtx))

	assert.Equal(t, "/proj", service.Workspace())
	assert.Equal(t, "/proj", wsCtx.WorkingDirectory())
}

func TestConfigService_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("ECHOIDE_CHAT_TIMEOUT_SECONDS", "-5")

	wsCtx := newTestContext()
	service := NewConfigService()
	require.NoError(t, service.Initialize(wsCtx))

	assert.Equal(t, DefaultChatTimeout, service.ChatTimeout())
}
