package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	workspacecontext "echoide/internal/context"
)

type stubService struct {
	name    string
	initErr error
	inits   *[]string
}

func (s *stubService) Name() string { return s.name }

func (s *stubService) Initialize(_ *workspacecontext.WorkspaceContext) error {
	if s.inits != nil {
		*s.inits = append(*s.inits, s.name)
	}
	return s.initErr
}

func TestRegistry_RegisterService(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.RegisterService(&stubService{name: "alpha"}))
	err := registry.RegisterService(&stubService{name: "alpha"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_GetService(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.RegisterService(&stubService{name: "alpha"}))

	service, err := registry.GetService("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", service.Name())

	_, err = registry.GetService("missing")
	assert.Error(t, err)
}

func TestRegistry_InitializeAllOrder(t *testing.T) {
	registry := NewRegistry()
	var inits []string
	require.NoError(t, registry.RegisterService(&stubService{name: "first", inits: &inits}))
	require.NoError(t, registry.RegisterService(&stubService{name: "second", inits: &inits}))
	require.NoError(t, registry.RegisterService(&stubService{name: "third", inits: &inits}))

	require.NoError(t, registry.InitializeAll(newTestContext()))
	assert.Equal(t, []string{"first", "second", "third"}, inits)
}

func TestRegistry_InitializeAllStopsOnError(t *testing.T) {
	registry := NewRegistry()
	var inits []string
	require.NoError(t, registry.RegisterService(&stubService{name: "ok", inits: &inits}))
	require.NoError(t, registry.RegisterService(&stubService{name: "broken", inits: &inits, initErr: errors.New("boom")}))
	require.NoError(t, registry.RegisterService(&stubService{name: "after", inits: &inits}))

	err := registry.InitializeAll(newTestContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, []string{"ok", "broken"}, inits)
}
