// Package services implements the EchoIDE workspace services: document session
// management, autosave scheduling, the terminal engine, the chat session, the
// completion/analysis orchestrator, and the backend collaborator client.
package services

import (
	"fmt"
	"sync"

	workspacecontext "echoide/internal/context"
)

// Service is a workspace service with a registration name and an initialization
// step that binds it to the workspace context.
type Service interface {
	Name() string
	Initialize(ctx *workspacecontext.WorkspaceContext) error
}

// Registry manages service registration and lifecycle.
type Registry struct {
	mu       sync.RWMutex
	services map[string]Service
	order    []string
}

// NewRegistry creates an empty service registry.
func NewRegistry() *Registry {
	return &Registry{
		services: make(map[string]Service),
	}
}

// RegisterService adds a service, returning an error if the name is taken.
// Registration order is preserved for initialization.
func (r *Registry) RegisterService(service Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := service.Name()
	if _, exists := r.services[name]; exists {
		return fmt.Errorf("service %s already registered", name)
	}
	r.services[name] = service
	r.order = append(r.order, name)
	return nil
}

// GetService retrieves a service by name.
func (r *Registry) GetService(name string) (Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	service, exists := r.services[name]
	if !exists {
		return nil, fmt.Errorf("service %s not found", name)
	}
	return service, nil
}

// InitializeAll initializes services in registration order against the given
// workspace context.
func (r *Registry) InitializeAll(ctx *workspacecontext.WorkspaceContext) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		if err := r.services[name].Initialize(ctx); err != nil {
			return fmt.Errorf("failed to initialize service %s: %w", name, err)
		}
	}
	return nil
}
