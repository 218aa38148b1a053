// Package shell provides the interactive front end for EchoIDE: service
// wiring, input routing, and the readline loop.
package shell

import (
	"github.com/spf13/viper"

	workspacecontext "echoide/internal/context"
	"echoide/internal/logger"
	"echoide/internal/services"
)

// Workspace bundles the workspace context with the fully wired service set.
// It is the single entry point the CLI uses; nothing here is a global.
type Workspace struct {
	Ctx      *workspacecontext.WorkspaceContext
	Registry *services.Registry

	Config       *services.ConfigService
	Backend      *services.BackendClient
	Documents    *services.DocumentService
	Autosave     *services.AutosaveService
	Orchestrator *services.OrchestratorService
	Terminal     *services.TerminalService
	Chat         *services.ChatService
	Render       *services.RenderService
}

// InitializeServices wires and initializes the whole service set.
// Configuration resolves first because the backend address and all timeouts
// come from it; the remaining services initialize in registration order.
func InitializeServices(testMode bool, v *viper.Viper) (*Workspace, error) {
	ctx := workspacecontext.New()
	ctx.SetTestMode(testMode)
	workspacecontext.SetGlobal(ctx)

	config := services.NewConfigServiceWithViper(v)
	if err := config.Initialize(ctx); err != nil {
		return nil, err
	}

	backend := services.NewBackendClient(config.BackendURL())

	w := &Workspace{
		Ctx:          ctx,
		Registry:     services.NewRegistry(),
		Config:       config,
		Backend:      backend,
		Documents:    services.NewDocumentService(backend),
		Autosave:     nil, // set below, needs Documents
		Orchestrator: services.NewOrchestratorService(backend),
		Terminal:     services.NewTerminalService(backend, backend),
		Chat:         services.NewChatService(backend),
		Render:       services.NewRenderService(),
	}
	w.Autosave = services.NewAutosaveService(w.Documents.Save)

	for _, svc := range []services.Service{
		w.Documents, w.Autosave, w.Orchestrator, w.Terminal, w.Chat, w.Render,
	} {
		if err := w.Registry.RegisterService(svc); err != nil {
			return nil, err
		}
	}
	if err := w.Registry.InitializeAll(ctx); err != nil {
		return nil, err
	}

	w.Autosave.SetQuietPeriod(config.AutosaveQuietPeriod())
	w.Autosave.SetEnabled(config.AutosaveEnabled())
	w.Orchestrator.SetTimeouts(config.CompletionTimeout(), config.AnalysisTimeout())
	w.Chat.SetTimeout(config.ChatTimeout())
	w.Chat.SetModel(config.Model())

	logger.Info("Workspace services initialized",
		"backend", backend.BaseURL(),
		"model", config.Model(),
		"workspace", config.Workspace())
	return w, nil
}
