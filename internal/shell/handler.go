package shell

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"echoide/internal/logger"
	"echoide/pkg/echotypes"
	"echoide/pkg/lang"
)

// Handler runs the interactive loop: editor-level commands are handled here
// and everything else is forwarded to the terminal engine. Output is flushed
// from the append-only logs after each dispatch, so the printed transcript
// always matches the engine's state.
type Handler struct {
	w   *Workspace
	out io.Writer

	printedLines    int
	printedMessages int
}

// NewHandler creates a Handler over a wired workspace, writing to out.
func NewHandler(w *Workspace, out io.Writer) *Handler {
	return &Handler{w: w, out: out}
}

// Run drives the readline loop until exit or EOF.
func (h *Handler) Run() error {
	rl, err := readline.New("echoide> ")
	if err != nil {
		return fmt.Errorf("failed to start input loop: %w", err)
	}
	defer func() { _ = rl.Close() }()

	h.flushTerminal()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !h.ProcessInput(context.Background(), line) {
			return nil
		}
	}
}

// ProcessInput routes one input line. It returns false when the session should
// end.
func (h *Handler) ProcessInput(ctx context.Context, input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return true
	}

	args := strings.Fields(input)
	cmd := strings.ToLower(args[0])

	switch cmd {
	case "exit", "quit":
		return false
	case "open":
		h.open(ctx, args)
	case "new":
		h.newDocument(args)
	case "save":
		h.save(ctx)
	case "close":
		h.close(args)
	case "tabs":
		h.tabs()
	case "switch":
		h.switchDocument(args)
	case "rename":
		h.rename(args)
	case "lang":
		h.switchLanguage(args)
	case "append":
		h.appendToDocument(input)
	case "autosave":
		h.autosave(args)
	case "complete":
		h.complete()
	case "analyze":
		h.analyze(args)
	case "chat":
		h.chat(input)
	case "model":
		h.model(args)
	case "clear-chat":
		h.w.Chat.Clear()
		h.printedMessages = 0
		fmt.Fprintln(h.out, "Chat history cleared")
	default:
		if err := h.w.Terminal.Execute(ctx, input); err != nil {
			fmt.Fprintln(h.out, errorLine(err))
		}
		h.flushTerminal()
	}
	return true
}

func (h *Handler) open(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(h.out, "Usage: open <path>")
		return
	}
	id, err := h.w.Documents.Open(ctx, args[1])
	if err != nil {
		fmt.Fprintln(h.out, errorLine(err))
		return
	}
	doc, _ := h.w.Ctx.GetDocument(id)
	fmt.Fprintf(h.out, "Opened %s (%s)\n", doc.Name, lang.DisplayName(doc.Language))
}

func (h *Handler) newDocument(args []string) {
	language := lang.JavaScript
	if len(args) > 1 {
		language = strings.ToLower(args[1])
	}
	id := h.w.Documents.NewUntitled(language)
	doc, _ := h.w.Ctx.GetDocument(id)
	fmt.Fprintf(h.out, "Created %s (%s)\n", doc.Name, lang.DisplayName(doc.Language))
}

func (h *Handler) save(ctx context.Context) {
	if err := h.w.Documents.SaveActive(ctx); err != nil {
		fmt.Fprintln(h.out, errorLine(err))
		return
	}
	if doc, ok := h.w.Ctx.ActiveDocument(); ok {
		fmt.Fprintf(h.out, "Saved %s\n", doc.Name)
	}
}

func (h *Handler) close(args []string) {
	doc, ok := h.w.Ctx.ActiveDocument()
	if !ok {
		fmt.Fprintln(h.out, "No document is open")
		return
	}
	force := len(args) > 1 && args[1] == "--force"
	closed := h.w.Documents.Close(doc.ID, func(d echotypes.Document) bool {
		if force {
			return true
		}
		fmt.Fprintf(h.out, "%s has unsaved changes; use \"close --force\" to discard them\n", d.Name)
		return false
	})
	if closed {
		fmt.Fprintf(h.out, "Closed %s\n", doc.Name)
	}
}

func (h *Handler) tabs() {
	docs := h.w.Ctx.OpenDocuments()
	if len(docs) == 0 {
		fmt.Fprintln(h.out, "No documents are open")
		return
	}
	activeID := h.w.Ctx.ActiveDocumentID()
	for i, doc := range docs {
		marker := " "
		if doc.ID == activeID {
			marker = "*"
		}
		dirty := ""
		if doc.Dirty {
			dirty = " (unsaved)"
		}
		fmt.Fprintf(h.out, "%s %d: %s [%s]%s\n", marker, i+1, doc.Name, lang.DisplayName(doc.Language), dirty)
	}
}

func (h *Handler) switchDocument(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(h.out, "Usage: switch <tab number>")
		return
	}
	docs := h.w.Ctx.OpenDocuments()
	index, err := strconv.Atoi(args[1])
	if err != nil || index < 1 || index > len(docs) {
		fmt.Fprintf(h.out, "No such tab: %s\n", args[1])
		return
	}
	h.w.Documents.SetActive(docs[index-1].ID)
	fmt.Fprintf(h.out, "Switched to %s\n", docs[index-1].Name)
}

func (h *Handler) rename(args []string) {
	doc, ok := h.w.Ctx.ActiveDocument()
	if !ok {
		fmt.Fprintln(h.out, "No document is open")
		return
	}
	if len(args) < 2 {
		fmt.Fprintln(h.out, "Usage: rename <new name>")
		return
	}
	if err := h.w.Documents.Rename(doc.ID, args[1]); err != nil {
		fmt.Fprintln(h.out, errorLine(err))
		return
	}
	fmt.Fprintf(h.out, "Renamed to %s\n", args[1])
}

func (h *Handler) switchLanguage(args []string) {
	doc, ok := h.w.Ctx.ActiveDocument()
	if !ok {
		fmt.Fprintln(h.out, "No document is open")
		return
	}
	if len(args) < 2 {
		fmt.Fprintln(h.out, "Usage: lang <language>")
		return
	}
	if err := h.w.Documents.SwitchLanguage(doc.ID, strings.ToLower(args[1])); err != nil {
		fmt.Fprintln(h.out, errorLine(err))
		return
	}
	fmt.Fprintf(h.out, "Language set to %s\n", lang.DisplayName(strings.ToLower(args[1])))
}

// appendToDocument adds a line of text to the active document, the shell's
// stand-in for editing.
func (h *Handler) appendToDocument(input string) {
	doc, ok := h.w.Ctx.ActiveDocument()
	if !ok {
		fmt.Fprintln(h.out, "No document is open")
		return
	}
	text := strings.TrimSpace(strings.TrimPrefix(input, "append"))
	content := doc.Content
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	h.w.Documents.UpdateContent(doc.ID, content+text+"\n")
}

func (h *Handler) autosave(args []string) {
	if len(args) < 2 || (args[1] != "on" && args[1] != "off") {
		fmt.Fprintln(h.out, "Usage: autosave on|off")
		return
	}
	h.w.Autosave.SetEnabled(args[1] == "on")
	fmt.Fprintf(h.out, "Autosave %s\n", args[1])
}

func (h *Handler) complete() {
	doc, ok := h.w.Ctx.ActiveDocument()
	if !ok {
		fmt.Fprintln(h.out, "No document is open")
		return
	}
	fmt.Fprintln(h.out, "Requesting completion...")
	h.w.Orchestrator.RequestCompletion(doc.ID, doc.Content, len(doc.Content), doc.Language,
		func(documentID, text string, err error) {
			if err != nil {
				fmt.Fprintln(h.out, errorLine(err))
				return
			}
			fmt.Fprintln(h.out, h.w.Render.RenderMarkdown(text))
		})
}

func (h *Handler) analyze(args []string) {
	doc, ok := h.w.Ctx.ActiveDocument()
	if !ok {
		fmt.Fprintln(h.out, "No document is open")
		return
	}
	kind := echotypes.AnalysisExplain
	if len(args) > 1 {
		kind = echotypes.AnalysisKind(strings.ToLower(args[1]))
	}
	err := h.w.Orchestrator.RequestAnalysis(doc.ID, doc.Content, doc.Language, kind,
		func(documentID, text string, err error) {
			if err != nil {
				fmt.Fprintln(h.out, errorLine(err))
				return
			}
			fmt.Fprintln(h.out, h.w.Render.RenderMarkdown(text))
		})
	if err != nil {
		fmt.Fprintln(h.out, errorLine(err))
		return
	}
	fmt.Fprintf(h.out, "Analyzing %s (%s)...\n", doc.Name, kind)
}

func (h *Handler) chat(input string) {
	message := strings.TrimSpace(strings.TrimPrefix(input, "chat"))
	if message == "" {
		h.printTranscript()
		return
	}
	if err := h.w.Chat.Send(message); err != nil {
		fmt.Fprintln(h.out, errorLine(err))
		return
	}
	h.flushChat()
}

func (h *Handler) model(args []string) {
	if len(args) < 2 {
		fmt.Fprintf(h.out, "Current model: %s\n", h.w.Chat.Model())
		for _, name := range h.w.Chat.AvailableModels() {
			fmt.Fprintf(h.out, "  %s\n", name)
		}
		return
	}
	h.w.Chat.SetModel(args[1])
	h.w.Ctx.SetSetting("model", args[1])
	fmt.Fprintf(h.out, "Model set to %s\n", args[1])
}

func (h *Handler) printTranscript() {
	messages := h.w.Ctx.ChatMessages()
	if len(messages) == 0 {
		fmt.Fprintln(h.out, "No chat history")
		return
	}
	for _, msg := range messages {
		fmt.Fprintf(h.out, "[%s] %s\n", msg.Role, h.w.Render.StyleChatMessage(msg))
	}
}

// flushTerminal prints output-log lines appended since the last flush.
func (h *Handler) flushTerminal() {
	lines := h.w.Ctx.TerminalLines()
	if h.printedLines > len(lines) {
		h.printedLines = 0 // log was cleared
	}
	for _, line := range lines[h.printedLines:] {
		fmt.Fprintln(h.out, h.w.Render.StyleLine(line))
	}
	h.printedLines = len(lines)
}

// flushChat prints transcript messages appended since the last flush.
func (h *Handler) flushChat() {
	messages := h.w.Ctx.ChatMessages()
	if h.printedMessages > len(messages) {
		h.printedMessages = 0
	}
	for _, msg := range messages[h.printedMessages:] {
		if msg.Role != echotypes.RoleUser {
			fmt.Fprintf(h.out, "[%s] %s\n", msg.Role, h.w.Render.StyleChatMessage(msg))
		}
	}
	h.printedMessages = len(messages)
}

func errorLine(err error) string {
	logger.Debug("Command failed", "error", err)
	return "Error: " + err.Error()
}
