// Package main provides the EchoIDE CLI application entry point.
// EchoIDE is an interactive editing workspace: documents, autosave, a
// pseudo-terminal, and an AI assistant, all driven from one shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"echoide/internal/logger"
	"echoide/internal/shell"
	"echoide/internal/version"
)

var (
	logLevel   string
	logFile    string
	testMode   bool
	workspace  string
	backendURL string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "echoide",
	Short: "EchoIDE - interactive editing workspace",
	Long: `EchoIDE is an interactive editing workspace. It keeps a set of open
documents consistent under edits, autosave, and AI completions, and drives a
pseudo-terminal that forwards execution to a remote sandbox.`,
	Run: runShell,
}

// shellCmd is the explicit version of the default behavior.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive workspace shell",
	Run:   runShell,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.Get().String())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&testMode, "test-mode", false, "Run in deterministic test mode")
	rootCmd.PersistentFlags().StringVar(&workspace, "workspace", "", "Workspace directory the terminal operates in")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend-url", "", "Backend address (default http://127.0.0.1:8000)")

	for flag, key := range map[string]string{
		"workspace":   "workspace",
		"backend-url": "backend_url",
	} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flag, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(versionCmd)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if err := logger.Configure(logLevel, logFile, testMode); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

func runShell(_ *cobra.Command, _ []string) {
	logger.Info("Starting EchoIDE", "version", version.Get().Version)

	w, err := shell.InitializeServices(testMode, viper.GetViper())
	if err != nil {
		logger.Fatal("Failed to initialize services", "error", err)
	}

	handler := shell.NewHandler(w, os.Stdout)
	fmt.Println(version.Get().String())
	fmt.Println("Type \"help\" for terminal commands, \"exit\" to quit.")

	if err := handler.Run(); err != nil {
		logger.Fatal("Shell terminated", "error", err)
	}
}
