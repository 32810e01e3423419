// Package main implements the prodguard CLI.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/prodguard/prodguard/internal/config"
	"github.com/prodguard/prodguard/internal/hook"
	"github.com/prodguard/prodguard/internal/installer"
	"github.com/prodguard/prodguard/internal/policy"
	"github.com/prodguard/prodguard/internal/templates"
)

// Build-time variables (set via -ldflags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

var (
	configPath   string
	checkFile    string
	checkCmdStr  string
	settingsPath string
	templateName string
	forceInit    bool
	showVersion  bool
	exitCode     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "prodguard",
		Short: "Block agent tool calls that would touch production resources",
		Long: `prodguard is a guard hook for AI coding agents. It intercepts file
writes and shell commands before they run and blocks the ones that would
mutate production resources: directories, containers, ports, and
processes declared in a config file.

Verdicts are stateless: each tool call is evaluated on its own against
the configuration. When no config file exists, prodguard fails open and
allows everything, with a warning.

Examples:
  prodguard install                     # wire the hook into the host agent
  prodguard check -c "docker stop db"   # try a command against the policy
  prodguard init -t web-service         # write a starter config
  echo '{"tool_name":"Bash","tool_input":{"command":"pkill node"}}' | prodguard hook

Configuration file format (~/.prodguard.yaml):
  ports: [5432, 443]
  containers: [app-db]
  directories: [/srv/www, /etc/nginx]
  safe_directories: [/srv/www/staging]
  process_keywords: [gunicorn]`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Printf("prodguard - production-resource guard for agent tool calls\n")
				fmt.Printf("  Version: %s\n", version)
				fmt.Printf("  Built:   %s\n", buildTime)
				fmt.Printf("  Commit:  %s\n", gitCommit)
				return nil
			}
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "s", "", "Path to config file (default: ~/.prodguard.yaml)")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")

	rootCmd.AddCommand(hookCmd(), checkCmd(), installCmd(), uninstallCmd(), initCmd(), templatesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = 1
	}
	os.Exit(exitCode)
}

// resolveConfigPath picks the config file: flag, then env, then default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("PRODGUARD_CONFIG"); env != "" {
		return env
	}
	return config.DefaultConfigPath()
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return log
}

func hookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hook",
		Short: "Evaluate one tool call from stdin (host agent protocol)",
		Long: `Reads one JSON tool call from stdin and reports the verdict through
the exit status: 0 allows the call, 2 blocks it with BLOCKED/Suggestion
lines on stderr. This is the command the host agent runs.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			exitCode = hook.Run(hook.Options{
				Stdin:      os.Stdin,
				Stderr:     os.Stderr,
				ConfigPath: resolveConfigPath(),
				Override:   os.Getenv(hook.OverrideEnv),
				Log:        newLogger(),
			})
		},
	}
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [command...]",
		Short: "Evaluate a command or file path against the policy",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			call, err := buildCheckCall(args)
			if err != nil {
				return err
			}

			if hook.Affirmative(os.Getenv(hook.OverrideEnv)) {
				fmt.Println("allow (override active)")
				return nil
			}

			log := newLogger()
			path := resolveConfigPath()
			cfg, err := config.Load(path)
			if err != nil {
				log.Warnf("config %s unusable, allowing: %v", path, err)
			}
			if cfg == nil {
				log.Warnf("no config found at %s, allowing", path)
				cfg = config.Default()
			}

			verdict := policy.New(cfg).Evaluate(call)
			if !verdict.Blocked() {
				fmt.Println("allow")
				return nil
			}

			fmt.Fprintf(os.Stderr, "BLOCKED: %s\n", verdict.Reason)
			if verdict.Suggestion != "" {
				fmt.Fprintf(os.Stderr, "Suggestion: %s\n", verdict.Suggestion)
			}
			exitCode = hook.ExitBlock
			return nil
		},
	}
	cmd.Flags().StringVarP(&checkFile, "file", "f", "", "Check a file write instead of a command")
	cmd.Flags().StringVarP(&checkCmdStr, "command", "c", "", "Command string to check")
	return cmd
}

// buildCheckCall turns check flags/args into a synthetic tool call.
func buildCheckCall(args []string) (policy.ToolCall, error) {
	switch {
	case checkFile != "":
		return policy.ToolCall{
			Name:  policy.ToolWrite,
			Input: policy.ToolInput{FilePath: checkFile},
		}, nil
	case checkCmdStr != "":
		return policy.ToolCall{
			Name:  policy.ToolBash,
			Input: policy.ToolInput{Command: checkCmdStr},
		}, nil
	case len(args) > 0:
		return policy.ToolCall{
			Name:  policy.ToolBash,
			Input: policy.ToolInput{Command: strings.Join(args, " ")},
		}, nil
	default:
		return policy.ToolCall{}, fmt.Errorf("nothing to check. Use -c <command>, --file <path>, or command arguments")
	}
}

func installCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Wire the hook into the host agent settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			binary, err := os.Executable()
			if err != nil {
				binary = "prodguard"
			}

			path := settingsPath
			if path == "" {
				path = installer.DefaultSettingsPath()
			}

			command := installer.HookCommand(binary, configPath)
			if err := installer.Install(path, command); err != nil {
				return fmt.Errorf("failed to install hook: %w", err)
			}
			fmt.Printf("Installed hook into %s\n", path)
			fmt.Printf("  %s\n", command)
			return nil
		},
	}
	cmd.Flags().StringVar(&settingsPath, "settings", "", "Host agent settings file (default: ~/.claude/settings.json)")
	return cmd
}

func uninstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the hook from the host agent settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := settingsPath
			if path == "" {
				path = installer.DefaultSettingsPath()
			}
			if err := installer.Uninstall(path); err != nil {
				return fmt.Errorf("failed to uninstall hook: %w", err)
			}
			fmt.Printf("Removed hook from %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&settingsPath, "settings", "", "Host agent settings file (default: ~/.claude/settings.json)")
	return cmd
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config to the config path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := templates.Raw(templateName)
			if err != nil {
				return fmt.Errorf("%w\nUse 'prodguard templates' to see available templates", err)
			}

			path := resolveConfigPath()
			if _, err := os.Stat(path); err == nil && !forceInit {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // config is not secret
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("Wrote %s config to %s\n", templateName, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&templateName, "template", "t", "web-service", "Starter template name")
	cmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config")
	return cmd
}

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List available starter configs",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Available templates:")
			fmt.Println()
			for _, t := range templates.List() {
				fmt.Printf("  %-15s %s\n", t.Name, t.Description)
			}
			fmt.Println()
			fmt.Println("Usage: prodguard init -t <template>")
		},
	}
}
