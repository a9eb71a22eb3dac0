package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gnodet/mvx/pkg/config"
	"github.com/gnodet/mvx/pkg/install"
	"github.com/gnodet/mvx/pkg/mvx"
	"github.com/gnodet/mvx/pkg/tools"
	"github.com/spf13/cobra"
)

// setupCmd represents the setup command
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Setup the build environment",
	Long: `Setup the build environment by installing all required tools and
configuring the environment as specified in the mvx configuration.

This command will:
  - Read the project configuration (.mvx/config.json5 or .mvx/config.yml)
  - Download and install required tools (Java, Maven, Node.js, etc.)
  - Set up environment variables
  - Verify the installation

By default, tools are downloaded in parallel for faster setup. You can control
this behavior with the --parallel and --sequential flags.

Examples:
  mvx setup                   # Setup everything with parallel downloads
  mvx setup --tools-only      # Only install tools, skip environment setup
  mvx setup --parallel 5      # Use 5 concurrent downloads
  mvx setup --sequential      # Install tools one by one

Environment Variables:
  MVX_PARALLEL_DOWNLOADS      # Default number of parallel downloads (default: 3)`,

	Run: func(cmd *cobra.Command, args []string) {
		// Set verbose environment variable for tools package
		if verbose {
			os.Setenv("MVX_VERBOSE", "true")
		}

		if err := setupEnvironment(); err != nil {
			printError("%v", err)
			os.Exit(1)
		}
	},
}

var (
	toolsOnly         bool
	parallelDownloads int
	sequentialInstall bool
)

func init() {
	setupCmd.Flags().BoolVar(&toolsOnly, "tools-only", false, "only install tools, skip environment setup")
	setupCmd.Flags().IntVar(&parallelDownloads, "parallel", 0, "number of parallel downloads (0 = auto, 1 = sequential)")
	setupCmd.Flags().BoolVar(&sequentialInstall, "sequential", false, "install tools sequentially instead of in parallel")
}

func setupEnvironment() error {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return fmt.Errorf("failed to find project root: %w", err)
	}

	printVerbose("Project root: %s", projectRoot)

	// Check if .mvx directory exists
	mvxDir := filepath.Join(projectRoot, ".mvx")
	if _, err := os.Stat(mvxDir); os.IsNotExist(err) {
		return fmt.Errorf("no mvx configuration found. Run 'mvx init' first")
	}

	printInfo("🔍 Loading configuration...")

	manager, err := tools.NewManager()
	if err != nil {
		return fmt.Errorf("failed to create tool manager: %w", err)
	}
	registry := mvx.DefaultRegistry(manager)

	project, err := mvx.Open(projectRoot, registry)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w\n\nHint: Run 'mvx init' to create a configuration file first", err)
	}
	printVerbose("Loaded configuration for project: %s", project.Config.Project.Name)

	// Configure concurrency: --parallel flag, then MISE_JOBS (§6.3), then
	// the manager's own default.
	maxConcurrent := parallelDownloads
	if maxConcurrent == 0 {
		maxConcurrent = config.LoadSettings().Jobs()
	}
	if maxConcurrent == 0 {
		maxConcurrent = tools.GetDefaultConcurrency()
	}
	// Use sequential if requested
	if sequentialInstall {
		maxConcurrent = 1
	}

	printInfo("📦 Installing tools...")
	_, installResult, err := project.InstallWithProgress(context.Background(), install.Options{Jobs: maxConcurrent})
	if err != nil {
		return fmt.Errorf("failed to install tools: %w", err)
	}
	if len(installResult.Failed) > 0 {
		return fmt.Errorf("failed to install tools: %w", installResult.Failed[0].Err)
	}

	if !toolsOnly {
		printInfo("🔧 Setting up environment...")
		result, err := project.ComposeEnv(context.Background(), mvx.ProcessEnv())
		if err != nil {
			return fmt.Errorf("failed to setup environment: %w", err)
		}

		// Show environment variables that would be set
		if verbose {
			printVerbose("Environment variables:")
			for key, value := range result.Env {
				printVerbose("  %s=%s", key, value)
			}
		}

		printInfo("  ✅ Environment variables configured")
	}

	printInfo("")
	printInfo("✅ Setup complete! Your build environment is ready.")
	printInfo("")
	printInfo("Try running:")
	printInfo("  mvx build    # Build your project")
	printInfo("  mvx test     # Run tests")

	return nil
}
