package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/eringen/ogcards"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "ogcards",
	Short: "ogcards – social preview cards for your blog",
	Long:  "ogcards renders 1200×630 social preview images for every post of a blog, served over HTTP or written to disk.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// maxprocs.Set only fails on an invalid GOMAXPROCS env, in which
		// case runtime defaults apply.
		if verbose {
			_, _ = maxprocs.Set(maxprocs.Logger(log.Printf))
		} else {
			_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ogcards version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ogcards %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ogcards.EnvOr("OGCARDS_CONFIG", "ogcards.yaml"), "Site configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.AddCommand(serveCmd, buildCmd, pathsCmd, initCmd, avatarCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// loadApp reads the configuration and initializes an App.
func loadApp() (*ogcards.App, error) {
	cfg, err := ogcards.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	app := ogcards.New(cfg)
	if err := app.Init(); err != nil {
		return nil, err
	}
	return app, nil
}
