// Package cli implements the color-adjust command line.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/coloradjust/internal/log"
	"bennypowers.dev/coloradjust/internal/project"
	"bennypowers.dev/coloradjust/internal/version"
)

// ErrCheckFailed is returned by build --check when any expression failed.
var ErrCheckFailed = errors.New("color expressions failed")

type globalOptions struct {
	configFile string
	root       string
	logLevel   string
}

// NewRootCommand returns the color-adjust command tree.
func NewRootCommand() *cobra.Command {
	g := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "color-adjust",
		Short: "Evaluate color() adjustment expressions",
		Long: `color-adjust rewrites color(<base> op(args)...) expressions in stylesheets
into plain color literals, e.g. color(#f00 darken(20)) becomes #990000.

Expressions are found in CSS files, in <style> blocks and style attributes
of HTML files, and in css and html tagged templates of JavaScript and
TypeScript files.`,
		Version:       version.Full(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log.SetOutput(cmd.ErrOrStderr())
			if cmd.Flags().Changed("log-level") {
				return applyLogLevel(g.logLevel)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&g.configFile, "config", "c", "",
		"config file (default: .config/color-adjust.yaml)")
	cmd.PersistentFlags().StringVarP(&g.root, "root", "r", ".",
		"project root directory")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info",
		"log level: debug, info, warn or error")

	cmd.AddCommand(
		newEvalCommand(g),
		newOpsCommand(),
		newBuildCommand(g),
		newWatchCommand(g),
		newLSPCommand(g),
	)
	return cmd
}

// Execute runs the command line and prints any error.
func Execute() error {
	cmd := NewRootCommand()
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

// load reads the project. Token files that fail to load are logged and
// skipped.
func (g *globalOptions) load(cmd *cobra.Command) (*project.Project, error) {
	p, err := project.Load(g.root, g.configFile)
	if p == nil {
		return nil, err
	}
	if !cmd.Flags().Changed("log-level") {
		if lerr := applyLogLevel(p.Config.LogLevel); lerr != nil {
			return nil, fmt.Errorf("config: %w", lerr)
		}
	}
	if err != nil {
		log.Warn("%v", err)
	}
	return p, nil
}

func applyLogLevel(s string) error {
	level, err := log.ParseLevel(s)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}
