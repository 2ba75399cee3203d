package cli

import (
	"github.com/spf13/cobra"

	"bennypowers.dev/coloradjust/lsp"
)

func newLSPCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []lsp.Option{lsp.WithConfigFile(g.configFile)}
			if cmd.Flags().Changed("root") {
				opts = append(opts, lsp.WithRoot(g.root))
			}
			if cmd.Flags().Changed("log-level") {
				opts = append(opts, lsp.WithFixedLogLevel())
			}
			server, err := lsp.NewServer(opts...)
			if err != nil {
				return err
			}
			defer func() { _ = server.Close() }()
			return server.RunStdio()
		},
	}
	// Editors pass --stdio; it is the only transport.
	cmd.Flags().Bool("stdio", true, "communicate over stdin and stdout")
	return cmd
}
