package main

import (
	"fmt"

	"github.com/ironyman/dendron/internal/vault"
	"github.com/ironyman/dendron/internal/vaultadd"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type addFlags struct {
	sourceType    string
	path          string
	remote        string
	name          string
	selfContained bool
}

func newAddCmd(root *rootFlags) *cobra.Command {
	flags := &addFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a local or remote vault to the workspace",
		Example: `  dendron-vault vault add --path vault2
  dendron-vault vault add --type remote --remote https://github.com/org/notes.git
  dendron-vault vault add --type remote --path wsRemote --remote ../upstream --name dendron`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := newDependencies(root)
			if err != nil {
				return err
			}
			defer func() { _ = deps.Logger.Sync() }()

			req := vaultadd.Request{
				SourceType:       vault.SourceType(flags.sourceType),
				SourcePath:       flags.path,
				SourcePathRemote: flags.remote,
				SourceName:       flags.name,
			}
			if cmd.Flags().Changed("self-contained") {
				req.SelfContained = &flags.selfContained
			}

			out, err := deps.Orchestrator.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			for _, v := range out.Vaults {
				fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", v.DisplayName(), v.RelPath())
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func (f *addFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.sourceType, "type", "t", string(vault.SourceLocal), "source type: local or remote")
	fs.StringVarP(&f.path, "path", "p", "", "local vault directory, or the folder to clone a remote into")
	fs.StringVarP(&f.remote, "remote", "r", "", "git URL of a remote vault or workspace")
	fs.StringVarP(&f.name, "name", "n", "", "vault name")
	fs.BoolVar(&f.selfContained, "self-contained", false, "override dev.enableSelfContainedVaults")
}
