package main

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/ironyman/dendron/internal/ignore"
	"github.com/ironyman/dendron/internal/wsconfig"
	"github.com/spf13/cobra"
)

func newListCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the vaults registered in the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := newDependencies(root)
			if err != nil {
				return err
			}
			defer func() { _ = deps.Logger.Sync() }()

			doc, err := deps.Store.Load()
			if err != nil {
				return err
			}
			cfg, err := doc.Config()
			if err != nil {
				return err
			}
			matcher, err := ignore.LoadMatcher(deps.FS, deps.WorkspaceRoot)
			if err != nil {
				return err
			}
			return writeVaults(cmd.OutOrStdout(), cfg, matcher)
		},
	}
}

func writeVaults(w io.Writer, cfg wsconfig.Config, matcher *ignore.Matcher) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPATH\tWORKSPACE\tSELF-CONTAINED\tREMOTE\tIGNORED")
	for _, v := range cfg.Vaults {
		rel := v.RelPath()
		remote := "-"
		if v.Remote != nil {
			remote = v.Remote.URL
		} else if ws, ok := cfg.Workspaces[v.Workspace]; ok && v.Workspace != "" {
			remote = ws.Remote.URL
		}
		workspace := v.Workspace
		if workspace == "" {
			workspace = "-"
		}
		ignored := !filepath.IsAbs(rel) && matcher.Ignored(rel, true)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\t%t\n", v.DisplayName(), rel, workspace, v.SelfContained, remote, ignored)
	}
	return tw.Flush()
}
