package main

import (
	"github.com/spf13/cobra"

	"github.com/revset/checkout/pkg/checkout"
	"github.com/revset/checkout/pkg/filesystem"
	"github.com/revset/checkout/pkg/manifest"
)

var planDiffPath string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the actions a diff manifest would produce",
	Long: `plan classifies a diff manifest into its checkout plan and prints the
resulting actions without touching the filesystem.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := manifest.Load(planDiffPath, filesystem.NewOS())
		if err != nil {
			return err
		}
		plan, err := checkout.FromDiffEntries(entries)
		if err != nil {
			return err
		}

		for _, action := range plan.Removes() {
			cmd.Printf("remove  %s\n", action.Path)
		}
		for _, action := range plan.ContentUpdates() {
			cmd.Printf("update  %s (%s, %s)\n", action.Path, action.ContentID, action.FileType)
		}
		for _, action := range plan.MetaUpdates() {
			if action.SetExecutable {
				cmd.Printf("chmod   %s +x\n", action.Path)
			} else {
				cmd.Printf("chmod   %s -x\n", action.Path)
			}
		}
		return nil
	},
}

func init() {
	planCmd.Flags().StringVar(&planDiffPath, "diff", "", "diff manifest file (required)")
	_ = planCmd.MarkFlagRequired("diff")
}
