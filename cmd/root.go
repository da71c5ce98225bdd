// Package cmd contains the yatamana CLI commands.
package cmd

import (
	"github.com/ohsu-comp-bio/yatamana/cmd/chunk"
	"github.com/ohsu-comp-bio/yatamana/cmd/config"
	"github.com/ohsu-comp-bio/yatamana/cmd/jobs"
	"github.com/ohsu-comp-bio/yatamana/cmd/submit"
	"github.com/ohsu-comp-bio/yatamana/cmd/version"
	"github.com/ohsu-comp-bio/yatamana/cmd/walltime"
	"github.com/spf13/cobra"
)

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:           "yatamana",
	Short:         "Submit jobs to Slurm, Grid Engine or the local machine.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	RootCmd.AddCommand(chunk.NewCommand())
	RootCmd.AddCommand(completionCmd)
	RootCmd.AddCommand(config.NewCommand())
	RootCmd.AddCommand(genMarkdownCmd)
	RootCmd.AddCommand(jobs.NewCommand())
	RootCmd.AddCommand(submit.NewCommand())
	RootCmd.AddCommand(version.Cmd)
	RootCmd.AddCommand(walltime.NewCommand())
}
