// Package config implements the "config" command, which prints the
// configuration a command would use.
package config

import (
	"fmt"

	"github.com/ohsu-comp-bio/yatamana/cmd/util"
	"github.com/ohsu-comp-bio/yatamana/config"
	"github.com/spf13/cobra"
)

// NewCommand returns the "config" command.
func NewCommand() *cobra.Command {
	var (
		configFile string
		flagConf   config.Config
		lenient    bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := util.LoadConfig(configFile, flagConf, lenient)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}
			b, err := config.ToYaml(conf)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.SetGlobalNormalizationFunc(util.NormalizeFlags)
	cmd.Flags().AddFlagSet(util.ConfigFlags(&flagConf, &configFile, &lenient))
	return cmd
}
