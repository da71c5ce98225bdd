// Package walltime implements the "walltime" command, which converts
// walltime specifications to seconds and to the scheduler format.
package walltime

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/ohsu-comp-bio/yatamana/walltime"
	"github.com/spf13/cobra"
)

// NewCommand returns the "walltime" command.
func NewCommand() *cobra.Command {
	var seconds bool

	cmd := &cobra.Command{
		Use:   "walltime SPEC...",
		Short: "Convert walltime specifications.",
		Long: `Convert walltime specifications such as 90, "1:30:00" or "2-12" to
seconds and to the DD-HH:MM:SS format passed to the batch system.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Convert(args, seconds, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVarP(&seconds, "seconds", "s", false, "Read the arguments as seconds")
	return cmd
}

// Convert writes one line per specification: the specification, its
// seconds and its scheduler format.
func Convert(specs []string, seconds bool, out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, spec := range specs {
		var n int
		var err error
		if seconds {
			n, err = strconv.Atoi(spec)
		} else {
			n, err = walltime.Parse(spec)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", spec, n, walltime.Format(n))
	}
	return w.Flush()
}
