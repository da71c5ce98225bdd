// Package chunk implements the "chunk" command, which submits many
// commands grouped into jobs of a fixed number of commands each.
package chunk

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/ohsu-comp-bio/yatamana/cmd/submit"
	"github.com/ohsu-comp-bio/yatamana/cmd/util"
	"github.com/ohsu-comp-bio/yatamana/config"
	"github.com/ohsu-comp-bio/yatamana/task"
	"github.com/spf13/cobra"
)

// NewCommand returns the "chunk" command.
func NewCommand() *cobra.Command {
	cmd, _ := newCommandHooks()
	return cmd
}

type hooks struct {
	Run func(ctx context.Context, conf config.Config, opts Options, in io.Reader, out io.Writer) error
}

// Options of the chunk command.
type Options struct {
	Class string
	// Size is the number of commands per job. Zero uses chunk_size from
	// the configuration.
	Size  int
	After []int64
}

func newCommandHooks() (*cobra.Command, *hooks) {
	h := &hooks{
		Run: Run,
	}

	var (
		configFile string
		flagConf   config.Config
		lenient    bool
		opts       Options
	)

	cmd := &cobra.Command{
		Use:   "chunk [flags] [FILE...]",
		Short: "Submit commands in chunks, one command per line.",
		Long: `Read commands, one per line, from the given files or from stdin and
submit them in jobs of --size commands each. Each job prints a line with
its job id and the number of commands it runs. Empty lines and lines
starting with # are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := util.LoadConfig(configFile, flagConf, lenient)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}

			var in io.Reader = util.StdinPipe()
			if len(args) > 0 {
				readers := make([]io.Reader, 0, len(args))
				for _, path := range args {
					f, err := os.Open(path)
					if err != nil {
						return err
					}
					defer f.Close()
					readers = append(readers, f)
				}
				in = io.MultiReader(readers...)
			}
			return h.Run(cmd.Context(), conf, opts, in, cmd.OutOrStdout())
		},
	}

	cmd.SetGlobalNormalizationFunc(util.NormalizeFlags)
	f := cmd.Flags()
	f.AddFlagSet(util.ConfigFlags(&flagConf, &configFile, &lenient))
	f.StringVar(&opts.Class, "class", "Task", "Task class of every command")
	f.IntVarP(&opts.Size, "size", "s", 0, "Commands per job (default from chunk_size, else 5)")
	f.Int64SliceVarP(&opts.After, "after", "a", nil, "Job ids which must succeed first")

	return cmd, h
}

// ReadCommands reads one shell command per line. Lines are kept as
// written, so quoting and redirections reach the runner unchanged.
func ReadCommands(in io.Reader) ([]string, error) {
	var cmds []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := shellquote.Split(line); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", line, err)
		}
		cmds = append(cmds, line)
	}
	return cmds, scanner.Err()
}

// Run submits the commands read from in and reports every chunk to out.
func Run(ctx context.Context, conf config.Config, opts Options, in io.Reader, out io.Writer) error {
	cmds, err := ReadCommands(in)
	if err != nil {
		return err
	}

	m, log, err := util.NewManager(conf, nil)
	if err != nil {
		return err
	}
	defer m.Close()

	tasks := make([]task.Task, 0, len(cmds))
	for _, c := range cmds {
		t, err := submit.NewTask(m, &submit.Request{Class: opts.Class, Command: []string{c}, After: opts.After})
		if err != nil {
			return err
		}
		tasks = append(tasks, t)
	}
	log.Info("Submitting commands", "count", len(tasks))

	return m.EnqueueChunked(ctx, tasks, opts.Size, func(c *task.Chunk) error {
		id, _ := c.JobID()
		_, err := fmt.Fprintf(out, "%d\t%d\n", id, len(c.Tasks))
		return err
	})
}
