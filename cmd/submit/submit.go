// Package submit implements the "submit" command, which enqueues a single
// command as a batch job.
package submit

import (
	"context"
	"fmt"
	"io"

	"github.com/kballard/go-shellquote"
	"github.com/ohsu-comp-bio/yatamana/cmd/util"
	"github.com/ohsu-comp-bio/yatamana/config"
	"github.com/ohsu-comp-bio/yatamana/manager"
	"github.com/ohsu-comp-bio/yatamana/task"
	"github.com/spf13/cobra"
)

// Request describes the task to submit.
type Request struct {
	Class   string
	Command []string
	// Out makes the task a file task which is skipped when Out exists.
	Out string
	// After lists job ids the task depends on.
	After []int64
	// Opts are options in config file syntax, e.g. "memory": "8G".
	Opts map[string]interface{}
}

// NewCommand returns the "submit" command.
func NewCommand() *cobra.Command {
	cmd, _ := newCommandHooks()
	return cmd
}

type hooks struct {
	Submit func(ctx context.Context, conf config.Config, req *Request, out io.Writer) error
}

func newCommandHooks() (*cobra.Command, *hooks) {
	h := &hooks{
		Submit: Submit,
	}

	var (
		configFile string
		flagConf   config.Config
		lenient    bool
		req        = &Request{}

		name, walltime, memory, qos, logFilename, logDirectory, raw string
		cores                                                       int
		modules                                                     []string
	)

	cmd := &cobra.Command{
		Use:   "submit [flags] -- CMD [ARG...]",
		Short: "Submit a command as a batch job.",
		Long: `Submit a command as a batch job and print its job id.

A single argument is split like a shell would split it:

  yatamana submit -m slurm --cores 4 'bwa mem ref.fa reads.fq > out.sam'
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := util.LoadConfig(configFile, flagConf, lenient)
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}

			req.Command = args
			if len(args) == 1 {
				req.Command, err = shellquote.Split(args[0])
				if err != nil {
					return err
				}
			}

			req.Opts = map[string]interface{}{}
			f := cmd.Flags()
			set := func(flag, key string, v interface{}) {
				if f.Changed(flag) {
					req.Opts[key] = v
				}
			}
			set("name", task.KeyName, name)
			set("walltime", task.KeyWalltime, walltime)
			set("cores", task.KeyCores, cores)
			set("memory", task.KeyMemory, memory)
			set("qos", task.KeyQOS, qos)
			set("log-filename", task.KeyLogFilename, logFilename)
			set("log-directory", task.KeyLogDirectory, logDirectory)
			set("raw", task.KeyRaw, raw)
			set("module", task.KeyModules, modules)

			return h.Submit(cmd.Context(), conf, req, cmd.OutOrStdout())
		},
	}

	cmd.SetGlobalNormalizationFunc(util.NormalizeFlags)
	f := cmd.Flags()
	f.AddFlagSet(util.ConfigFlags(&flagConf, &configFile, &lenient))
	f.StringVar(&req.Class, "class", "Task", "Task class selecting the tasks.<class> defaults")
	f.StringVarP(&req.Out, "out", "o", "", "Output file; the command is skipped when it exists")
	f.Int64SliceVarP(&req.After, "after", "a", nil, "Job ids which must succeed first")
	f.StringVar(&name, "name", "", "Job name")
	f.StringVarP(&walltime, "walltime", "t", "", "Walltime, e.g. 90 or 1-12:00:00")
	f.IntVar(&cores, "cores", 0, "Number of cores")
	f.StringVar(&memory, "memory", "", "Memory, e.g. 8 or 8G")
	f.StringVar(&qos, "qos", "", "Quality of service")
	f.StringVar(&logFilename, "log-filename", "", "Job log file")
	f.StringVar(&logDirectory, "log-directory", "", "Job log directory")
	f.StringVar(&raw, "raw", "", "Extra arguments of the submission command")
	f.StringSliceVar(&modules, "module", nil, "Environment modules to load")

	return cmd, h
}

// Submit enqueues the requested task and writes its job id to out.
func Submit(ctx context.Context, conf config.Config, req *Request, out io.Writer) error {
	m, log, err := util.NewManager(conf, nil)
	if err != nil {
		return err
	}
	defer m.Close()

	t, err := NewTask(m, req)
	if err != nil {
		return err
	}
	if t.IsFinished() {
		log.Info("Output exists, skipping", "task", t.String(), "out", req.Out)
		return nil
	}
	if err := m.Enqueue(ctx, t); err != nil {
		return err
	}
	id, _ := t.JobID()
	fmt.Fprintln(out, id)
	return nil
}

// NewTask builds the task described by req. Dependencies on job ids are
// adopted by m.
func NewTask(m *manager.Manager, req *Request) (task.Task, error) {
	class := req.Class
	if class == "" {
		class = "Task"
	}

	var t task.Task
	if req.Out != "" {
		t = task.NewFileTask(class, req.Out, req.Command...)
	} else {
		t = task.New(class, req.Command...)
	}

	opts, err := task.DecodeOptions(req.Opts, nil)
	if err != nil {
		return nil, err
	}
	t.Opts().Merge(opts)

	if len(req.After) > 0 {
		deps := make(task.Dependencies, len(req.After))
		for i, id := range req.After {
			deps[i] = m.Adopt(task.JobID(id))
		}
		t.Opts().Set(deps)
	}
	return t, nil
}
