// Package jobs implements the "jobs" commands, which read the job journal.
package jobs

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/ghodss/yaml"
	"github.com/ohsu-comp-bio/yatamana/cmd/util"
	"github.com/ohsu-comp-bio/yatamana/config"
	"github.com/ohsu-comp-bio/yatamana/database"
	"github.com/ohsu-comp-bio/yatamana/database/boltdb"
	"github.com/spf13/cobra"
)

// NewCommand returns the "jobs" subcommands.
func NewCommand() *cobra.Command {
	cmd, _ := newCommandHooks()
	return cmd
}

type hooks struct {
	Open func(conf config.Config) (database.JobStore, error)
}

func newCommandHooks() (*cobra.Command, *hooks) {
	h := &hooks{
		Open: Open,
	}

	var (
		configFile string
		jobStore   string
		conf       config.Config
	)

	cmd := &cobra.Command{
		Use:     "jobs",
		Aliases: []string{"job"},
		Short:   "Read the journal of submitted jobs.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			conf, err = util.MergeConfigFileWithFlags(configFile, config.Config{JobStore: jobStore})
			if err != nil {
				return fmt.Errorf("error processing config: %v", err)
			}
			return nil
		},
	}
	cmd.SetGlobalNormalizationFunc(util.NormalizeFlags)
	f := cmd.PersistentFlags()
	f.StringVarP(&configFile, "config", "c", "", "Config File")
	f.StringVar(&jobStore, "job-store", "", "Path of the job journal")

	var (
		pageToken  string
		pageSize   int
		namePrefix string
		listAll    bool
	)

	list := &cobra.Command{
		Use:   "list",
		Short: "List jobs, most recent first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := h.Open(conf)
			if err != nil {
				return err
			}
			defer db.Close()
			req := &database.ListJobsRequest{
				PageSize:   pageSize,
				PageToken:  pageToken,
				NamePrefix: namePrefix,
			}
			return List(cmd.Context(), db, req, listAll, cmd.OutOrStdout())
		},
	}

	lf := list.Flags()
	lf.StringVarP(&pageToken, "page-token", "p", pageToken, "Page token")
	lf.IntVarP(&pageSize, "page-size", "s", pageSize, "Page size")
	lf.StringVarP(&namePrefix, "name", "n", namePrefix, "Only jobs whose name starts with this prefix")
	lf.BoolVar(&listAll, "all", listAll, "List all jobs")

	get := &cobra.Command{
		Use:   "get [key ...]",
		Short: "Get one or more jobs by task key.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := h.Open(conf)
			if err != nil {
				return err
			}
			defer db.Close()
			return Get(cmd.Context(), db, args, cmd.OutOrStdout())
		},
	}

	id := &cobra.Command{
		Use:   "id BACKEND JOB_ID",
		Short: "Get a job by its batch system job id.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q: %w", args[1], err)
			}
			db, err := h.Open(conf)
			if err != nil {
				return err
			}
			defer db.Close()
			job, err := db.GetJobByID(cmd.Context(), args[0], jobID)
			if err != nil {
				return err
			}
			return writeYaml(cmd.OutOrStdout(), job)
		},
	}

	cmd.AddCommand(list, get, id)
	return cmd, h
}

// Open opens the configured job journal.
func Open(conf config.Config) (database.JobStore, error) {
	if conf.JobStore == "" {
		return nil, &config.ConfigurationError{Section: "job_store", Reason: "no job journal configured"}
	}
	db, err := boltdb.NewBoltDB(conf.JobStore)
	if err != nil {
		return nil, err
	}
	if err := db.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// List writes a table of jobs. With all set every page is listed;
// otherwise the next page token, if any, follows the table.
func List(ctx context.Context, db database.JobStore, req *database.ListJobsRequest, all bool, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tJOB ID\tBACKEND\tNAME\tTASKS\tSUBMITTED")

	for {
		resp, err := db.ListJobs(ctx, req)
		if err != nil {
			return err
		}
		for _, j := range resp.Jobs {
			tasks := 1
			if len(j.Members) > 0 {
				tasks = len(j.Members)
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\t%s\n",
				j.Key, j.JobID, j.Backend, j.Name, tasks, j.SubmittedAt.Format(time.RFC3339))
		}
		req.PageToken = resp.NextPageToken
		if !all || resp.NextPageToken == "" {
			break
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if req.PageToken != "" {
		fmt.Fprintln(w, "next page token:", req.PageToken)
	}
	return nil
}

// Get writes the jobs with the given keys as YAML documents.
func Get(ctx context.Context, db database.JobStore, keys []string, w io.Writer) error {
	for i, key := range keys {
		job, err := db.GetJob(ctx, key)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(w, "---")
		}
		if err := writeYaml(w, job); err != nil {
			return err
		}
	}
	return nil
}

func writeYaml(w io.Writer, job *database.Job) error {
	b, err := yaml.Marshal(job)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
