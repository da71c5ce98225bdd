// Package manager submits tasks to a batch scheduler: it resolves their
// options, writes runner scripts, runs the submission command and keeps
// track of the job ids it receives.
package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/kballard/go-shellquote"
	"github.com/ohsu-comp-bio/yatamana/compute"
	"github.com/ohsu-comp-bio/yatamana/config"
	"github.com/ohsu-comp-bio/yatamana/database"
	"github.com/ohsu-comp-bio/yatamana/database/boltdb"
	"github.com/ohsu-comp-bio/yatamana/logger"
	"github.com/ohsu-comp-bio/yatamana/metrics"
	"github.com/ohsu-comp-bio/yatamana/task"
	"github.com/ohsu-comp-bio/yatamana/util"
	"github.com/ohsu-comp-bio/yatamana/util/fsutil"
	"golang.org/x/time/rate"
)

// Manager submits tasks to a backend. A Manager may be shared between
// goroutines, but each task must be enqueued by one goroutine only.
type Manager struct {
	conf      config.Config
	backend   compute.Backend
	run       Launcher
	log       *logger.Logger
	salt      string
	submitCmd string
	limiter   *rate.Limiter
	store     database.JobStore
	metrics   *metrics.Metrics
	now       func() time.Time

	mtx  sync.Mutex
	jobs map[task.Key]task.JobID
}

// NewManager returns a manager submitting to backend. A nil launcher runs
// the submission command as a child process. The job journal is opened
// when conf.JobStore is set; call Close to release it.
func NewManager(conf config.Config, backend compute.Backend, run Launcher, log *logger.Logger) (*Manager, error) {
	if backend == nil {
		return nil, &ConfigurationError{Section: "manager", Reason: "no backend"}
	}
	if run == nil {
		run = ExternalLauncher
	}

	m := &Manager{
		conf:    conf,
		backend: backend,
		run:     run,
		log:     log,
		salt:    conf.Salt,
		metrics: metrics.New(),
		now:     time.Now,
		jobs:    map[task.Key]task.JobID{},
	}

	if m.salt == "" {
		m.salt = util.RandomToken(6)
	}

	m.submitCmd = conf.SubmitCommand
	if m.submitCmd == "" {
		m.submitCmd = backend.DefaultSubmitCommand()
		log.Info("Using default submit command", "submit_command", m.submitCmd)
	}

	if conf.SubmitRate > 0 {
		m.limiter = rate.NewLimiter(rate.Limit(conf.SubmitRate), 1)
	} else {
		m.limiter = rate.NewLimiter(rate.Inf, 0)
	}

	if conf.JobStore != "" {
		db, err := boltdb.NewBoltDB(conf.JobStore)
		if err != nil {
			return nil, fmt.Errorf("opening job store: %w", err)
		}
		if err := db.Init(); err != nil {
			db.Close()
			return nil, fmt.Errorf("initializing job store: %w", err)
		}
		m.store = db
	}
	return m, nil
}

// Close releases the job journal.
func (m *Manager) Close() {
	if m.store != nil {
		m.store.Close()
	}
}

// Salt returns the value substituted for %(salt)s.
func (m *Manager) Salt() string {
	return m.salt
}

// Backend returns the backend tasks are submitted to.
func (m *Manager) Backend() compute.Backend {
	return m.backend
}

// Store returns the job journal, or nil.
func (m *Manager) Store() database.JobStore {
	return m.store
}

// Metrics returns the submission metrics.
func (m *Manager) Metrics() *metrics.Metrics {
	return m.metrics
}

// Values returns the values available to format strings in options.
func (m *Manager) Values() map[string]string {
	vals := make(map[string]string, len(m.conf.Vars)+4)
	for k, v := range m.conf.Vars {
		vals[k] = v
	}
	vals["salt"] = m.salt
	vals["shared_tmp"] = m.conf.SharedTmp
	vals["submit_command"] = m.submitCmd
	vals["manager"] = m.backend.Name()
	return vals
}

// TaskDefaults returns the default options of tasks of the given class.
func (m *Manager) TaskDefaults(class string) (*task.Options, error) {
	raw, found, err := m.conf.TaskDefaults(class)
	if err != nil {
		m.log.Error("Missing a runner section", err)
		return nil, err
	}
	if !found {
		m.log.Warn("Missing a tasks section", "class", class)
	}
	return task.DecodeOptions(raw, func(key string) {
		m.log.Warn("Unknown option", "class", class, "option", key)
	})
}

func (m *Manager) applyDefaults(t task.Task) error {
	defaults, err := m.TaskDefaults(t.Class())
	if err != nil {
		return err
	}
	t.UpdateDefaults(defaults)
	return nil
}

// Enqueue applies the class defaults to t and submits it.
func (m *Manager) Enqueue(ctx context.Context, t task.Task) error {
	if err := m.applyDefaults(t); err != nil {
		return err
	}
	return m.EnqueueInner(ctx, t)
}

// EnqueueGroup submits tasks as a single job running them in sequence.
func (m *Manager) EnqueueGroup(ctx context.Context, tasks []task.Task) (*task.Chunk, error) {
	for _, t := range tasks {
		if err := m.applyDefaults(t); err != nil {
			return nil, err
		}
	}
	chunk, err := task.NewChunk(tasks...)
	if err != nil {
		return nil, err
	}
	chunk.Log = m.log.NewSubLogger("chunk")
	if err := m.Enqueue(ctx, chunk); err != nil {
		return chunk, err
	}
	return chunk, nil
}

// EnqueueInner submits t without applying defaults. On success t has a job
// id: the backend's, or task.DryRunJobID in dry-run mode.
func (m *Manager) EnqueueInner(ctx context.Context, t task.Task) error {
	if id, ok := t.JobID(); ok {
		return &InvariantViolation{
			Task:   t.String(),
			Reason: fmt.Sprintf("enqueued with job id %d already assigned", id),
		}
	}

	opts, err := t.Resolve(&task.Context{Values: m.Values(), Jobs: m}, true)
	if err != nil {
		return err
	}

	if lf := opts.LogFilename(); lf != "" {
		if _, err := fsutil.EnsurePath(lf); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
	}
	if ld := opts.LogDirectory(); ld != "" {
		if _, err := fsutil.EnsureDir(ld); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
	}

	args, err := m.backend.Map(opts)
	if err != nil {
		if m.conf.StrictOptions || !onlyUnmapped(err) {
			return err
		}
		m.log.Error("Dropping options the backend cannot map", "task", t.String(), "error", err)
	}

	runner, err := m.makeRunner(t)
	if err != nil {
		return err
	}
	m.log.Info("Prepared a runner file", "runner", runner)

	cmd := append([]string{m.submitCmd}, args.Flatten()...)
	cmd = append(cmd, runner)
	if err := m.appendFooter(runner, cmd); err != nil {
		return err
	}

	job := &metrics.Job{
		Backend:  m.backend.Name(),
		Tasks:    taskCount(t),
		Cores:    opts.Cores(),
		MemoryGB: opts.Memory(),
	}

	if m.conf.DryRun {
		m.log.Info("Would run", "command", shellquote.Join(cmd...))
		if err := t.SetJobID(task.DryRunJobID); err != nil {
			return err
		}
		job.Outcome = metrics.DryRun
		m.observe(*job)
		m.record(ctx, t, task.DryRunJobID, runner, cmd)
		return nil
	}

	id, err := m.submit(ctx, cmd, job)
	if err != nil {
		return err
	}
	if err := t.SetJobID(id); err != nil {
		return err
	}
	m.log.Info("Enqueued", "task", t.String(), "job_id", id)
	m.record(ctx, t, id, runner, cmd)
	return nil
}

// submit runs the submission command and parses the job id from its
// output.
func (m *Manager) submit(ctx context.Context, cmd []string, job *metrics.Job) (task.JobID, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	start := m.now()
	out, err := m.launch(ctx, cmd)
	job.Duration = m.now().Sub(start)
	if err != nil {
		job.Outcome = metrics.Failed
		m.observe(*job)
		return 0, &SubmissionError{Command: cmd, Output: out, Err: err}
	}

	id, err := m.backend.ParseJobID(out)
	if err != nil {
		job.Outcome = metrics.Failed
		m.observe(*job)
		return 0, err
	}
	job.Outcome = metrics.Submitted
	m.observe(*job)
	return id, nil
}

// launch runs the submission command once, bounded by SubmitTimeout.
func (m *Manager) launch(ctx context.Context, cmd []string) (string, error) {
	if timeout := time.Duration(m.conf.SubmitTimeout); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return m.run.Run(ctx, cmd)
}

func (m *Manager) observe(job metrics.Job) {
	m.metrics.Observe(job)
	if m.conf.MetricsFile == "" {
		return
	}
	if err := m.metrics.WriteToTextfile(m.conf.MetricsFile); err != nil {
		m.log.Error("Can't write metrics file", "metrics_file", m.conf.MetricsFile, "error", err)
	}
}

// record adds t to the job table and the journal. Journal failures are
// logged; the job has been submitted regardless.
func (m *Manager) record(ctx context.Context, t task.Task, id task.JobID, runner string, cmd []string) {
	m.mtx.Lock()
	m.jobs[t.Key()] = id
	var members []string
	if chunk, ok := t.(*task.Chunk); ok {
		for _, member := range chunk.Tasks {
			m.jobs[member.Key()] = id
			members = append(members, string(member.Key()))
		}
	}
	m.mtx.Unlock()

	if m.store == nil {
		return
	}
	err := m.store.PutJob(ctx, &database.Job{
		Key:         string(t.Key()),
		Class:       t.Class(),
		Name:        t.Opts().Name(),
		JobID:       int64(id),
		Backend:     m.backend.Name(),
		Runner:      runner,
		Command:     cmd,
		Members:     members,
		DryRun:      id == task.DryRunJobID,
		SubmittedAt: m.now(),
	})
	if err != nil {
		m.log.Error("Can't record job", "task", t.String(), "error", err)
	}
}

// JobIDOf returns the job id of the task with the given key. Tasks
// submitted as part of a chunk share the chunk's job id. Keys unknown to
// this manager are looked up in the job journal.
func (m *Manager) JobIDOf(key task.Key) (task.JobID, bool) {
	m.mtx.Lock()
	id, ok := m.jobs[key]
	m.mtx.Unlock()
	if ok || m.store == nil {
		return id, ok
	}

	job, err := m.store.GetJob(context.Background(), string(key))
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			m.log.Error("Can't read job store", "key", key, "error", err)
		}
		return 0, false
	}
	return task.JobID(job.JobID), true
}

// Adopt registers a job submitted elsewhere and returns a key tasks can
// depend on.
func (m *Manager) Adopt(id task.JobID) task.Key {
	key := task.Key(util.GenTaskKey())
	m.mtx.Lock()
	m.jobs[key] = id
	m.mtx.Unlock()
	return key
}

func taskCount(t task.Task) int {
	if chunk, ok := t.(*task.Chunk); ok {
		return len(chunk.Tasks)
	}
	return 1
}

// onlyUnmapped reports whether err consists of unmapped options only.
func onlyUnmapped(err error) bool {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		var ue *compute.UnmappedOptionError
		return errors.As(err, &ue)
	}
	for _, e := range merr.Errors {
		var ue *compute.UnmappedOptionError
		if !errors.As(e, &ue) {
			return false
		}
	}
	return true
}
