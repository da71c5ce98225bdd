package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/boltdb/bolt"
	"github.com/ohsu-comp-bio/yatamana/database"
	"github.com/ohsu-comp-bio/yatamana/util/fsutil"
)

// JobBucket maps task key -> database.Job JSON
var JobBucket = []byte("jobs")

// JobIDs maps "backend/job id" -> task key
var JobIDs = []byte("job-ids")

// BoltDB stores the job journal in a BoltDB key-value database.
type BoltDB struct {
	db *bolt.DB
}

// NewBoltDB returns a new instance of BoltDB, accessing the database at
// the given path.
func NewBoltDB(path string) (*BoltDB, error) {
	_, err := fsutil.EnsurePath(path)
	if err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: time.Second * 5,
	})
	if err != nil {
		return nil, err
	}
	return &BoltDB{db: db}, nil
}

// Init creates the required BoltDB buckets
func (jobBolt *BoltDB) Init() error {
	return jobBolt.db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{JobBucket, JobIDs} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the database.
func (jobBolt *BoltDB) Close() {
	jobBolt.db.Close()
}

func jobIDKey(backend string, id int64) []byte {
	return []byte(fmt.Sprintf("%s/%d", backend, id))
}

// PutJob stores a job, replacing any record with the same key.
func (jobBolt *BoltDB) PutJob(ctx context.Context, job *database.Job) error {
	b, err := json.Marshal(job)
	if err != nil {
		return err
	}
	err = jobBolt.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(JobBucket).Put([]byte(job.Key), b); err != nil {
			return err
		}
		if job.DryRun {
			return nil
		}
		return tx.Bucket(JobIDs).Put(jobIDKey(job.Backend, job.JobID), []byte(job.Key))
	})
	if err != nil {
		return fmt.Errorf("error storing job in database: %s", err)
	}
	return nil
}

func getJob(tx *bolt.Tx, key []byte) (*database.Job, error) {
	b := tx.Bucket(JobBucket).Get(key)
	if b == nil {
		return nil, fmt.Errorf("%s: %w", key, database.ErrNotFound)
	}
	job := &database.Job{}
	if err := json.Unmarshal(b, job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJob returns the job recorded for a task key.
func (jobBolt *BoltDB) GetJob(ctx context.Context, key string) (*database.Job, error) {
	var job *database.Job
	err := jobBolt.db.View(func(tx *bolt.Tx) error {
		var err error
		job, err = getJob(tx, []byte(key))
		return err
	})
	return job, err
}

// GetJobByID returns the job submitted to backend with the given job id.
func (jobBolt *BoltDB) GetJobByID(ctx context.Context, backend string, id int64) (*database.Job, error) {
	var job *database.Job
	err := jobBolt.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(JobIDs).Get(jobIDKey(backend, id))
		if key == nil {
			return fmt.Errorf("%s/%d: %w", backend, id, database.ErrNotFound)
		}
		var err error
		job, err = getJob(tx, key)
		return err
	})
	return job, err
}

// ListJobs returns a page of jobs, most recent first.
func (jobBolt *BoltDB) ListJobs(ctx context.Context, req *database.ListJobsRequest) (*database.ListJobsResponse, error) {
	var jobs []*database.Job
	pageSize := database.GetPageSize(req.PageSize)

	err := jobBolt.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(JobBucket).Cursor()

		i := 0

		// For pagination, figure out the starting key.
		var k, v []byte
		if req.PageToken != "" {
			// Seek moves to the key, but the start of the page is the next key.
			c.Seek([]byte(req.PageToken))
			k, v = c.Prev()
		} else {
			// Keys (xids) are in ascending order, and we want the first page
			// to be the most recent job, so that's at the end of the list.
			k, v = c.Last()
		}

		for ; k != nil && i < pageSize; k, v = c.Prev() {
			job := &database.Job{}
			if err := json.Unmarshal(v, job); err != nil {
				return err
			}
			if !strings.HasPrefix(job.Name, req.NamePrefix) {
				continue
			}
			jobs = append(jobs, job)
			i++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := database.ListJobsResponse{
		Jobs: jobs,
	}
	if len(jobs) == pageSize {
		out.NextPageToken = jobs[len(jobs)-1].Key
	}
	return &out, nil
}
