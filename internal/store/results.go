// SPDX-License-Identifier: MIT

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/qbraid/qbraid-go/internal/runtime"
)

// resultKeyPrefix namespaces result entries within the Badger keyspace.
const resultKeyPrefix = "result:"

// DefaultResultTTL bounds how long fetched result payloads are kept.
const DefaultResultTTL = 30 * 24 * time.Hour

// Results caches fetched job results so terminal jobs are not re-read
// from the platform or S3 on every access.
type Results struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenResults opens the result store at path.
func OpenResults(path string, ttl time.Duration) (*Results, error) {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open failed: %w", err)
	}
	return &Results{db: db, ttl: ttl}, nil
}

// Close releases the database handle.
func (r *Results) Close() error { return r.db.Close() }

// Put stores a result under its job ID.
func (r *Results) Put(res *runtime.Result) error {
	buf, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	key := []byte(resultKeyPrefix + res.JobID)
	return r.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, buf).WithTTL(r.ttl)
		return txn.SetEntry(entry)
	})
}

// Get returns the stored result for a job, or ErrNotFound.
func (r *Results) Get(jobID string) (*runtime.Result, error) {
	key := []byte(resultKeyPrefix + jobID)
	var out runtime.Result
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("get result %s: %w", jobID, err)
	}
	return &out, nil
}

// Delete removes a stored result. Deleting a missing key is not an
// error.
func (r *Results) Delete(jobID string) error {
	key := []byte(resultKeyPrefix + jobID)
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}
