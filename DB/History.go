package DB

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"go.uber.org/multierr"
)

const runsBucket = "Runs"

var latestKey = []byte("latest")

// ErrNoRuns is returned by Latest on an empty history
var ErrNoRuns = errors.New("no runs recorded")

// LabelStats is the per-consensus summary stored with a run
type LabelStats struct {
	Rows        int
	MeanUsers   float64
	MeanLatency float64
	MeanGas     float64
	MeanEnergy  float64
}

// RunRecord describes one finished generator run. Seq is assigned by AddRun.
type RunRecord struct {
	Seq      uint64
	ID       string
	Started  int64
	Finished int64
	Users    int
	Steps    int
	Out      string
	Paths    []string
	Labels   map[string]LabelStats
}

// Serialize encodes the record for storage
func (rr *RunRecord) Serialize() ([]byte, error) {

	result := new(bytes.Buffer)
	if err := gob.NewEncoder(result).Encode(rr); err != nil {
		return nil, fmt.Errorf("encoding run %s: %w", rr.ID, err)
	}
	return result.Bytes(), nil
}

// DeserializeRun decodes a stored record
func DeserializeRun(data []byte) (*RunRecord, error) {

	record := new(RunRecord)
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(record); err != nil {
		return nil, fmt.Errorf("decoding run: %w", err)
	}
	return record, nil
}

// Duration is the wall time the run took
func (rr *RunRecord) Duration() time.Duration {
	return time.Unix(0, rr.Finished).Sub(time.Unix(0, rr.Started))
}

// History is a bolt database of generator runs keyed by insertion sequence
type History struct {
	DataBase *bolt.DB
}

// OpenHistory opens or creates the history database at path
func OpenHistory(path string) (*History, error) {

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(runsBucket))
		return err
	})
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("creating runs bucket: %w", err), db.Close())
	}

	return &History{DataBase: db}, nil
}

// AddRun stores rr under the next sequence number and points latest at it. Runs
// sharing an id are all kept.
func (h *History) AddRun(rr *RunRecord) error {

	return h.DataBase.Update(func(tx *bolt.Tx) error {

		bucket := tx.Bucket([]byte(runsBucket))
		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("allocating run sequence: %w", err)
		}
		rr.Seq = seq

		data, err := rr.Serialize()
		if err != nil {
			return err
		}
		key := seqKey(seq)
		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("storing run %s: %w", rr.ID, err)
		}
		return bucket.Put(latestKey, key)
	})
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// Latest returns the most recently added run
func (h *History) Latest() (*RunRecord, error) {

	var record *RunRecord
	err := h.DataBase.View(func(tx *bolt.Tx) error {

		bucket := tx.Bucket([]byte(runsBucket))
		id := bucket.Get(latestKey)
		if id == nil {
			return ErrNoRuns
		}
		data := bucket.Get(id)
		if data == nil {
			return fmt.Errorf("latest run %x missing", id)
		}

		var err error
		record, err = DeserializeRun(data)
		return err
	})
	return record, err
}

// Runs calls fn for every stored run, oldest first, until fn returns false
func (h *History) Runs(fn func(*RunRecord) bool) error {

	return h.DataBase.View(func(tx *bolt.Tx) error {

		c := tx.Bucket([]byte(runsBucket)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if bytes.Equal(k, latestKey) {
				continue
			}
			record, err := DeserializeRun(v)
			if err != nil {
				return err
			}
			if !fn(record) {
				return nil
			}
		}
		return nil
	})
}

func (h *History) Close() error {
	return h.DataBase.Close()
}
