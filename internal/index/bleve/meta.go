package bleve

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

const bucketSnapshots = "snapshots"

type snapshotMeta struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	CreatedAt    int64  `json:"created_at"`
	ControlCount int    `json:"control_count"`
}

func (s *Store) ensureBuckets() error {
	return s.meta.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSnapshots))
		return err
	})
}

func (s *Store) getSnapshotMeta(id string) (snapshotMeta, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return snapshotMeta{}, false, fmt.Errorf("snapshot id is required")
	}

	var m snapshotMeta
	var ok bool
	err := s.meta.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketSnapshots))
		if b == nil {
			return nil
		}
		raw := b.Get([]byte(id))
		if raw == nil {
			return nil
		}
		ok = true
		return json.Unmarshal(raw, &m)
	})
	return m, ok, err
}

// upsertSnapshotMeta merges the non-empty source and, when
// controlCount >= 0, the new count into the stored record.
func (s *Store) upsertSnapshotMeta(id string, source string, controlCount int) error {
	return s.meta.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucketSnapshots))
		if err != nil {
			return err
		}

		m := snapshotMeta{ID: id, CreatedAt: time.Now().Unix()}
		if raw := b.Get([]byte(id)); raw != nil {
			if err := json.Unmarshal(raw, &m); err != nil {
				return err
			}
		}
		if source != "" {
			m.Source = source
		}
		if controlCount >= 0 {
			m.ControlCount = controlCount
		}

		buf, err := json.Marshal(m)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), buf)
	})
}
