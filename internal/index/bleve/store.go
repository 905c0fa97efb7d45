package bleve

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"go.etcd.io/bbolt"

	"ctlgrep/internal/index/store"
)

// Store keeps control documents in a bleve index and snapshot metadata
// (source, control counts) in a bbolt side database. Control text is a
// stored field: searches read it back verbatim.
type Store struct {
	path string
	idx  bleve.Index
	meta *bbolt.DB
}

func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("dbPath is required")
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}

	var idx bleve.Index
	if _, err := os.Stat(filepath.Join(path, "index_meta.json")); err == nil {
		idx, err = bleve.Open(path)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		idx, err = bleve.New(path, buildMapping())
		if err != nil {
			return nil, err
		}
	}

	meta, err := bbolt.Open(filepath.Join(path, "ctlgrep-meta.db"), 0o600, nil)
	if err != nil {
		_ = idx.Close()
		return nil, err
	}

	s := &Store{path: path, idx: idx, meta: meta}
	if err := s.ensureBuckets(); err != nil {
		_ = meta.Close()
		_ = idx.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	if s.idx != nil {
		_ = s.idx.Close()
	}
	if s.meta != nil {
		_ = s.meta.Close()
	}
	return nil
}

func (s *Store) Backend() string { return "bleve" }

func (s *Store) EnsureSnapshot(id string, source string) error {
	if s == nil || s.meta == nil {
		return fmt.Errorf("store is not open")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("snapshot id is required")
	}
	return s.upsertSnapshotMeta(id, source, -1)
}

func (s *Store) GetSnapshot(id string) (store.Snapshot, error) {
	if s == nil || s.meta == nil {
		return store.Snapshot{}, fmt.Errorf("store is not open")
	}
	m, ok, err := s.getSnapshotMeta(id)
	if err != nil {
		return store.Snapshot{}, err
	}
	if !ok {
		return store.Snapshot{}, fmt.Errorf("snapshot not found")
	}
	return store.Snapshot{ID: m.ID, Source: m.Source, CreatedAt: m.CreatedAt}, nil
}

func (s *Store) ReplaceControls(snapshotID string, controls []store.Control) error {
	if s == nil || s.idx == nil {
		return fmt.Errorf("store is not open")
	}
	snapshotID = strings.TrimSpace(snapshotID)
	if snapshotID == "" {
		return fmt.Errorf("snapshot id is required")
	}
	for _, c := range controls {
		if strings.TrimSpace(c.Component) == "" || strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("control component and name are required")
		}
	}

	old, _, err := s.getSnapshotMeta(snapshotID)
	if err != nil {
		return err
	}

	batch := s.idx.NewBatch()
	for i := 0; i < old.ControlCount; i++ {
		batch.Delete(controlDocID(snapshotID, i))
	}
	for i, c := range controls {
		doc := map[string]any{
			"snapshot_id": snapshotID,
			"component":   c.Component,
			"name":        c.Name,
			"text":        c.Text,
			"seq":         i,
		}
		if err := batch.Index(controlDocID(snapshotID, i), doc); err != nil {
			return err
		}
	}
	if err := s.idx.Batch(batch); err != nil {
		return err
	}

	return s.upsertSnapshotMeta(snapshotID, "", len(controls))
}

func (s *Store) Controls(snapshotID string) ([]store.Control, error) {
	if s == nil || s.idx == nil {
		return nil, fmt.Errorf("store is not open")
	}
	snapshotID = strings.TrimSpace(snapshotID)
	if snapshotID == "" {
		return nil, fmt.Errorf("snapshot id is required")
	}

	m, ok, err := s.getSnapshotMeta(snapshotID)
	if err != nil {
		return nil, err
	}
	if !ok || m.ControlCount == 0 {
		return nil, nil
	}

	q := bleve.NewTermQuery(snapshotID)
	q.SetField("snapshot_id")

	type row struct {
		seq int
		c   store.Control
	}
	var rows []row

	const page = 500
	for offset := 0; offset < m.ControlCount; offset += page {
		req := bleve.NewSearchRequestOptions(q, page, offset, false)
		req.Fields = []string{"component", "name", "text", "seq"}

		res, err := s.idx.Search(req)
		if err != nil {
			return nil, err
		}
		for _, hit := range res.Hits {
			r := row{}
			if v, ok := hit.Fields["component"].(string); ok {
				r.c.Component = v
			}
			if v, ok := hit.Fields["name"].(string); ok {
				r.c.Name = v
			}
			if v, ok := hit.Fields["text"].(string); ok {
				r.c.Text = v
			}
			if v, ok := toInt(hit.Fields["seq"]); ok {
				r.seq = v
			}
			rows = append(rows, r)
		}
		if len(res.Hits) < page {
			break
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]store.Control, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.c)
	}
	return out, nil
}

func (s *Store) CountControls(snapshotID string) (int, error) {
	if s == nil || s.meta == nil {
		return 0, fmt.Errorf("store is not open")
	}
	snapshotID = strings.TrimSpace(snapshotID)
	if snapshotID == "" {
		return 0, fmt.Errorf("snapshot id is required")
	}
	m, _, err := s.getSnapshotMeta(snapshotID)
	if err != nil {
		return 0, err
	}
	return m.ControlCount, nil
}

func buildMapping() mapping.IndexMapping {
	idxMapping := bleve.NewIndexMapping()
	idxMapping.DefaultAnalyzer = "standard"

	doc := bleve.NewDocumentMapping()
	doc.Dynamic = false

	keyword := bleve.NewTextFieldMapping()
	keyword.Analyzer = "keyword"
	keyword.Store = true
	keyword.Index = true
	keyword.DocValues = true

	text := bleve.NewTextFieldMapping()
	text.Analyzer = "standard"
	text.Store = true
	text.Index = true

	num := bleve.NewNumericFieldMapping()
	num.Store = true
	num.Index = true
	num.DocValues = true

	doc.AddFieldMappingsAt("snapshot_id", keyword)
	doc.AddFieldMappingsAt("component", keyword)
	doc.AddFieldMappingsAt("name", keyword)
	doc.AddFieldMappingsAt("text", text)
	doc.AddFieldMappingsAt("seq", num)

	idxMapping.DefaultMapping = doc
	return idxMapping
}

func controlDocID(snapshotID string, seq int) string {
	return fmt.Sprintf("ctl|%s|%d", strings.ReplaceAll(snapshotID, "|", "%7C"), seq)
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case float32:
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	default:
		return 0, false
	}
}
