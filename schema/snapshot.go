package schema

import (
	"context"
	"errors"
	"time"
)

// ErrSnapshotMiss is returned by a SnapshotStore that holds nothing for a database.
var ErrSnapshotMiss = errors.New("fluentdao: catalog snapshot not cached")

// Snapshot is the serializable form of a Catalog.
// Complete is set when every table of the database was reflected.
type Snapshot struct {
	Database string        `json:"database"`
	Complete bool          `json:"complete"`
	LoadedAt time.Time     `json:"loaded_at"`
	Tables   []TableSchema `json:"tables"`
}

// SnapshotStore caches catalog snapshots between processes.
type SnapshotStore interface {
	Get(ctx context.Context, database string) (*Snapshot, error)
	Put(ctx context.Context, snapshot *Snapshot) error
}

// Snapshot captures the catalog.
func (c *Catalog) Snapshot(complete bool) *Snapshot {
	s := &Snapshot{
		Database: c.database,
		Complete: complete,
		LoadedAt: time.Now().UTC(),
		Tables:   make([]TableSchema, 0, len(c.tables)),
	}
	for _, name := range c.Tables() {
		t := c.tables[name]
		s.Tables = append(s.Tables, TableSchema{Name: t.Name, Columns: t.Columns})
	}
	return s
}

// FromSnapshot rebuilds a catalog holding the named tables of s, or all of them
// when none is named. It reports false when s cannot serve the request.
func FromSnapshot(s *Snapshot, tables ...string) (*Catalog, bool) {
	if s == nil {
		return nil, false
	}
	if len(tables) == 0 && !s.Complete {
		return nil, false
	}

	byName := make(map[string]TableSchema, len(s.Tables))
	for _, t := range s.Tables {
		byName[t.Name] = t
	}

	var picked []*TableSchema
	if len(tables) == 0 {
		for _, t := range s.Tables {
			picked = append(picked, NewTableSchema(t.Name, t.Columns))
		}
	} else {
		for _, name := range tables {
			t, ok := byName[name]
			if !ok {
				return nil, false
			}
			picked = append(picked, NewTableSchema(t.Name, t.Columns))
		}
	}
	return NewCatalog(s.Database, picked...), true
}

// Loader reflects a catalog, reading through an optional SnapshotStore.
//
// Store failures never fail a load; they are reported to OnStoreError.
type Loader struct {
	Store        SnapshotStore
	OnStoreError func(op string, err error)
}

// Load returns the catalog for database, from the store when it can serve the
// requested tables and from information_schema otherwise.
func (l Loader) Load(ctx context.Context, q Querier, database string, tables ...string) (*Catalog, error) {
	if l.Store == nil {
		return Load(ctx, q, database, tables...)
	}

	cached, err := l.Store.Get(ctx, database)
	if err != nil {
		if !errors.Is(err, ErrSnapshotMiss) {
			l.report("get", err)
		}
		cached = nil
	}
	if c, ok := FromSnapshot(cached, tables...); ok {
		return c, nil
	}

	c, err := Load(ctx, q, database, tables...)
	if err != nil {
		return nil, err
	}

	fresh := c.Snapshot(len(tables) == 0)
	if cached != nil && !fresh.Complete && cached.Database == database {
		fresh = merge(cached, fresh)
	}
	if err := l.Store.Put(ctx, fresh); err != nil {
		l.report("put", err)
	}
	return c, nil
}

func (l Loader) report(op string, err error) {
	if l.OnStoreError != nil {
		l.OnStoreError(op, err)
	}
}

// merge adds the tables of old that fresh does not carry.
func merge(old, fresh *Snapshot) *Snapshot {
	seen := make(map[string]bool, len(fresh.Tables))
	for _, t := range fresh.Tables {
		seen[t.Name] = true
	}
	out := *fresh
	out.Tables = append([]TableSchema(nil), fresh.Tables...)
	for _, t := range old.Tables {
		if !seen[t.Name] {
			out.Tables = append(out.Tables, t)
		}
	}
	out.Complete = old.Complete
	return &out
}
