package astrodb

import (
	"fmt"
	"strings"
)

// Fields maps column name to normalized value for one original catalog row.
type Fields map[string]Value

// Envelope is the minimal axis-aligned rectangle in RA/Dec space bounding
// every row contributed to a record. Units are degrees.
type Envelope struct {
	RAMin  float64
	RAMax  float64
	DecMin float64
	DecMax float64
}

// Pad grows the envelope by d degrees on every side.
func (e Envelope) Pad(d float64) Envelope {
	return Envelope{
		RAMin:  e.RAMin - d,
		RAMax:  e.RAMax + d,
		DecMin: e.DecMin - d,
		DecMax: e.DecMax + d,
	}
}

// Union returns the bounding rectangle of both envelopes.
func (e Envelope) Union(o Envelope) Envelope {
	return Envelope{
		RAMin:  min(e.RAMin, o.RAMin),
		RAMax:  max(e.RAMax, o.RAMax),
		DecMin: min(e.DecMin, o.DecMin),
		DecMax: max(e.DecMax, o.DecMax),
	}
}

// Center returns the midpoint of the envelope's RA and Dec ranges. This is
// the record's representative point for matching: not a true spherical
// centroid, which is fine for single-row records and a known approximation
// for multiply-merged ones.
func (e Envelope) Center() (ra, dec float64) {
	return (e.RAMin + e.RAMax) / 2, (e.DecMin + e.DecMax) / 2
}

// Record is one ingestion-ready detection, possibly the merger of several
// original rows. Provenance lists the contributing source-block identifiers
// in merge order; Rows holds each contributing row's full field set keyed by
// its provenance identifier. A merged record is a container of its
// constituent rows, never a column-wise aggregate.
type Record struct {
	Provenance []string
	Rows       map[string]Fields

	// Key is the external primary key parsed from the designated identifier
	// column, when one is configured. Nil otherwise.
	Key *int64
}

// Position is one contributing row's sky coordinates, in degrees.
type Position struct {
	RA  float64
	Dec float64
}

// raColumn/decColumn are the case-insensitive names of the coordinate
// columns.
const (
	raColumn  = "ra"
	decColumn = "dec"
)

// position extracts the sky coordinates from one row's fields. ok is false
// when either coordinate column is absent or non-numeric.
func position(f Fields) (Position, bool) {
	var p Position
	var haveRA, haveDec bool
	for name, v := range f {
		switch strings.ToLower(name) {
		case raColumn:
			if x, numeric := v.Float(); numeric {
				p.RA = x
				haveRA = true
			}
		case decColumn:
			if x, numeric := v.Float(); numeric {
				p.Dec = x
				haveDec = true
			}
		}
	}
	return p, haveRA && haveDec
}

// Positions returns the coordinates of every contributing row that carries
// both coordinate columns, in provenance order. Rows without a position are
// skipped.
func (r Record) Positions() []Position {
	out := make([]Position, 0, len(r.Provenance))
	for _, src := range r.Provenance {
		if p, ok := position(r.Rows[src]); ok {
			out = append(out, p)
		}
	}
	return out
}

// Envelope derives the record's bounding rectangle from its constituent rows.
// It is recomputed from the raw row coordinates on every call rather than
// carried forward through merges, so repeated merging cannot compound stale
// bounds. ok is false when no contributing row has a sky position; such a
// record can never match anything spatially.
func (r Record) Envelope() (Envelope, bool) {
	ps := r.Positions()
	if len(ps) == 0 {
		return Envelope{}, false
	}
	env := Envelope{RAMin: ps[0].RA, RAMax: ps[0].RA, DecMin: ps[0].Dec, DecMax: ps[0].Dec}
	for _, p := range ps[1:] {
		env = env.Union(Envelope{RAMin: p.RA, RAMax: p.RA, DecMin: p.Dec, DecMax: p.Dec})
	}
	return env, true
}

// Merge combines two records describing the same physical object.
//
// Provenance is the concatenation of both lists, a's entries first. Each constituent
// row keeps its full field set under its own provenance identifier; when both
// records carry the same identifier (same label and sequence from separate
// runs), b's entry is renamed with a deterministic numeric suffix so no row
// is dropped. The merged envelope follows from the union of constituent rows
// via [Record.Envelope].
func Merge(a, b Record) Record {
	m := Record{
		Provenance: make([]string, 0, len(a.Provenance)+len(b.Provenance)),
		Rows:       make(map[string]Fields, len(a.Rows)+len(b.Rows)),
		Key:        a.Key,
	}
	if m.Key == nil {
		m.Key = b.Key
	}
	for _, src := range a.Provenance {
		m.Provenance = append(m.Provenance, src)
		m.Rows[src] = a.Rows[src]
	}
	for _, src := range b.Provenance {
		name := src
		for n := 2; ; n++ {
			if _, taken := m.Rows[name]; !taken {
				break
			}
			name = fmt.Sprintf("%s_%d", src, n)
		}
		m.Provenance = append(m.Provenance, name)
		m.Rows[name] = b.Rows[src]
	}
	return m
}

// Builder assembles ingestion-ready records from raw rows. One builder is
// created per source file; it tracks the per-row sequence number that makes
// provenance identifiers unique within the file.
type Builder struct {
	columns  []Column
	label    string
	idColumn string
	seq      int
}

// NewBuilder returns a builder for rows shaped by columns. label identifies
// the source file in provenance entries; idColumn optionally names the
// designated external primary key column (case-insensitive, empty to
// disable).
func NewBuilder(columns []Column, label, idColumn string) *Builder {
	return &Builder{
		columns:  columns,
		label:    sanitizeLabel(label),
		idColumn: idColumn,
	}
}

// Build assembles one record from a raw row. Cells are normalized in column
// order; extra cells beyond the declared columns are ignored and missing
// cells are skipped. Provenance starts as the singleton "<label>_<seq>".
func (b *Builder) Build(row Row) Record {
	src := fmt.Sprintf("%s_%d", b.label, b.seq)
	b.seq++

	fields := make(Fields, len(b.columns))
	var key *int64
	for i, col := range b.columns {
		if i >= len(row) {
			break
		}
		v := Normalize(row[i])
		if b.idColumn != "" && strings.EqualFold(col.Name, b.idColumn) {
			// Only a cell that parses as an integer becomes the external
			// primary key; float spellings and text leave it unset.
			if v.Kind() == KindInt {
				id := v.Int()
				key = &id
			}
		}
		fields[col.Name] = v
	}

	return Record{
		Provenance: []string{src},
		Rows:       map[string]Fields{src: fields},
		Key:        key,
	}
}

// sanitizeLabel makes a source label safe for use as a document field name:
// path separators and characters the store reserves are folded to
// underscores.
func sanitizeLabel(label string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '$', '/', '\\', ' ':
			return '_'
		default:
			return r
		}
	}, label)
}
