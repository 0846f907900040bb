// Package mapview turns a place list into marker operations for the browser
// map layer. The browser only applies operations; it never decides which
// markers or listeners to create or remove.
package mapview

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/tastelink/tastelink/frontend/internal/kakao"
)

type OpKind string

const (
	OpCreate  OpKind = "create"
	OpUpdate  OpKind = "update"
	OpDestroy OpKind = "destroy"
)

// MarkerEvents are registered on every created marker and disposed with it.
var MarkerEvents = []string{"click"}

// Rendered is a marker the browser currently shows.
type Rendered struct {
	ID  string `json:"id"`
	Rev string `json:"rev"`
}

// Marker is the desired state of one marker.
type Marker struct {
	ID       string  `json:"id"`
	Label    int     `json:"label"`
	Title    string  `json:"title"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Selected bool    `json:"selected"`
	ZIndex   int     `json:"zIndex"`
}

type Op struct {
	Kind     OpKind   `json:"op"`
	ID       string   `json:"id"`
	Rev      string   `json:"rev,omitempty"`
	Marker   *Marker  `json:"marker,omitempty"`
	Listen   []string `json:"listen,omitempty"`
	Unlisten []string `json:"unlisten,omitempty"`
}

// Plan is everything the browser needs to bring its map up to date.
type Plan struct {
	Ops   []Op          `json:"ops"`
	Focus *kakao.LatLng `json:"focus,omitempty"`
}

// Binding diffs the markers the browser reports against the rows it should show.
type Binding struct {
	Rendered []Rendered
}

// ParseRendered reads "id:rev,id:rev" as sent by the map script. Malformed
// items are ignored; a later duplicate id wins.
func ParseRendered(raw string) []Rendered {
	var out []Rendered
	seen := map[string]int{}
	for _, item := range strings.Split(raw, ",") {
		id, rev, ok := strings.Cut(strings.TrimSpace(item), ":")
		if !ok || id == "" {
			continue
		}
		if i, dup := seen[id]; dup {
			out[i].Rev = rev
			continue
		}
		seen[id] = len(out)
		out = append(out, Rendered{ID: id, Rev: rev})
	}
	return out
}

func markerFor(row kakao.Row, selectedID string) Marker {
	m := Marker{ID: row.ID, Label: row.Index, Title: row.Name, Lat: row.Lat, Lng: row.Lng, ZIndex: 1}
	if row.ID == selectedID {
		m.Selected = true
		m.ZIndex = 999
	}
	return m
}

// Revision fingerprints everything the browser draws for a marker.
func Revision(m Marker) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s|%s|%s|%t", m.Label, m.Title,
		strconv.FormatFloat(m.Lat, 'f', -1, 64), strconv.FormatFloat(m.Lng, 'f', -1, 64), m.Selected)
	return strconv.FormatUint(h.Sum64(), 36)
}

// Diff returns the operations that turn the rendered markers into rows.
// Destroys come first, then creates and updates in row order. Unchanged
// markers produce no operation.
func (b Binding) Diff(rows []kakao.Row, selectedID string) Plan {
	want := make(map[string]bool, len(rows))
	for _, r := range rows {
		want[r.ID] = true
	}
	have := make(map[string]string, len(b.Rendered))
	for _, r := range b.Rendered {
		have[r.ID] = r.Rev
	}

	plan := Plan{Ops: []Op{}}
	for _, r := range b.Rendered {
		if !want[r.ID] {
			plan.Ops = append(plan.Ops, Op{Kind: OpDestroy, ID: r.ID, Unlisten: MarkerEvents})
		}
	}

	created := make(map[string]bool, len(rows))
	for _, row := range rows {
		if created[row.ID] {
			continue
		}
		created[row.ID] = true

		m := markerFor(row, selectedID)
		rev := Revision(m)
		if m.Selected {
			plan.Focus = &kakao.LatLng{Lat: m.Lat, Lng: m.Lng}
		}

		prev, exists := have[row.ID]
		switch {
		case !exists:
			plan.Ops = append(plan.Ops, Op{Kind: OpCreate, ID: row.ID, Rev: rev, Marker: &m, Listen: MarkerEvents})
		case prev != rev:
			plan.Ops = append(plan.Ops, Op{Kind: OpUpdate, ID: row.ID, Rev: rev, Marker: &m})
		}
	}
	return plan
}
