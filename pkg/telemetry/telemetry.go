// Package telemetry supplies current channel data to the render engine.
//
// A [Snapshot] is an immutable mapping from channel number to [CnlDataExt],
// produced once per refresh tick by a [Source]. Renderers only read it.
//
// Sources:
//   - [FileSource]: a JSON, TOML or YAML file re-read on every fetch
//   - [RedisSource]: one redis hash per channel
package telemetry

import (
	"context"
	"maps"
	"slices"
	"strconv"
)

// CnlDataExt is the current datum of one input channel together with its
// display forms.
type CnlDataExt struct {
	CnlNum int `yaml:"CnlNum"`
	// Val is the raw channel value.
	Val float64 `yaml:"Val"`
	// Stat is the channel status; zero means the value is not valid.
	Stat int `yaml:"Stat"`
	// Text is the formatted value, TextWithUnit the same with its unit.
	Text         string `yaml:"Text"`
	TextWithUnit string `yaml:"TextWithUnit"`
	Unit         string `yaml:"Unit"`
	// Color is the color derived from the channel status.
	Color string `yaml:"Color"`
}

// Valid reports whether the value may be used for value-driven decisions.
func (d CnlDataExt) Valid() bool { return d.Stat != 0 }

// Complete fills in display text that the producer left empty.
func (d CnlDataExt) Complete() CnlDataExt {
	if d.Text == "" {
		if d.Valid() {
			d.Text = strconv.FormatFloat(d.Val, 'f', -1, 64)
		} else {
			d.Text = "---"
		}
	}
	if d.TextWithUnit == "" {
		d.TextWithUnit = d.Text
		if d.Unit != "" && d.Valid() {
			d.TextWithUnit += " " + d.Unit
		}
	}
	return d
}

// Snapshot is the channel data of one refresh tick.
// The zero value and nil are empty snapshots.
type Snapshot struct {
	data map[int]CnlDataExt
}

// NewSnapshot builds a snapshot from channel data. Later entries for the
// same channel win.
func NewSnapshot(items ...CnlDataExt) *Snapshot {
	s := &Snapshot{data: make(map[int]CnlDataExt, len(items))}
	for _, d := range items {
		s.data[d.CnlNum] = d
	}
	return s
}

// Get returns the datum of a channel.
func (s *Snapshot) Get(cnlNum int) (CnlDataExt, bool) {
	if s == nil || cnlNum <= 0 {
		return CnlDataExt{}, false
	}
	d, ok := s.data[cnlNum]
	return d, ok
}

// Len returns the number of channels in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.data)
}

// Channels returns the channel numbers in ascending order.
func (s *Snapshot) Channels() []int {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.data))
}

// Source produces snapshots.
type Source interface {
	// Fetch returns the current data of the given channels. An empty list
	// asks for everything the source has.
	Fetch(ctx context.Context, cnlNums []int) (*Snapshot, error)
	Close() error
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(ctx context.Context, cnlNums []int) (*Snapshot, error)

func (f SourceFunc) Fetch(ctx context.Context, cnlNums []int) (*Snapshot, error) {
	return f(ctx, cnlNums)
}

func (f SourceFunc) Close() error { return nil }

// filter keeps the requested channels; an empty request keeps all.
func filter(items []CnlDataExt, cnlNums []int) []CnlDataExt {
	if len(cnlNums) == 0 {
		return items
	}
	out := items[:0:0]
	for _, d := range items {
		if slices.Contains(cnlNums, d.CnlNum) {
			out = append(out, d)
		}
	}
	return out
}
