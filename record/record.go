// Package record provides a one-shot, flat materialization of a Bml cell's
// top-level slots: a convenience view over reader.Reader for callers that
// want random access instead of a pull loop.
package record

import (
	"fmt"

	"github.com/tmlformat/tml/cell"
	"github.com/tmlformat/tml/errs"
	"github.com/tmlformat/tml/nametag"
	"github.com/tmlformat/tml/reader"
)

// Record is the materialized view of one Bml document's top-level slots.
// Frames are not descended: only slots at the document's top level (reader
// level 0) contribute. Within each map, a later slot overwrites an earlier one with
// the same name (last-write-wins).
type Record struct {
	Positional []cell.Cell
	Atoms      map[uint32]cell.Cell
	Tags       map[nametag.NameTag]cell.Cell
	Strings    map[string]cell.Cell
}

// New materializes a Bml cell into a Record by driving a reader.Reader over
// its embedded document to exhaustion.
func New(doc cell.Cell) (*Record, error) {
	if doc.Kind() != cell.Bml {
		return nil, fmt.Errorf("record: New: kind %d is not Bml: %w", doc.Kind(), errs.ErrWrongDataFormat)
	}

	rd := reader.FromBytes(doc.Bytes())
	defer rd.Close()

	rec := &Record{
		Atoms:   make(map[uint32]cell.Cell),
		Tags:    make(map[nametag.NameTag]cell.Cell),
		Strings: make(map[string]cell.Cell),
	}

	for {
		tok, err := rd.Next()
		if err != nil {
			return nil, fmt.Errorf("record: New: %w", err)
		}
		switch tok {
		case reader.Pending:
			return rec, nil
		case reader.BeginFrame:
			// Record is a flat view of the top level: a nested frame and
			// everything inside it is skipped whole, never descended.
			if _, err := rd.SkipToEndFrame(); err != nil {
				return nil, fmt.Errorf("record: New: %w", err)
			}
		case reader.Slot:
			rec.add(rd.Name(), rd.Value())
		}
	}
}

func (r *Record) add(name, value cell.Cell) {
	switch name.Kind() {
	case cell.Null:
		r.Positional = append(r.Positional, value)
	case cell.Atom:
		r.Atoms[name.Atom()] = value
	case cell.Tag:
		r.Tags[name.Tag()] = value
	case cell.Ascii:
		r.Strings[name.ToString(false)] = value
	}
}
