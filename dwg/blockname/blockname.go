// Package blockname implements C10: three-pass BLOCK_HEADER name
// resolution (§4.10) -- a primary pass that reads the declared name
// off each header, an alias pass that propagates names onto adjacent
// BLOCK/ENDBLK records, and (R2010+ only) a targeted pass that scans
// handle streams for references into a still-unnamed target set.
package blockname

import (
	"sort"
	"unicode"
)

// Record is one decoded BLOCK_HEADER/BLOCK/ENDBLK triple as seen by
// the object-map walk, carrying just what name resolution needs.
type Record struct {
	HeaderHandle uint64
	BlockHandle  uint64
	EndBlkHandle uint64
	DeclaredName string // "" if the string/data-stream read failed or was empty
}

// Resolver accumulates handle -> name assignments across the three
// passes.
type Resolver struct {
	names map[uint64]string
}

// New returns an empty Resolver.
func New() *Resolver {
	return &Resolver{names: make(map[uint64]string)}
}

// NameOf returns the resolved name for handle, or ("", false).
func (r *Resolver) NameOf(handle uint64) (string, bool) {
	n, ok := r.names[handle]
	return n, ok
}

// Names returns a snapshot of every handle -> name assignment made so far.
func (r *Resolver) Names() map[uint64]string {
	out := make(map[uint64]string, len(r.names))
	for k, v := range r.names {
		out[k] = v
	}
	return out
}

func (r *Resolver) assign(handle uint64, name string) {
	if handle == 0 || name == "" {
		return
	}
	if _, exists := r.names[handle]; !exists {
		r.names[handle] = name
	}
}

// Primary runs pass 1: every record's own declared name maps onto its
// header handle only; the block/endblk handles are left to Alias.
func (r *Resolver) Primary(records []Record) {
	for _, rec := range records {
		if rec.DeclaredName == "" {
			continue
		}
		r.assign(rec.HeaderHandle, rec.DeclaredName)
	}
}

// Alias runs pass 2: propagate each header's resolved name (however it
// was found) onto its BLOCK and ENDBLK handles.
func (r *Resolver) Alias(records []Record) {
	for _, rec := range records {
		name, ok := r.NameOf(rec.HeaderHandle)
		if !ok {
			continue
		}
		r.assign(rec.BlockHandle, name)
		r.assign(rec.EndBlkHandle, name)
	}
}

// TargetedScan runs pass 3 (R2010+ only): for every target handle
// still missing a name, scan is called once per still-named header
// (handle, name); scan returns the set of handles that header's
// handle stream references across the candidate end-bit/base-handle
// space (including chained mode, per the caller). Whichever named
// header's reference set contains a target handle donates its name.
func (r *Resolver) TargetedScan(targets []uint64, namedHeaders []uint64, scan func(headerHandle uint64) []uint64) {
	missing := make(map[uint64]bool, len(targets))
	for _, t := range targets {
		if _, ok := r.NameOf(t); !ok {
			missing[t] = true
		}
	}
	if len(missing) == 0 {
		return
	}
	for _, hh := range namedHeaders {
		name, ok := r.NameOf(hh)
		if !ok {
			continue
		}
		for _, ref := range scan(hh) {
			if missing[ref] {
				r.assign(ref, name)
				delete(missing, ref)
			}
		}
		if len(missing) == 0 {
			return
		}
	}
}

// stringPenalty scores a candidate block name per §4.10's plausibility
// rules; lower is better. A false second return means the candidate is
// outright rejected (length/control-char/charset violations).
func stringPenalty(s string) (int, bool) {
	if len(s) < 1 || len(s) > 255 {
		return 0, false
	}
	hasAlnumOrPunct := false
	spaces := 0
	symbols := 0
	allDigits := true
	for _, r := range s {
		if unicode.IsControl(r) {
			return 0, false
		}
		if r > unicode.MaxASCII || (!unicode.IsPrint(r) && r != ' ') {
			return 0, false
		}
		if r == ' ' {
			spaces++
			allDigits = false
			continue
		}
		if unicode.IsDigit(r) {
			hasAlnumOrPunct = true
			continue
		}
		allDigits = false
		if unicode.IsLetter(r) {
			hasAlnumOrPunct = true
			continue
		}
		switch r {
		case '_', '$', '*', '-':
			hasAlnumOrPunct = true
		case '.':
		default:
			symbols++
		}
	}
	if !hasAlnumOrPunct {
		return 0, false
	}

	penalty := 0
	if len(s) < 3 {
		penalty += 24
	}
	if len(s) > 96 {
		penalty += len(s) - 96
	}
	penalty += spaces * 120
	penalty += symbols * 240
	if allDigits {
		penalty += 64
	}
	if len(s) > 0 && s[0] == '*' {
		penalty += 8
	}
	return penalty, true
}

// Candidate is one scanned offset's plausibility-scored string.
type Candidate struct {
	Offset int
	Name   string
	Score  int
}

// ScanStringStream tries readAt at every byte offset in [lo, hi) of a
// declared-start recovery window, scoring each result with
// stringPenalty, and returns the best-scoring plausible candidate.
// readAt returns ("", false) at offsets that don't decode to a
// length-prefixed string at all.
func ScanStringStream(lo, hi int, readAt func(offset int) (string, bool)) (Candidate, bool) {
	var candidates []Candidate
	for off := lo; off < hi; off++ {
		s, ok := readAt(off)
		if !ok {
			continue
		}
		score, plausible := stringPenalty(s)
		if !plausible {
			continue
		}
		candidates = append(candidates, Candidate{Offset: off, Name: s, Score: score})
	}
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score < candidates[j].Score
		}
		return candidates[i].Offset < candidates[j].Offset
	})
	return candidates[0], true
}
