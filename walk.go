package seekhole

import (
	"fmt"
)

// StopReason says why a walk ended.
type StopReason int

const (
	StopEndOfExtents StopReason = iota // no further allocated extents
	StopHoleCap                        // reported Config.MaxHoles holes
	StopQueryCap                       // issued Config.MaxQueries queries
	StopQueryFailed                    // the extent query returned an error
	StopNoProgress                     // an extent did not move the cursor forward
)

func (r StopReason) String() string {
	switch r {
	case StopEndOfExtents:
		return "end of extents"
	case StopHoleCap:
		return "hole limit reached"
	case StopQueryCap:
		return "query limit reached"
	case StopQueryFailed:
		return "query failed"
	case StopNoProgress:
		return "no progress"
	}
	return fmt.Sprintf("StopReason(%d)", int(r))
}

// WalkSummary tallies one walk. Block counts cover only
// what the walk visited, from the start block to Cursor.
type WalkSummary struct {
	Queries    int64
	Holes      int64
	HoleBlocks int64
	DataBlocks int64
	Cursor     int64

	Stop    StopReason
	StopErr error // set when Stop == StopQueryFailed
}

func (w *WalkSummary) String() string {
	s := fmt.Sprintf("%v hole(s), %v hole blocks, %v data blocks in %v queries (stopped: %v",
		w.Holes, formatUnder(w.HoleBlocks), formatUnder(w.DataBlocks), formatUnder(w.Queries), w.Stop)
	if w.StopErr != nil {
		s += ": " + w.StopErr.Error()
	}
	return s + ")"
}

// Walk moves a block cursor across the file from
// Config.StartBlock, passing each gap in front of the next
// allocated extent to emit, in increasing order. A failing
// query just ends the walk; the reason is in the summary.
// The returned error is only for a closed or nil Session.
func (s *Session) Walk(emit func(Hole)) (sum *WalkSummary, err error) {
	if s == nil || s.mapper == nil {
		return nil, ErrClosed
	}
	if emit == nil {
		emit = func(Hole) {}
	}
	cfg := s.cfg
	cursor := cfg.StartBlock
	sum = &WalkSummary{}

	report := func(h Hole) {
		emit(h)
		sum.Holes++
		sum.HoleBlocks += h.Length
	}

walking:
	for {
		if sum.Holes >= int64(cfg.MaxHoles) {
			sum.Stop = StopHoleCap
			break
		}
		if sum.Queries >= cfg.MaxQueries {
			sum.Stop = StopQueryCap
			break
		}

		next, length, flags, qerr := s.NextExtent(cursor)
		sum.Queries++
		if qerr != nil {
			if qerr == ErrNoMoreExtents {
				sum.Stop = StopEndOfExtents
			} else {
				vv("query at block %v failed: '%v'", cursor, qerr)
				sum.Stop = StopQueryFailed
				sum.StopErr = qerr
			}
			break
		}

		prev := cursor
		switch {
		case next == cursor:
			// allocated right here; step over it.
			cursor += length
			sum.DataBlocks += length

		case next > cursor:
			report(Hole{Start: cursor, End: next - 1, Length: next - cursor})
			cursor = next + length
			sum.DataBlocks += length

		default:
			// The extent began before the cursor and overlaps it,
			// e.g. a start block in the middle of an extent. The
			// cursor is on allocated space: skip to the extent's end.
			end := next + length
			vv("extent [%v, %v) starts before cursor %v; clamping", next, end, cursor)
			if end > cursor {
				sum.DataBlocks += end - cursor
				cursor = end
			}
		}

		if cursor <= prev {
			vv("cursor stuck at %v after extent next=%v length=%v", cursor, next, length)
			sum.Stop = StopNoProgress
			break walking
		}
		if flags&FIEMAP_EXTENT_LAST != 0 {
			sum.Stop = StopEndOfExtents
			break walking
		}
	}
	sum.Cursor = cursor

	if cfg.ReportTail && sum.Stop == StopEndOfExtents && sum.Holes < int64(cfg.MaxHoles) {
		nblock, serr := s.fileBlocks()
		if serr != nil {
			vv("could not size '%v' for the tail hole: '%v'", s.path, serr)
			return sum, nil
		}
		if nblock > cursor {
			report(Hole{Start: cursor, End: nblock - 1, Length: nblock - cursor})
			sum.Cursor = nblock
		}
	}
	return sum, nil
}
