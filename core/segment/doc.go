// Package segment splits styled paragraphs into verse segments.
//
// A paragraph's text is scanned run by run. Chapter-number and verse-number
// runs (identified by their styled.Role) start new segments; everything else
// is body text belonging to the most recent number. Each VerseSegment carries
// the reference range it belongs to, the styled text it covers and the byte
// offsets of its number run and body.
//
// The scan is a pure step function over an explicit State:
//
//	st := segment.NewState(p.StartRef())
//	snap := segment.TakeSnapshot(p, p.Contents(), nil)
//	for {
//		var seg segment.VerseSegment
//		var ok bool
//		st, seg, ok = segment.Step(st, snap)
//		if !ok {
//			break
//		}
//		use(seg)
//	}
//
// Segmenter wraps that loop, re-checks the paragraph for changes before every
// step and supports restarting. Collect drains a Segmenter into a List.
//
// Segments of one paragraph always cover [0, len) without gaps or overlaps.
// A chapter number always stands alone as its own segment, and a verse number
// repeated immediately (same starting verse) is merged into the segment it
// repeats.
package segment
