package helpers

import (
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// RangesIntersect reports whether two ranges overlap. Ends are exclusive,
// so adjacent ranges do not intersect, except that an empty range (a
// cursor) intersects a range it sits inside or at the start of.
func RangesIntersect(a, b protocol.Range) bool {
	if isEmpty(a) {
		return contains(b, a.Start)
	}
	if isEmpty(b) {
		return contains(a, b.Start)
	}
	return before(a.Start, b.End) && before(b.Start, a.End)
}

func isEmpty(r protocol.Range) bool {
	return r.Start == r.End
}

// contains treats r as half-open.
func contains(r protocol.Range, p protocol.Position) bool {
	return !before(p, r.Start) && before(p, r.End)
}

// before reports whether p comes strictly before q.
func before(p, q protocol.Position) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Character < q.Character)
}
