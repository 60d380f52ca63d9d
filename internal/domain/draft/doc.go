// Package draft builds the initial split of a roster into groups.
//
// The split is a snake draft: active participants are shuffled (to break
// ties between equally rated players), stable-sorted by strength, and dealt
// to the groups in alternating forward and reverse order. Participants that
// do not fit into a starter slot become bench members and are handed, one at
// a time, to whichever group currently has the lowest raw strength sum.
//
// The group count is always even (and at least two) so every group can be
// paired with an opponent; WithGroupCount overrides that for callers that
// need a specific count.
package draft
