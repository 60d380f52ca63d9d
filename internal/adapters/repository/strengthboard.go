package repository

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/okian/matchday/internal/domain/types"
	"github.com/okian/matchday/pkg/metrics"
)

// Treap-based strength board.
//
// Ordering: strength DESC, then participant ID ASC (deterministic). "less"
// means ranks earlier, so in-order traversal yields the board from strongest
// to weakest. Node priorities are a hash of the participant ID, which keeps
// the tree balanced in expectation regardless of insertion order.

// strengthScale controls fixed-point scaling from float64.
const strengthScale = 1e9

type strengthFP int64

func toFixedPoint(x float64) strengthFP {
	if math.IsNaN(x) {
		return 0
	}
	scaled := math.Round(x * strengthScale)
	if scaled >= float64(math.MaxInt64) {
		return strengthFP(math.MaxInt64)
	}
	if scaled <= float64(math.MinInt64) {
		return strengthFP(math.MinInt64)
	}
	return strengthFP(scaled)
}

func toFloat(x strengthFP) float64 {
	return float64(x) / strengthScale
}

type node struct {
	id       string
	strength strengthFP
	prio     uint64
	left     *node
	right    *node
	size     int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aStrength, aID) should appear before (bStrength, bID).
func less(aStrength strengthFP, aID string, bStrength strengthFP, bID string) bool {
	if aStrength != bStrength {
		return aStrength > bStrength
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, strength strengthFP) *node {
	if n == nil {
		return &node{id: id, strength: strength, prio: xxh3.HashString(id), size: 1}
	}
	if less(strength, id, n.strength, n.id) {
		n.left = insert(n.left, id, strength)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, strength)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, strength strengthFP) *node {
	if n == nil {
		return nil
	}
	switch {
	case strength == n.strength && id == n.id:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, strength)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, strength)
		}
	case less(strength, id, n.strength, n.id):
		n.left = deleteNode(n.left, id, strength)
	default:
		n.right = deleteNode(n.right, id, strength)
	}
	fix(n)
	return n
}

// countStronger returns the number of nodes with a strength strictly above s.
func countStronger(n *node, s strengthFP) int {
	count := 0
	for n != nil {
		if n.strength > s {
			count += 1 + nsize(n.left)
			n = n.right
		} else {
			n = n.left
		}
	}
	return count
}

// collectTopN appends up to limit entries in board order.
func collectTopN(n *node, limit int, out *[]types.Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, types.Entry{ParticipantID: n.id, Strength: toFloat(n.strength)})
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// StrengthBoard ranks participants by their most recently planned strength.
// Equal strengths share a rank and the following rank is skipped (1, 1, 3).
type StrengthBoard struct {
	mu   sync.RWMutex
	root *node
	byID map[string]strengthFP
}

// NewStrengthBoard creates an empty board.
func NewStrengthBoard() *StrengthBoard {
	return &StrengthBoard{byID: make(map[string]strengthFP)}
}

// Upsert sets the strength of a participant in O(log n) expected time.
func (s *StrengthBoard) Upsert(_ context.Context, participantID string, strength float64) error {
	start := time.Now()
	defer recordLatency("strengths", "upsert", start)

	fp := toFixedPoint(strength)

	s.mu.Lock()
	if old, ok := s.byID[participantID]; ok {
		if old == fp {
			s.mu.Unlock()
			return nil
		}
		s.root = deleteNode(s.root, participantID, old)
	}
	s.byID[participantID] = fp
	s.root = insert(s.root, participantID, fp)
	size := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateStrengthBoardSize(size)
	return nil
}

// Rank returns the rank and strength of a participant in O(log n).
func (s *StrengthBoard) Rank(_ context.Context, participantID string) (types.Entry, error) {
	start := time.Now()
	defer recordLatency("strengths", "rank", start)

	s.mu.RLock()
	defer s.mu.RUnlock()

	fp, ok := s.byID[participantID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "participant_not_found")
		return types.Entry{}, fmt.Errorf("participant %s: %w", participantID, ErrNotFound)
	}
	return types.Entry{
		Rank:          1 + countStronger(s.root, fp),
		ParticipantID: participantID,
		Strength:      toFloat(fp),
	}, nil
}

// TopN returns the n strongest participants.
func (s *StrengthBoard) TopN(_ context.Context, n int) ([]types.Entry, error) {
	start := time.Now()
	defer recordLatency("strengths", "top", start)

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Entry, 0, min(n, len(s.byID)))
	collectTopN(s.root, n, &out)

	for i := range out {
		if i > 0 && out[i].Strength == out[i-1].Strength {
			out[i].Rank = out[i-1].Rank
			continue
		}
		out[i].Rank = i + 1
	}
	return out, nil
}

// Count returns the number of participants on the board.
func (s *StrengthBoard) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
