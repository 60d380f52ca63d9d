package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"testing"
)

// checkTreap verifies ordering, heap priorities and subtree sizes.
func checkTreap(t *testing.T, n *node) int {
	t.Helper()
	if n == nil {
		return 0
	}
	if n.left != nil {
		if !less(n.left.strength, n.left.id, n.strength, n.id) {
			t.Fatalf("left child %s out of order under %s", n.left.id, n.id)
		}
		if n.left.prio > n.prio {
			t.Fatalf("heap violated at %s", n.id)
		}
	}
	if n.right != nil {
		if !less(n.strength, n.id, n.right.strength, n.right.id) {
			t.Fatalf("right child %s out of order under %s", n.right.id, n.id)
		}
		if n.right.prio > n.prio {
			t.Fatalf("heap violated at %s", n.id)
		}
	}
	size := 1 + checkTreap(t, n.left) + checkTreap(t, n.right)
	if size != n.size {
		t.Fatalf("size of %s is %d, want %d", n.id, n.size, size)
	}
	return size
}

func TestStrengthBoard_BasicOperations(t *testing.T) {
	ctx := context.Background()
	board := NewStrengthBoard()

	if count := board.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	if err := board.Upsert(ctx, "p1", 6.25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := board.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	entry, err := board.Rank(ctx, "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 || entry.Strength != 6.25 || entry.ParticipantID != "p1" {
		t.Errorf("unexpected entry %+v", entry)
	}

	if _, err := board.Rank(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := board.TopN(ctx, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestStrengthBoard_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	board := NewStrengthBoard()

	_ = board.Upsert(ctx, "p1", 8)
	_ = board.Upsert(ctx, "p2", 5)

	// A lower strength replaces the previous one; the board is not best-of.
	_ = board.Upsert(ctx, "p1", 3)

	top, err := board.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 2 || top[0].ParticipantID != "p2" || top[1].ParticipantID != "p1" {
		t.Fatalf("unexpected order %+v", top)
	}
	if top[1].Strength != 3 {
		t.Errorf("expected replaced strength 3, got %f", top[1].Strength)
	}
	if board.Count(ctx) != 2 {
		t.Errorf("expected count 2, got %d", board.Count(ctx))
	}
	checkTreap(t, board.root)
}

func TestStrengthBoard_TiesShareRank(t *testing.T) {
	ctx := context.Background()
	board := NewStrengthBoard()

	_ = board.Upsert(ctx, "c", 7)
	_ = board.Upsert(ctx, "a", 7)
	_ = board.Upsert(ctx, "b", 9)
	_ = board.Upsert(ctx, "d", 4)

	top, err := board.TopN(ctx, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantIDs := []string{"b", "a", "c", "d"}
	wantRanks := []int{1, 2, 2, 4}
	for i, e := range top {
		if e.ParticipantID != wantIDs[i] || e.Rank != wantRanks[i] {
			t.Errorf("position %d: got %+v, want %s rank %d", i, e, wantIDs[i], wantRanks[i])
		}
	}

	for i, id := range wantIDs {
		e, err := board.Rank(ctx, id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.Rank != wantRanks[i] {
			t.Errorf("Rank(%s) = %d, want %d", id, e.Rank, wantRanks[i])
		}
	}
}

func TestStrengthBoard_MatchesSortedReference(t *testing.T) {
	ctx := context.Background()
	board := NewStrengthBoard()
	rng := rand.New(rand.NewSource(11))

	ref := map[string]float64{}
	for i := 0; i < 2000; i++ {
		id := fmt.Sprintf("p%03d", rng.Intn(300))
		strength := float64(rng.Intn(50)) / 4
		ref[id] = strength
		if err := board.Upsert(ctx, id, strength); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := checkTreap(t, board.root); got != len(ref) {
		t.Fatalf("treap holds %d nodes, want %d", got, len(ref))
	}

	ids := make([]string, 0, len(ref))
	for id := range ref {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ref[ids[i]] != ref[ids[j]] {
			return ref[ids[i]] > ref[ids[j]]
		}
		return ids[i] < ids[j]
	})

	top, err := board.TopN(ctx, len(ids)+5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != len(ids) {
		t.Fatalf("expected %d entries, got %d", len(ids), len(top))
	}
	for i, e := range top {
		if e.ParticipantID != ids[i] {
			t.Fatalf("position %d: got %s, want %s", i, e.ParticipantID, ids[i])
		}
		r, err := board.Rank(ctx, e.ParticipantID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Rank != e.Rank {
			t.Errorf("Rank(%s) = %d, TopN says %d", e.ParticipantID, r.Rank, e.Rank)
		}
	}
}

func TestStrengthBoard_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	board := NewStrengthBoard()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				id := fmt.Sprintf("p%d", i)
				_ = board.Upsert(ctx, id, float64(g+i%7))
				_, _ = board.Rank(ctx, id)
				_, _ = board.TopN(ctx, 5)
			}
		}(g)
	}
	wg.Wait()

	if count := board.Count(ctx); count != 200 {
		t.Errorf("expected 200 participants, got %d", count)
	}
	checkTreap(t, board.root)
}

func TestToFixedPoint(t *testing.T) {
	cases := []float64{0, 1, -1, 5.123456789, 1e6}
	for _, c := range cases {
		if got := toFloat(toFixedPoint(c)); got != c {
			t.Errorf("round trip of %v gave %v", c, got)
		}
	}
}
