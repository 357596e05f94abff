package book

import (
	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"

	"mbpbook/event"
)

// LevelView is a read-only snapshot of one price level, cheap to copy for
// top-N projection.
type LevelView struct {
	Price      event.Price
	TotalSize  uint64
	OrderCount uint32
}

// sideBook is an ordered map of price levels for one side of the book. Bids
// sort descending (highest first), asks ascending (lowest first). Backed by
// a red-black tree rather than a hash map so that top-N iteration from the
// best end is O(k), matching the same ordered-map-of-price-levels shape
// the teacher's sharded price tree uses for its bucket index.
type sideBook struct {
	tree *rbt.Tree[event.Price, *Level]
}

func newSideBook(bid bool) *sideBook {
	var cmp func(a, b event.Price) int
	if bid {
		cmp = func(a, b event.Price) int {
			switch {
			case a > b:
				return -1
			case a < b:
				return 1
			default:
				return 0
			}
		}
	} else {
		cmp = func(a, b event.Price) int {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			default:
				return 0
			}
		}
	}
	return &sideBook{tree: rbt.NewWith[event.Price, *Level](cmp)}
}

// getOrInsert returns the level at p, creating an empty one if absent.
func (s *sideBook) getOrInsert(p event.Price) *Level {
	lvl, found := s.tree.Get(p)
	if !found {
		lvl = newLevel(p)
		s.tree.Put(p, lvl)
	}
	return lvl
}

func (s *sideBook) get(p event.Price) (*Level, bool) {
	return s.tree.Get(p)
}

// dropIfEmpty removes the level at p iff it reports empty.
func (s *sideBook) dropIfEmpty(p event.Price) {
	lvl, found := s.tree.Get(p)
	if found && lvl.Empty() {
		s.tree.Remove(p)
	}
}

// best returns the level at the best end of the book (highest bid, lowest
// ask), or false if the side is empty.
func (s *sideBook) best() (*Level, bool) {
	node := s.tree.Left()
	if node == nil {
		return nil, false
	}
	return node.Value, true
}

func (s *sideBook) size() int {
	return s.tree.Size()
}

// topK appends up to k non-empty levels, best-first, into buf[:0] and
// returns the result. Never mutates the tree. Empty levels are skipped
// defensively even though dropIfEmpty should already have evicted them.
func (s *sideBook) topK(buf []LevelView, k int) []LevelView {
	buf = buf[:0]
	it := s.tree.Iterator()
	for len(buf) < k && it.Next() {
		lvl := it.Value()
		if lvl.Empty() {
			continue
		}
		buf = append(buf, LevelView{
			Price:      lvl.price,
			TotalSize:  lvl.totalSize,
			OrderCount: uint32(len(lvl.orders)),
		})
	}
	return buf
}
