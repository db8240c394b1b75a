package route

import (
	"container/heap"
	"math/rand"
)

// queueItem is one entry in the arc priority queue, keyed by
// estimate_delay(src,dst)*100*criticality (or 0 for constant nets),
// tied broken by a random tag.
type queueItem struct {
	arc      ArcKey
	priority float64
	tag      uint64
	index    int
}

type arcQueue struct {
	items []*queueItem
	rng   *rand.Rand
}

func newArcQueue(seed uint64) *arcQueue {
	return &arcQueue{rng: rand.New(rand.NewSource(int64(seed)))}
}

func (q *arcQueue) Len() int { return len(q.items) }
func (q *arcQueue) Less(i, j int) bool {
	if q.items[i].priority != q.items[j].priority {
		return q.items[i].priority > q.items[j].priority
	}
	return q.items[i].tag < q.items[j].tag
}
func (q *arcQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].index = i
	q.items[j].index = j
}
func (q *arcQueue) Push(x interface{}) {
	item := x.(*queueItem)
	item.index = len(q.items)
	q.items = append(q.items, item)
}
func (q *arcQueue) Pop() interface{} {
	old := q.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	q.items = old[:n-1]
	return item
}

// Push enqueues arc with the given priority (already incorporating the
// estimated delay and criticality scale).
func (q *arcQueue) push(arc ArcKey, priority float64) {
	heap.Push(q, &queueItem{arc: arc, priority: priority, tag: q.rng.Uint64()})
}

func (q *arcQueue) pop() (ArcKey, bool) {
	if q.Len() == 0 {
		return ArcKey{}, false
	}
	item := heap.Pop(q).(*queueItem)
	return item.arc, true
}

func (q *arcQueue) empty() bool { return q.Len() == 0 }
