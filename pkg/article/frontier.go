package article

import "container/heap"

type frontierItem struct {
	edge Edge
	seq  int
}

// frontier is a max-heap of edges keyed by weight. Equal weights pop in
// insertion order.
type frontier struct {
	items []frontierItem
	next  int
}

func (f *frontier) Len() int { return len(f.items) }

func (f *frontier) Less(i, j int) bool {
	a, b := f.items[i], f.items[j]
	if a.edge.Weight != b.edge.Weight {
		return a.edge.Weight > b.edge.Weight
	}
	return a.seq < b.seq
}

func (f *frontier) Swap(i, j int) { f.items[i], f.items[j] = f.items[j], f.items[i] }

func (f *frontier) Push(x any) { f.items = append(f.items, x.(frontierItem)) }

func (f *frontier) Pop() any {
	n := len(f.items) - 1
	it := f.items[n]
	f.items = f.items[:n]
	return it
}

func (f *frontier) push(edges []Edge) {
	for _, e := range edges {
		heap.Push(f, frontierItem{edge: e, seq: f.next})
		f.next++
	}
}

func (f *frontier) pop() Edge {
	return heap.Pop(f).(frontierItem).edge
}
