package search

import "container/heap"

type priorityQueueItem struct {
	NodeIndex int
	Priority  float64
	// Sequence only breaks exact priority ties, first in first out.
	Sequence uint64
}

type priorityQueue []priorityQueueItem

func (queue priorityQueue) Len() int { return len(queue) }
func (queue priorityQueue) Less(i, j int) bool {
	if queue[i].Priority != queue[j].Priority {
		return queue[i].Priority < queue[j].Priority
	}
	return queue[i].Sequence < queue[j].Sequence
}
func (queue priorityQueue) Swap(i, j int) { queue[i], queue[j] = queue[j], queue[i] }

func (queue *priorityQueue) Push(x any) {
	*queue = append(*queue, x.(priorityQueueItem))
}

func (queue *priorityQueue) Pop() any {
	oldQueue := *queue
	n := len(oldQueue)
	item := oldQueue[n-1]
	*queue = oldQueue[:n-1]
	return item
}

// priorityFrontier is the UCS/A* frontier: lowest priority first, ties in
// insertion order.
type priorityFrontier struct {
	queue        priorityQueue
	nextSequence uint64
}

func newPriorityFrontier() *priorityFrontier {
	frontier := &priorityFrontier{queue: make(priorityQueue, 0)}
	heap.Init(&frontier.queue)
	return frontier
}

func (frontier *priorityFrontier) push(nodeIndex int, priority float64) {
	heap.Push(&frontier.queue, priorityQueueItem{
		NodeIndex: nodeIndex,
		Priority:  priority,
		Sequence:  frontier.nextSequence,
	})
	frontier.nextSequence++
}

func (frontier *priorityFrontier) pop() (int, bool) {
	if frontier.queue.Len() == 0 {
		return 0, false
	}
	item := heap.Pop(&frontier.queue).(priorityQueueItem)
	return item.NodeIndex, true
}

func (frontier *priorityFrontier) len() int { return frontier.queue.Len() }

func (frontier *priorityFrontier) nodeIndices() []int {
	indices := make([]int, 0, len(frontier.queue))
	for _, item := range frontier.queue {
		indices = append(indices, item.NodeIndex)
	}
	return indices
}
