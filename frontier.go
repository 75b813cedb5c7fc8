package search

// frontier holds arena indices of generated, not yet expanded nodes.
// Priority is ignored by the uninformed disciplines.
type frontier interface {
	push(nodeIndex int, priority float64)
	pop() (int, bool)
	len() int
	nodeIndices() []int
}

func newFrontier(strategy Strategy) frontier {
	switch strategy {
	case BFS:
		return &fifoQueue{}
	case DFS:
		return &lifoStack{}
	default:
		return newPriorityFrontier()
	}
}

// fifoQueue is the BFS frontier.
type fifoQueue struct {
	items []int
	head  int
}

func (queue *fifoQueue) push(nodeIndex int, _ float64) {
	queue.items = append(queue.items, nodeIndex)
}

func (queue *fifoQueue) pop() (int, bool) {
	if queue.head == len(queue.items) {
		return 0, false
	}
	nodeIndex := queue.items[queue.head]
	queue.head++
	// compact once the consumed prefix dominates
	if queue.head > 64 && queue.head*2 >= len(queue.items) {
		queue.items = append(queue.items[:0], queue.items[queue.head:]...)
		queue.head = 0
	}
	return nodeIndex, true
}

func (queue *fifoQueue) len() int { return len(queue.items) - queue.head }

func (queue *fifoQueue) nodeIndices() []int {
	return append([]int(nil), queue.items[queue.head:]...)
}

// lifoStack is the DFS frontier.
type lifoStack struct {
	items []int
}

func (stack *lifoStack) push(nodeIndex int, _ float64) {
	stack.items = append(stack.items, nodeIndex)
}

func (stack *lifoStack) pop() (int, bool) {
	n := len(stack.items)
	if n == 0 {
		return 0, false
	}
	nodeIndex := stack.items[n-1]
	stack.items = stack.items[:n-1]
	return nodeIndex, true
}

func (stack *lifoStack) len() int { return len(stack.items) }

func (stack *lifoStack) nodeIndices() []int {
	return append([]int(nil), stack.items...)
}
