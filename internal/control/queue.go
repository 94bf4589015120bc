package control

// Queue buffers stimuli between frames. It is not safe for concurrent use;
// the frame loop and its input source share one goroutine.
type Queue struct {
	pending []Stimulus
}

func NewQueue() *Queue {
	return &Queue{pending: make([]Stimulus, 0, 8)}
}

func (q *Queue) Push(s Stimulus) { q.pending = append(q.pending, s) }
func (q *Queue) Len() int        { return len(q.pending) }

// Requeue puts drained stimuli back ahead of anything pushed since.
func (q *Queue) Requeue(ss []Stimulus) {
	if len(ss) == 0 {
		return
	}
	q.pending = append(append(make([]Stimulus, 0, len(ss)+len(q.pending)), ss...), q.pending...)
}

// Drain returns the pending stimuli in arrival order and empties the queue.
func (q *Queue) Drain() []Stimulus {
	if len(q.pending) == 0 {
		return nil
	}
	out := make([]Stimulus, len(q.pending))
	copy(out, q.pending)
	q.pending = q.pending[:0]
	return out
}
