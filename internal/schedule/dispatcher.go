package schedule

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrInvalidTrigger = errors.New("schedule: invalid trigger time")

// TriggerEvent is a resolved reminder delivered when its trigger time
// arrives.
type TriggerEvent struct {
	ReminderID string
	AnchorID   string
	Message    string
	Shifted    bool
	TriggerAt  time.Time
}

type queueItem struct {
	event TriggerEvent
}

type triggerQueue []queueItem

func (q triggerQueue) Len() int { return len(q) }

func (q triggerQueue) Less(i, j int) bool {
	return q[i].event.TriggerAt.Before(q[j].event.TriggerAt)
}

func (q triggerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *triggerQueue) Push(x any) {
	*q = append(*q, x.(queueItem))
}

func (q *triggerQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// Dispatcher delivers due TriggerEvents on a channel. The active list is
// recomputed by the Engine; the dispatcher only waits out the clock. Events
// the consumer is too slow to take are dropped, not buffered without bound.
type Dispatcher struct {
	mu      sync.Mutex
	queue   triggerQueue
	out     chan TriggerEvent
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewDispatcher(bufferSize int) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Dispatcher{
		queue:  make(triggerQueue, 0),
		out:    make(chan TriggerEvent, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (d *Dispatcher) C() <-chan TriggerEvent {
	return d.out
}

func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true
	heap.Init(&d.queue)
	go d.loop()
}

func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.started || d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.stopCh)
	d.mu.Unlock()
	<-d.doneCh
}

func (d *Dispatcher) Schedule(ev TriggerEvent) error {
	if ev.TriggerAt.IsZero() {
		return ErrInvalidTrigger
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return errors.New("schedule: dispatcher stopped")
	}

	heap.Push(&d.queue, queueItem{event: ev})
	d.signalWakeup()
	return nil
}

// Reload replaces the pending queue with a freshly resolved active list.
// Called after any schedule mutation so stale triggers never fire.
func (d *Dispatcher) Reload(active []ActiveReminder) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return errors.New("schedule: dispatcher stopped")
	}
	d.queue = d.queue[:0]
	for _, ar := range active {
		heap.Push(&d.queue, queueItem{event: TriggerEvent{
			ReminderID: ar.Reminder.ID,
			AnchorID:   ar.Anchor.ID,
			Message:    ar.Reminder.Message,
			Shifted:    ar.Shifted,
			TriggerAt:  ar.TriggerAt,
		}})
	}
	d.signalWakeup()
	d.mu.Unlock()
	return nil
}

func (d *Dispatcher) Dropped() uint64 {
	return atomic.LoadUint64(&d.dropped)
}

func (d *Dispatcher) loop() {
	defer close(d.doneCh)
	defer close(d.out)

	var timer *time.Timer
	for {
		next, hasNext := d.peek()
		if !hasNext {
			select {
			case <-d.wakeup:
				continue
			case <-d.stopCh:
				return
			}
		}

		wait := time.Until(next.TriggerAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := d.popDue(time.Now())
			for _, ev := range due {
				select {
				case d.out <- ev:
				default:
					atomic.AddUint64(&d.dropped, 1)
				}
			}
		case <-d.wakeup:
			continue
		case <-d.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (d *Dispatcher) signalWakeup() {
	select {
	case d.wakeup <- struct{}{}:
	default:
	}
}

func (d *Dispatcher) peek() (TriggerEvent, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) == 0 {
		return TriggerEvent{}, false
	}
	return d.queue[0].event, true
}

func (d *Dispatcher) popDue(now time.Time) []TriggerEvent {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]TriggerEvent, 0)
	for len(d.queue) > 0 {
		next := d.queue[0].event
		if next.TriggerAt.After(now) {
			break
		}
		item := heap.Pop(&d.queue).(queueItem)
		out = append(out, item.event)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
