package core

// Limiter bounds how many downstream API calls a flow keeps in flight when
// fanning out per-master checks.
type Limiter struct {
	slots chan struct{}
}

func NewLimiter(capacity int) *Limiter {
	if capacity < 1 {
		capacity = 1
	}
	return &Limiter{slots: make(chan struct{}, capacity)}
}

// Run executes fn once a slot frees up. The deferred release keeps the slot
// from leaking when fn panics.
func (l *Limiter) Run(fn func()) {
	l.slots <- struct{}{}
	defer func() { <-l.slots }()
	fn()
}
