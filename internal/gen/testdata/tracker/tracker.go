package tracker

import "context"

type Status int

type Lifecycle interface {
	DidStop(ctx context.Context)
}

type Tracker interface {
	Lifecycle
	ShouldProceed(step string) bool
	Progress() (float64, error)
	Allow(user string, roles ...string) (bool, error)
	Status() Status
}

type Handler[T any] interface {
	Handle(T) bool
}

type Number interface {
	~int | ~float64
}

type Internal interface {
	sync() error
}

type Config struct{}

type hidden interface {
	Hide()
}
