package admin

// snapshot remembers a value so an optimistic change to it can be undone.
type snapshot[T any] struct {
	target *T
	saved  T
}

// take copies *target using clone.
func take[T any](target *T, clone func(T) T) snapshot[T] {
	return snapshot[T]{target: target, saved: clone(*target)}
}

func (s snapshot[T]) restore() {
	*s.target = s.saved
}

// optimistic applies mutate, runs commit and restores every snapshot if commit fails.
func optimistic(mutate func(), commit func() error, snaps ...interface{ restore() }) error {
	mutate()
	if err := commit(); err != nil {
		for _, s := range snaps {
			s.restore()
		}
		return err
	}
	return nil
}
