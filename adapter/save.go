package adapter

import "sync"

// Save tracks the requests issued by StartUpdate.
type Save struct {
	once   sync.Once
	err    error
	failed chan struct{} // closed on the first failure
	done   chan struct{} // closed when every request has finished
}

func newSave() *Save {
	return &Save{failed: make(chan struct{}), done: make(chan struct{})}
}

// fail records err if it is the first failure and returns it.
func (s *Save) fail(err error) error {
	s.once.Do(func() {
		s.err = err
		close(s.failed)
	})
	return err
}

// Wait blocks until a request fails or all of them succeed, and returns
// the first failure.
func (s *Save) Wait() error {
	select {
	case <-s.failed:
	case <-s.done:
	}
	return s.Err()
}

// Done is closed once every request has finished, failed or not.
func (s *Save) Done() <-chan struct{} { return s.done }

// WaitAll blocks until every request has finished and returns the first
// failure.
func (s *Save) WaitAll() error {
	<-s.done
	return s.Err()
}

// Err returns the first failure recorded so far, or nil.
func (s *Save) Err() error {
	select {
	case <-s.failed:
		return s.err
	default:
		return nil
	}
}
