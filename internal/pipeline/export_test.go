package pipeline

// AcquireLockForTest exposes the run lock so tests can simulate contention.
func AcquireLockForTest(p *Pipeline) (func(), error) {
	return p.acquireLock()
}
