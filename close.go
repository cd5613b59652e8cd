package bitagg

// Close releases the block cache. Further calls on the engine return
// ErrClosed. Closing twice is a no-op.
func (e *Engine) Close() error {
	if e == nil || !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	var firstErr error
	if e.cache != nil {
		if err := e.cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	e.logger.Debug("engine closed")
	return firstErr
}
