//go:build !linux

package thread

func setCurrentThreadPriority(p Priority) error {
	if p == PriorityNormal {
		return nil
	}
	return ErrUnsupported
}
