//go:build !linux && !windows

package threading

// osThreadID is unavailable here; threads are identified by goroutine only.
func osThreadID() int64 {
	return 0
}
