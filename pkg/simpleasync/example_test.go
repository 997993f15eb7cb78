package simpleasync_test

import (
	"fmt"
	"time"

	"github.com/vnykmshr/weave/pkg/simpleasync"
)

func Example() {
	a := simpleasync.New()
	defer a.Close()

	done := make(chan struct{})
	a.Schedule(func() {
		fmt.Println("second")
		close(done)
	}, 20*time.Millisecond)
	a.Schedule(func() { fmt.Println("first") }, 0)
	<-done

	// Output:
	// first
	// second
}

func ExampleAsync_ScheduleKeyed() {
	a := simpleasync.New()
	defer a.Close()

	done := make(chan string, 1)
	for _, name := range []string{"a", "b"} {
		a.ScheduleKeyed("greet", func() { done <- name }, 10*time.Millisecond)
	}
	fmt.Println("pending:", a.Pending())
	fmt.Println("ran:", <-done)

	// Output:
	// pending: 1
	// ran: b
}
