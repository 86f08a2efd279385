package pace_test

import (
	"fmt"
	"time"

	"github.com/romdo/go-pace"
)

func ExampleNew() {
	// Create a new debouncer that will wait 100 milliseconds since the last
	// call before calling the callback function.
	debounced, _ := pace.New(100*time.Millisecond, func() {
		fmt.Println("Hello, world!")
	})

	debounced()
	time.Sleep(75 * time.Millisecond) // +75ms = 75ms
	debounced()
	time.Sleep(75 * time.Millisecond) // +75ms = 150ms
	debounced()
	time.Sleep(150 * time.Millisecond) // +150ms = 300ms, trailing at 250ms

	debounced()
	time.Sleep(75 * time.Millisecond) // +75ms = 375ms
	debounced()
	time.Sleep(150 * time.Millisecond) // +150ms = 525ms, trailing at 475ms

	// Output:
	// Hello, world!
	// Hello, world!
}

func ExampleDebounce() {
	search, _ := pace.Debounce(100*time.Millisecond, func(query string) {
		fmt.Println("Searching for:", query)
	})

	search("g")
	time.Sleep(25 * time.Millisecond)
	search("go")
	time.Sleep(25 * time.Millisecond)
	search("gop")
	time.Sleep(25 * time.Millisecond)
	search("gopher")
	time.Sleep(200 * time.Millisecond)

	// Output:
	// Searching for: gopher
}

func ExampleNew_withLeading() {
	// Create a new debouncer that will call the callback function immediately
	// on the first call, and then ignore calls until 100 milliseconds have
	// passed since the last call.
	debounced, _ := pace.New(
		100*time.Millisecond,
		func() {
			fmt.Println("Hello, world!")
		},
		pace.WithLeading(),
	)

	debounced()                       // leading trigger
	time.Sleep(50 * time.Millisecond) // +50ms = 50ms
	debounced()
	time.Sleep(50 * time.Millisecond) // +50ms = 100ms
	debounced()
	time.Sleep(250 * time.Millisecond) // +250ms = 350ms, wait expired at 200ms

	debounced() // leading trigger
	time.Sleep(50 * time.Millisecond)

	// Output:
	// Hello, world!
	// Hello, world!
}

func ExampleNewMutable() {
	debounced, _ := pace.NewMutable(100 * time.Millisecond)

	debounced(func() { fmt.Println("first") })
	time.Sleep(25 * time.Millisecond)
	debounced(func() { fmt.Println("second") })
	time.Sleep(200 * time.Millisecond)

	// Output:
	// second
}
