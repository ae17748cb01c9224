package maxprocs

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Adjust caps GOMAXPROCS to the container CPU quota. Failure is not fatal,
// the runtime default is merely suboptimal.
func Adjust() {
	_, err := maxprocs.Set()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to adjust GOMAXPROCS: %v\n", err)
	}
}
