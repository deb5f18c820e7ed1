package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/greendilt/digicarbon/internal/cli"
	"github.com/greendilt/digicarbon/pkg/version"
)

func main() {
	err := run()
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(extractExitCode(err))
}

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	root.SilenceErrors = true
	return root.ExecuteContext(context.Background())
}

// extractExitCode returns the exit code carried by a ThresholdExitError, 1
// for any other error and 0 for nil.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}
	var thresholdErr *cli.ThresholdExitError
	if errors.As(err, &thresholdErr) {
		return thresholdErr.ExitCode
	}
	return 1
}
