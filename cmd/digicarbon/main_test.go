package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/greendilt/digicarbon/internal/cli"
	"github.com/greendilt/digicarbon/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		assert.NotNil(t, root)
		assert.Equal(t, "digicarbon", root.Use)
		for _, name := range []string{"calculate", "factors", "interactive", "serve", "config"} {
			sub, _, err := root.Find([]string{name})
			assert.NoError(t, err, name)
			assert.Equal(t, name, sub.Name())
		}
	})
}

func TestExtractExitCode(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantExitCode int
	}{
		{
			name:         "threshold error with exit code 2",
			err:          &cli.ThresholdExitError{ExitCode: 2, Reason: "footprint too high"},
			wantExitCode: 2,
		},
		{
			name:         "wrapped threshold error",
			err:          fmt.Errorf("calculate: %w", &cli.ThresholdExitError{ExitCode: 42, Reason: "over limit"}),
			wantExitCode: 42,
		},
		{
			name:         "joined threshold error",
			err:          errors.Join(errors.New("outer"), &cli.ThresholdExitError{ExitCode: 3, Reason: "joined"}),
			wantExitCode: 3,
		},
		{
			name:         "generic error",
			err:          errors.New("generic error"),
			wantExitCode: 1,
		},
		{
			name:         "nil error",
			err:          nil,
			wantExitCode: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantExitCode, extractExitCode(tt.err))
		})
	}
}
