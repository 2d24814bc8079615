package ingestion

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Runner executes external commands. Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, stdin io.Reader, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Logger zerolog.Logger
}

// Run executes name with args, feeding stdin when non-nil.
func (r ExecRunner) Run(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdin = stdin
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		r.Logger.Error().
			Err(err).
			Str("cmd", name).
			Str("args", strings.Join(args, " ")).
			Int64("elapsed_ms", elapsed).
			Str("stderr", truncate(errb.String(), 8<<10)).
			Msg("exec failed")
	} else {
		r.Logger.Debug().
			Str("cmd", name).
			Str("args", strings.Join(args, " ")).
			Int64("elapsed_ms", elapsed).
			Int("stdout_bytes", out.Len()).
			Msg("exec ok")
	}

	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
