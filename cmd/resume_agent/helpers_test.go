package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-intake/internal/config"
)

// execute runs the CLI in-process and returns what it wrote to stdout and stderr.
// Flag values from earlier runs are reset first.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	isolateEnv(t)
	resetFlags(rootCmd)
	setContext(rootCmd, t.Context())

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// setContext gives every command the current test's context. cobra only copies the root
// context into a subcommand whose context is still nil, so without this later tests would
// inherit the first test's cancelled context.
func setContext(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, c := range cmd.Commands() {
		setContext(c, ctx)
	}
}

// isolateEnv clears the variables ApplyEnv reads so a developer's .env cannot leak in.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvGeminiAPIKey, config.EnvOpenRouterAPIKey, config.EnvProvider, config.EnvModel,
		config.EnvTesseractPath, config.EnvTessdataPrefix, config.EnvOCRDPI, config.EnvLogLevel,
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
