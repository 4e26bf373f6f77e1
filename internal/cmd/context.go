package cmd

import (
	"context"
	"io"
	"os"

	"github.com/salmonumbrella/envkeep/internal/config"
	"github.com/salmonumbrella/envkeep/internal/output"
	"github.com/salmonumbrella/envkeep/internal/store"
)

type (
	configKey    struct{}
	optionsKey   struct{}
	stderrKey    struct{}
	storeKey     struct{}
	stdinDataKey struct{}
)

// globalOptions holds the parsed persistent flags for the current invocation.
type globalOptions struct {
	debug      bool
	quiet      bool
	compact    bool
	query      string
	jsonPath   string
	backend    string
	reportsDir string
}

// WithConfig stores loaded CLI config in context for downstream helpers.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ConfigFromContext retrieves CLI config from context.
func ConfigFromContext(ctx context.Context) *config.Config {
	if v, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return v
	}
	return &config.Config{}
}

func withGlobalOptions(ctx context.Context, opts globalOptions) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func globalOptionsFromContext(ctx context.Context) globalOptions {
	if v, ok := ctx.Value(optionsKey{}).(globalOptions); ok {
		return v
	}
	return globalOptions{}
}

func withStderr(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stderrKey{}, w)
}

func stderrFromContext(ctx context.Context) io.Writer {
	if v, ok := ctx.Value(stderrKey{}).(io.Writer); ok {
		return v
	}
	return os.Stderr
}

// WithStore injects a durable store, bypassing backend selection. Used by
// tests and embedders.
func WithStore(ctx context.Context, st store.Store) context.Context {
	return context.WithValue(ctx, storeKey{}, st)
}

func storeFromContext(ctx context.Context) (store.Store, error) {
	if v, ok := ctx.Value(storeKey{}).(store.Store); ok {
		return v, nil
	}
	opts := globalOptionsFromContext(ctx)
	return openStore(ConfigFromContext(ctx), opts.backend)
}

// withStdin overrides the reader used for payloads passed as "-".
func withStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinDataKey{}, r)
}

func stdinFromContext(ctx context.Context) io.Reader {
	if v, ok := ctx.Value(stdinDataKey{}).(io.Reader); ok {
		return v
	}
	return os.Stdin
}

func printerForCommand(cmd interface{ OutOrStdout() io.Writer }, opts globalOptions) *output.Printer {
	return output.New(cmd.OutOrStdout(),
		output.WithCompact(opts.compact),
		output.WithQuery(opts.query),
		output.WithJSONPath(opts.jsonPath),
	)
}
