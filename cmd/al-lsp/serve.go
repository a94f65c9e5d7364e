package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/spf13/pflag"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aacnsilva/al-lsp/internal/lsp"
)

type serveFlags struct {
	pipePath string
	logLevel string
}

func newServeFlags() *serveFlags {
	return &serveFlags{logLevel: "info"}
}

func (f *serveFlags) bind(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.pipePath, "pipe", "", "path to a UNIX socket to listen on; uses stdio if not specified")
	flagSet.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

func runServe(ctx context.Context, flags *serveFlags) error {
	logger, err := newLogger(flags.logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	transport, err := dial(flags)
	if err != nil {
		return err
	}
	defer transport.Close()

	stream := jsonrpc2.NewStream(transport)
	conn := jsonrpc2.NewConn(stream)

	return lsp.Serve(ctx, conn, logger)
}

// dial opens the LSP transport: a UNIX socket if --pipe was given,
// otherwise stdio, matching how most LSP clients (e.g. VS Code) launch a
// server by default.
func dial(flags *serveFlags) (io.ReadWriteCloser, error) {
	if flags.pipePath != "" {
		conn, err := net.Dial("unix", flags.pipePath)
		if err != nil {
			return nil, fmt.Errorf("could not open IPC socket %q: %w", flags.pipePath, err)
		}
		return conn, nil
	}
	return stdioReadWriteCloser{}, nil
}

type stdioReadWriteCloser struct{}

func (stdioReadWriteCloser) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioReadWriteCloser) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdioReadWriteCloser) Close() error                { return nil }

func newLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.Set(level); err != nil {
		return nil, fmt.Errorf("unknown log level %q: %w", level, err)
	}
	// The client expects pure LSP framing on stdout, so logs go to stderr.
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(zapLevel))
	return zap.New(core), nil
}
