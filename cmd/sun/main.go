package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/mgomes/sunscript/sun"
	"github.com/oarkflow/log"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "check":
		return checkCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "lsp":
		return runLSP()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	configPath := fs.String("config", "", "load settings from a YAML file")
	verbose := fs.Bool("v", false, "log run progress to stderr")
	capture := fs.Bool("capture", false, "buffer output and fail on the first error")
	limit := fs.Int("recursion-limit", defaultRecursionLimit, "maximum call depth, 0 for none")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("sun run: script path required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":
			cfg.Log = *verbose
		case "capture":
			cfg.Mode = modeStream
			if *capture {
				cfg.Mode = modeCapture
			}
		case "recursion-limit":
			cfg.RecursionLimit = *limit
		}
	})
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("sun run: %w", err)
	}

	source, err := readScript(remaining[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	interp := sun.New(interpreterConfig(cfg))
	runErr := interp.Run(ctx, source)
	for _, v := range interp.Output() {
		fmt.Println(v.String())
	}
	if runErr != nil {
		return fmt.Errorf("execution failed: %w", runErr)
	}
	return nil
}

func checkCommand(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("sun check: script path required")
	}
	source, err := readScript(remaining[0])
	if err != nil {
		return err
	}
	if _, err := sun.Parse(source); err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	return nil
}

func interpreterConfig(cfg cliConfig) sun.Config {
	out := sun.Config{
		Capture:        cfg.Mode == modeCapture,
		RecursionLimit: cfg.RecursionLimit,
	}
	if cfg.Log {
		out.Logger = &log.DefaultLogger
	}
	return out
}

func readScript(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(input), nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] <script>\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run      execute a script")
	fmt.Fprintln(os.Stderr, "  check    parse a script without running it")
	fmt.Fprintln(os.Stderr, "  analyze  report unreachable code and suspicious calls")
	fmt.Fprintln(os.Stderr, "  fmt      re-indent scripts (-w writes, -check reports)")
	fmt.Fprintln(os.Stderr, "  repl     start an interactive session")
	fmt.Fprintln(os.Stderr, "  lsp      serve diagnostics over stdio")
	fmt.Fprintln(os.Stderr, "Run flags:")
	fmt.Fprintln(os.Stderr, "  -config <file>")
	fmt.Fprintln(os.Stderr, "    YAML settings (mode, recursion_limit, log, prompt)")
	fmt.Fprintln(os.Stderr, "  -capture")
	fmt.Fprintln(os.Stderr, "    buffer output and exit non-zero on the first error")
	fmt.Fprintln(os.Stderr, "  -recursion-limit int")
	fmt.Fprintf(os.Stderr, "    maximum call depth, 0 for none (default %d)\n", defaultRecursionLimit)
	fmt.Fprintln(os.Stderr, "  -v")
	fmt.Fprintln(os.Stderr, "    log run progress to stderr")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
