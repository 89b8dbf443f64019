package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/ownkit/alloc"
)

var (
	stepColor  = color.New(color.FgCyan, color.Bold)
	auditColor = color.New(color.FgGreen, color.Bold)
)

func main() {
	var (
		scenarioPath = flag.String("scenario", "", "Path to a TOML scenario manifest")
		tracePath    = flag.String("trace", "", "Write lifecycle events to a msgpack journal file")
		logEvents    = flag.Bool("log", false, "Log lifecycle events with a development logger")
		interactive  = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	cfg := defaultScenario()
	if *scenarioPath != "" {
		var err error
		cfg, err = loadScenario(*scenarioPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, *tracePath, *logEvents); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg scenario, tracePath string, logEvents bool) error {
	st := newRunState(cfg)

	// Wire observers before the first allocation
	var journal *alloc.Journal
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			return fmt.Errorf("create trace: %w", err)
		}
		defer f.Close()
		journal = alloc.NewJournal(f)
		st.tr.Subscribe(journal)
	}

	if logEvents {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer logger.Sync()
		alloc.SetLogger(logger)
		st.tr.Subscribe(alloc.NewLogObserver(logger))
	}

	steps := scenarioSteps()
	for i, s := range steps {
		stepColor.Printf("[%d/%d] %s\n", i+1, len(steps), s.title)
		lines, err := s.run(st)
		if err != nil {
			return fmt.Errorf("%s: %w", s.title, err)
		}
		for _, ln := range lines {
			fmt.Printf("  %s\n", ln)
		}
		fmt.Println()
	}

	// Final audit: the tracker reports anything still live
	if err := st.tr.Close(); err != nil {
		return fmt.Errorf("leak audit: %w", err)
	}
	auditColor.Println("audit: clean, every resource released exactly once")

	if journal != nil {
		if err := journal.Err(); err != nil {
			return fmt.Errorf("trace: %w", err)
		}
	}
	return nil
}
