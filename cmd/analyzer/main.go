// Command analyzer scores a single resume file from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/feichai0017/resume-analyzer/config"
	"github.com/feichai0017/resume-analyzer/internal/agent"
	"github.com/feichai0017/resume-analyzer/internal/agent/document/text"
	"github.com/feichai0017/resume-analyzer/internal/analyzer"
	"github.com/feichai0017/resume-analyzer/internal/models"
	"github.com/feichai0017/resume-analyzer/internal/report"
	"github.com/feichai0017/resume-analyzer/internal/service/analysis"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
)

const (
	reportFile = "resume_analysis_report.txt"
	chartFile  = "resume_analysis_summary.png"
)

type options struct {
	role      string
	profiles  string
	out       string
	engine    string
	text      bool
	listRoles bool
	verbose   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := pflag.NewFlagSet("analyzer", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.role, "role", "r", "", "job role to score against (default: the profile default)")
	fs.StringVar(&opts.profiles, "profiles", "", "YAML file with additional or overriding role profiles")
	fs.StringVarP(&opts.out, "out", "o", ".", "directory for the report and chart")
	fs.StringVar(&opts.engine, "engine", "", "OCR engine: tesseract or textract (default from OCR_ENGINE)")
	fs.BoolVar(&opts.text, "text", false, "treat FILE as already extracted plain text")
	fs.BoolVar(&opts.listRoles, "list-roles", false, "print the available roles and exit")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: analyzer [flags] FILE")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	level := "warn"
	if opts.verbose {
		level = "info"
	}
	log, err := logger.NewLogger(
		logger.WithLevel(level),
		logger.WithEncoding("console"),
		logger.WithOutputPaths([]string{"stderr"}),
		logger.WithErrorPaths(nil),
	)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	defer log.Sync()

	registry, err := analysis.LoadProfiles(&config.AnalyzerConfig{ProfilesPath: opts.profiles})
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	if opts.listRoles {
		for _, role := range registry.Roles() {
			fmt.Fprintln(stdout, role)
		}
		return 0
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	profile, err := registry.Get(opts.role)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 2
	}

	content, err := extract(ctx, fs.Arg(0), opts, log)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	if strings.TrimSpace(content) == "" {
		fmt.Fprintln(stderr, "Error:", analysis.ErrNoTextExtracted)
		return 1
	}

	result := analyzer.Analyze(content, profile)
	rep := report.Text(result)
	fmt.Fprint(stdout, rep)

	if err := writeArtifacts(opts.out, rep, result); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	log.Info("Artifacts written", logger.String("dir", opts.out))
	return 0
}

func extract(ctx context.Context, path string, opts options, log logger.Logger) (string, error) {
	if opts.text {
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			log.Warn("Resume file not found", logger.String("path", path))
			return "", nil
		}
		if err != nil {
			return "", err
		}
		defer f.Close()

		chunks, err := text.NewProcessor(log).Process(ctx, f)
		if err != nil {
			return "", err
		}
		return agent.JoinChunks(chunks), nil
	}

	ocr := *config.GetOCRConfig()
	if opts.engine != "" {
		ocr.Engine = strings.ToLower(opts.engine)
	}
	factory, err := agent.NewProcessorFactory(ctx, log, &ocr)
	if err != nil {
		return "", err
	}
	defer factory.Close()
	return agent.NewExtractor(factory, log).Extract(ctx, path)
}

func writeArtifacts(dir, rep string, result models.AnalysisResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, reportFile), []byte(rep), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, chartFile))
	if err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	if err := report.Chart(result, f); err != nil {
		f.Close()
		return fmt.Errorf("write chart: %w", err)
	}
	return f.Close()
}
