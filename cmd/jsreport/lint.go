package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jsreport/internal/cache"
	"jsreport/internal/config"
	"jsreport/internal/driver"
	"jsreport/internal/engine"
	"jsreport/internal/lint"
	"jsreport/internal/reportfmt"
	"jsreport/internal/source"
)

const (
	textName  = "<text>"
	stdinName = "<stdin>"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] <file|dir|->...",
	Short: "Lint JavaScript sources and print the line::char::reason report",
	Long: `Lint runs the JSLINT engine over each input and prints one report line per
finding, the fatal-error line when the engine stopped early, and a trailing
"Implied globals:" line. A clean source prints nothing.`,
	RunE: runLint,
}

func init() {
	addLintFlags(lintCmd)
}

func addLintFlags(cmd *cobra.Command) {
	cmd.Flags().String("engine", "", "path to the JSLINT engine script (e.g. fulljslint.js)")
	cmd.Flags().String("runtime", string(engine.RuntimeEmbedded), "engine runtime (embedded|exec)")
	cmd.Flags().StringArray("command", nil, "argv template for the exec runtime, one flag per word ({engine}, {driver})")
	cmd.Flags().String("text", "", "lint this source text instead of a file")
	cmd.Flags().String("format", string(reportfmt.FormatPlain), "output format (plain|console|pretty|json)")
	cmd.Flags().String("fatal-message", lint.DefaultFatalMessage, "reason printed when the engine stopped early")
	cmd.Flags().Bool("exit-code", false, "exit with status 1 when any report is not empty")
	cmd.Flags().Int("jobs", 0, "max parallel files for directories (0=auto)")
	cmd.Flags().Bool("cache", false, "reuse results cached by source and engine hash")
	cmd.Flags().Bool("fullpath", false, "print absolute file paths")
	cmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	cmd.Flags().Duration("timeout", 0, "per-file engine timeout (0 = none)")
	cmd.Flags().Bool("text-checks", false, "also report long lines, trailing spaces, conflict markers and tabs")
	cmd.Flags().Bool("nfc", false, "compose sources to Unicode NFC before linting (columns count composed characters)")
}

// lintSettings is the configuration file merged with command-line overrides.
type lintSettings struct {
	bundle       string
	runtime      engine.Runtime
	command      []string
	timeout      time.Duration
	format       reportfmt.Format
	fatalMessage string
	exitCode     bool
	jobs         int
	exts         []string
	cache        bool
	pathMode     reportfmt.PathMode
	ui           switchMode
	text         string
	hasText      bool
	textChecks   bool
	nfc          bool
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	cfg, _, err := config.Discover(".")
	return cfg, err
}

// resolveLintSettings applies flags that were set explicitly on top of cfg.
func resolveLintSettings(cmd *cobra.Command, cfg *config.Config) (lintSettings, error) {
	flags := cmd.Flags()
	s := lintSettings{
		bundle:       cfg.Engine.Bundle,
		command:      cfg.Engine.Command,
		timeout:      cfg.Engine.TimeoutDuration(),
		fatalMessage: cfg.Report.FatalMessage,
		exitCode:     cfg.Report.ExitCode,
		jobs:         cfg.Files.Jobs,
		exts:         cfg.Files.Extensions,
		textChecks:   cfg.Report.TextChecks,
		nfc:          cfg.Files.NormalizeNFC,
	}
	runtimeName := cfg.Engine.Runtime
	formatName := cfg.Report.Format

	var err error
	if flags.Changed("engine") {
		if s.bundle, err = flags.GetString("engine"); err != nil {
			return s, fmt.Errorf("failed to get engine flag: %w", err)
		}
	}
	if flags.Changed("runtime") {
		if runtimeName, err = flags.GetString("runtime"); err != nil {
			return s, fmt.Errorf("failed to get runtime flag: %w", err)
		}
	}
	if flags.Changed("command") {
		if s.command, err = flags.GetStringArray("command"); err != nil {
			return s, fmt.Errorf("failed to get command flag: %w", err)
		}
	}
	if flags.Changed("timeout") {
		if s.timeout, err = flags.GetDuration("timeout"); err != nil {
			return s, fmt.Errorf("failed to get timeout flag: %w", err)
		}
	}
	if flags.Changed("format") {
		if formatName, err = flags.GetString("format"); err != nil {
			return s, fmt.Errorf("failed to get format flag: %w", err)
		}
	}
	if flags.Changed("fatal-message") || s.fatalMessage == "" {
		if s.fatalMessage, err = flags.GetString("fatal-message"); err != nil {
			return s, fmt.Errorf("failed to get fatal-message flag: %w", err)
		}
	}
	if flags.Changed("exit-code") {
		if s.exitCode, err = flags.GetBool("exit-code"); err != nil {
			return s, fmt.Errorf("failed to get exit-code flag: %w", err)
		}
	}
	if flags.Changed("jobs") {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return s, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if flags.Changed("text-checks") {
		if s.textChecks, err = flags.GetBool("text-checks"); err != nil {
			return s, fmt.Errorf("failed to get text-checks flag: %w", err)
		}
	}
	if flags.Changed("nfc") {
		if s.nfc, err = flags.GetBool("nfc"); err != nil {
			return s, fmt.Errorf("failed to get nfc flag: %w", err)
		}
	}
	if s.cache, err = flags.GetBool("cache"); err != nil {
		return s, fmt.Errorf("failed to get cache flag: %w", err)
	}
	fullPath, err := flags.GetBool("fullpath")
	if err != nil {
		return s, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if fullPath {
		s.pathMode = reportfmt.PathModeAbsolute
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return s, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readSwitch("ui", uiValue); err != nil {
		return s, err
	}
	s.hasText = flags.Changed("text")
	if s.text, err = flags.GetString("text"); err != nil {
		return s, fmt.Errorf("failed to get text flag: %w", err)
	}

	if s.runtime, err = engine.ParseRuntime(runtimeName); err != nil {
		return s, err
	}
	if s.format, err = reportfmt.ParseFormat(formatName); err != nil {
		return s, err
	}
	if s.jobs < 0 {
		return s, fmt.Errorf("--jobs must not be negative, got %d", s.jobs)
	}
	if s.timeout < 0 {
		return s, fmt.Errorf("--timeout must not be negative, got %s", s.timeout)
	}
	return s, nil
}

// buildEngine loads the bundle and prepares the selected runtime. The returned
// key tells cached results of different runtimes apart.
func buildEngine(s lintSettings) (engine.Engine, *engine.Bundle, string, error) {
	if strings.TrimSpace(s.bundle) == "" {
		return nil, nil, "", fmt.Errorf("no lint engine: pass --engine or set [engine].bundle in %s", config.FileName)
	}
	bundle, err := engine.LoadBundle(s.bundle)
	if err != nil {
		return nil, nil, "", err
	}
	switch s.runtime {
	case engine.RuntimeExec:
		argv := s.command
		if len(argv) == 0 {
			argv = engine.DefaultCommand
		}
		eng, err := engine.NewCommand(argv, bundle, s.timeout)
		if err != nil {
			return nil, nil, "", err
		}
		return eng, bundle, string(engine.RuntimeExec) + "\x00" + strings.Join(argv, "\x00"), nil
	default:
		eng, err := engine.NewEmbedded(bundle, s.timeout)
		if err != nil {
			return nil, nil, "", err
		}
		return eng, bundle, string(engine.RuntimeEmbedded), nil
	}
}

func runLint(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := resolveLintSettings(cmd, cfg)
	if err != nil {
		return err
	}
	if !s.hasText && len(args) == 0 {
		return fmt.Errorf("nothing to lint: pass files, directories, - or --text")
	}
	quiet, err := quietFlag(cmd)
	if err != nil {
		return err
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	colorOn, err := useColor(cmd)
	if err != nil {
		return err
	}

	eng, bundle, runtimeKey, err := buildEngine(s)
	if err != nil {
		return err
	}
	opts := driver.Options{
		Engine:       eng,
		Reporter:     lint.Reporter{FatalMessage: s.fatalMessage},
		BundleDigest: bundle.Digest,
		RuntimeKey:   runtimeKey,
		Jobs:         s.jobs,
		TextChecks:   s.textChecks,
	}
	if s.cache {
		c, err := cache.Open("jsreport")
		if err != nil {
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: result cache disabled: %v\n", err)
			}
		} else {
			opts.Cache = c
		}
	}

	fs := source.NewFileSet()
	fs.ComposeNFC(s.nfc)
	var results []*driver.FileResult
	if s.hasText {
		res, err := driver.LintText(ctx, fs, textName, s.text, opts)
		if err != nil {
			return err
		}
		results = append(results, res)
	}
	for _, arg := range args {
		batch, err := lintArg(cmd, fs, arg, s, quiet, opts)
		if err != nil {
			return err
		}
		results = append(results, batch...)
	}

	out := cmd.OutOrStdout()
	if err := reportfmt.Write(s.format, out, fs, results, reportfmt.Options{
		Color:    colorOn,
		PathMode: s.pathMode,
	}); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if timings && !quiet {
		for _, r := range results {
			fmt.Fprint(cmd.ErrOrStderr(), r.Timing.Summary(r.Path))
		}
	}
	if s.exitCode && hasFindings(results) {
		return errFindings
	}
	return nil
}

// lintArg lints one positional argument: "-" for stdin, a directory, or a file.
func lintArg(cmd *cobra.Command, fs *source.FileSet, arg string, s lintSettings, quiet bool, opts driver.Options) ([]*driver.FileResult, error) {
	ctx := cmd.Context()
	if arg == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		res, err := driver.LintText(ctx, fs, stdinName, string(data), opts)
		if err != nil {
			return nil, err
		}
		return []*driver.FileResult{res}, nil
	}

	info, err := os.Stat(arg)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", arg, err)
	}
	if !info.IsDir() {
		res, err := driver.LintPath(ctx, fs, arg, opts)
		if err != nil {
			return nil, err
		}
		return []*driver.FileResult{res}, nil
	}

	files, err := source.ListScripts(arg, s.exts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", arg, err)
	}
	if len(files) == 0 {
		return nil, nil
	}
	if !quiet && s.ui.enabled(os.Stderr) {
		return runLintWithUI(ctx, "linting "+filepath.Clean(arg), fs, files, opts)
	}
	return driver.LintFiles(ctx, fs, files, opts)
}

func hasFindings(results []*driver.FileResult) bool {
	for _, r := range results {
		if r != nil && r.Report != "" {
			return true
		}
	}
	return false
}
