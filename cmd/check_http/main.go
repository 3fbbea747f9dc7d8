package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/hsrv/checkhttp/internal/config"
	"github.com/hsrv/checkhttp/internal/logging"
	"github.com/hsrv/checkhttp/internal/meta"
	"github.com/hsrv/checkhttp/internal/output"
	"github.com/hsrv/checkhttp/internal/probe"
	"github.com/hsrv/checkhttp/internal/transport"
)

func init() {
	transport.DefaultUserAgent = fmt.Sprintf("check_http/%s", meta.Version)
}

type CheckHTTPCommand struct {
	OutStream io.Writer
	ErrStream io.Writer

	Settings    config.Settings
	ConfigPath  string
	Verbose     bool
	LogFile     string
	ShowVersion bool
	ShowHelp    bool
}

var defaultCommand = &CheckHTTPCommand{
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
}

//go:embed help.txt
var helpText string

func (cmd *CheckHTTPCommand) PrintUsage() {
	tmpl := template.Must(template.New("help.txt").Parse(helpText))
	tmpl.Execute(cmd.ErrStream, map[string]interface{}{
		"Version":             meta.Version,
		"DefaultTimeout":      config.DefaultTimeout.Seconds(),
		"DefaultMaxRedirects": config.DefaultMaxRedirects,
	})
}

func (cmd *CheckHTTPCommand) PrintVersion() {
	fmt.Fprintf(cmd.OutStream, "check_http version %s (%s)\n", meta.Version, meta.Commit)
}

// usageError reports a problem with the invocation. The first line goes to
// stdout so the scheduler records it as the check result.
func (cmd *CheckHTTPCommand) usageError(name, msg string) int {
	fmt.Fprintf(cmd.OutStream, "HTTP UNKNOWN: %s\n", msg)
	fmt.Fprintf(cmd.ErrStream, "Please see `%s -h` for more information.\n", name)
	return 3
}

func (cmd *CheckHTTPCommand) ParseArgs(args []string) (exitCode int) {
	flags := pflag.NewFlagSet("check_http", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.SetOutput(io.Discard)

	flags.StringVarP(&cmd.Settings.URL, "url", "u", "", "URL to probe")
	flags.StringVarP(&cmd.Settings.Method, "method", "j", "", "HTTP method")
	flags.StringVarP(&cmd.Settings.UserAgent, "user-agent", "A", "", "User-Agent header value")
	flags.StringArrayVarP(&cmd.Settings.Headers, "header", "k", nil, "additional request header")
	timeout := flags.Float64P("timeout", "t", config.DefaultTimeout.Seconds(), "time until the check gives up, in seconds")
	flags.StringVar(&cmd.Settings.AuthUser, "auth-user", "", "username for basic authentication")
	flags.StringVar(&cmd.Settings.AuthPwPlain, "auth-pw-plain", "", "password for basic authentication")
	flags.StringVar(&cmd.Settings.AuthPwEnv, "auth-pw-env", "", "environment variable holding the password")
	flags.StringVar(&cmd.Settings.AuthPwStore, "auth-pwstore", "", "password store reference as FILE:KEY")
	flags.StringVar(&cmd.Settings.OnRedirect, "onredirect", "", "redirect handling policy")
	maxRedirs := flags.Int("max-redirs", config.DefaultMaxRedirects, "redirects to follow before giving up")
	ipv4 := flags.BoolP("ipv4", "4", false, "connect over IPv4 only")
	ipv6 := flags.BoolP("ipv6", "6", false, "connect over IPv6 only")
	pageSize := flags.String("page-size", "", "acceptable body size range in bytes")
	responseTime := flags.String("response-time-levels", "", "response time thresholds in seconds")
	documentAge := flags.String("document-age-levels", "", "document age thresholds in seconds")
	flags.BoolVar(&cmd.Settings.WithoutBody, "no-body", false, "drop the response body without reading it")
	flags.StringVar(&cmd.ConfigPath, "config", "", "read defaults from a YAML file")
	flags.StringVar(&cmd.Settings.Output, "output", "", "report format, text or json")
	flags.BoolVarP(&cmd.Verbose, "verbose", "v", false, "print diagnostics on stderr")
	flags.StringVar(&cmd.LogFile, "log-file", "", "append JSON diagnostics to this file")
	flags.BoolVarP(&cmd.ShowVersion, "version", "V", false, "show version and exit")
	flags.BoolVarP(&cmd.ShowHelp, "help", "h", false, "show this message and exit")

	if err := flags.Parse(args[1:]); err != nil {
		return cmd.usageError(args[0], err.Error())
	}

	if cmd.ShowVersion || cmd.ShowHelp {
		return 0
	}

	if rest := flags.Args(); len(rest) > 0 {
		return cmd.usageError(args[0], fmt.Sprintf("unexpected argument: %q", rest[0]))
	}

	if *ipv4 && *ipv6 {
		return cmd.usageError(args[0], "only one of -4 and -6 can be used")
	}
	if *ipv4 {
		cmd.Settings.ForceIP = "4"
	}
	if *ipv6 {
		cmd.Settings.ForceIP = "6"
	}

	if flags.Changed("timeout") {
		d := config.Duration(*timeout * float64(time.Second))
		cmd.Settings.Timeout = &d
	}
	if flags.Changed("max-redirs") {
		cmd.Settings.MaxRedirects = maxRedirs
	}

	if *pageSize != "" {
		r, err := config.ParseSizeRange(*pageSize)
		if err != nil {
			return cmd.usageError(args[0], err.Error())
		}
		cmd.Settings.PageSize = r
	}
	if *responseTime != "" {
		l, err := config.ParseLevels(*responseTime)
		if err != nil {
			return cmd.usageError(args[0], fmt.Sprintf("response time: %s", err))
		}
		cmd.Settings.ResponseTime = l
	}
	if *documentAge != "" {
		l, err := config.ParseLevels(*documentAge)
		if err != nil {
			return cmd.usageError(args[0], fmt.Sprintf("document age: %s", err))
		}
		cmd.Settings.DocumentAge = l
	}

	return 0
}

func (cmd *CheckHTTPCommand) Run(args []string) (exitCode int) {
	if code := cmd.ParseArgs(args); code != 0 {
		return code
	}

	if cmd.ShowVersion {
		cmd.PrintVersion()
		return 0
	}
	if cmd.ShowHelp {
		cmd.PrintUsage()
		return 0
	}

	settings := cmd.Settings
	if cmd.ConfigPath != "" {
		base, err := config.LoadFile(cmd.ConfigPath)
		if err != nil {
			return cmd.usageError(args[0], err.Error())
		}
		settings = config.Merge(base, cmd.Settings)
	}

	plan, err := settings.Plan()
	if err != nil {
		return cmd.usageError(args[0], err.Error())
	}

	logger, flush, err := logging.New(logging.Options{Verbose: cmd.Verbose, LogFile: cmd.LogFile})
	if err != nil {
		return cmd.usageError(args[0], fmt.Sprintf("failed to open log file: %s", err))
	}
	defer flush()

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	report := probe.Run(ctx, logger, plan)
	state := report.State()

	logger.Debug("probe finished",
		zap.String("state", state.String()),
		zap.Duration("elapsed", report.Elapsed))

	switch settings.OutputFormat() {
	case "json":
		doc, err := output.JSON(report, runID)
		if err != nil {
			fmt.Fprintf(cmd.OutStream, "HTTP UNKNOWN: failed to encode report: %s\n", err)
			return 3
		}
		fmt.Fprintln(cmd.OutStream, string(doc))
	default:
		fmt.Fprintln(cmd.OutStream, output.Text(report, cmd.useColor()))
	}

	return state.ExitCode()
}

func (cmd *CheckHTTPCommand) useColor() bool {
	f, ok := cmd.OutStream.(*os.File)
	return ok && output.IsTerminal(f)
}

func main() {
	os.Exit(defaultCommand.Run(os.Args))
}
