package main_test

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/hsrv/checkhttp/cmd/check_http"

	"github.com/hsrv/checkhttp/internal/testutil"
)

func MakeTestCommand(t testing.TB) (*main.CheckHTTPCommand, *bytes.Buffer) {
	t.Helper()

	buf := bytes.NewBuffer([]byte{})
	return &main.CheckHTTPCommand{
		OutStream: buf,
		ErrStream: buf,
	}, buf
}

func TestCheckHTTPCommand_ParseArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		Args     []string
		Pattern  string
		ExitCode int
		Extra    func(*testing.T, *main.CheckHTTPCommand)
	}{
		{
			Args:     []string{"check_http", "--no-such-option"},
			Pattern:  "^HTTP UNKNOWN: unknown flag: --no-such-option\nPlease see `check_http -h` for more information\\.\n$",
			ExitCode: 3,
		},
		{
			Args:     []string{"check_http", "-h"},
			Pattern:  `^$`,
			ExitCode: 0,
		},
		{
			Args:     []string{"check_http", "-V"},
			Pattern:  `^$`,
			ExitCode: 0,
		},
		{
			Args:     []string{"check_http", "-u", "http://localhost", "extra"},
			Pattern:  `^HTTP UNKNOWN: unexpected argument: "extra"\n`,
			ExitCode: 3,
		},
		{
			Args:     []string{"check_http", "-4", "-6", "-u", "http://localhost"},
			Pattern:  `^HTTP UNKNOWN: only one of -4 and -6 can be used\n`,
			ExitCode: 3,
		},
		{
			Args:     []string{"check_http", "-u", "http://localhost", "--page-size", "abc"},
			Pattern:  `^HTTP UNKNOWN: invalid page size: "abc"\n`,
			ExitCode: 3,
		},
		{
			Args:     []string{"check_http", "-u", "http://localhost", "--response-time-levels", "1,2,3"},
			Pattern:  `^HTTP UNKNOWN: response time: invalid levels: "1,2,3" \(expected "WARN\[,CRIT\]"\)\n`,
			ExitCode: 3,
		},
		{
			Args:     []string{"check_http", "-u", "http://localhost", "--document-age-levels", "-1"},
			Pattern:  `^HTTP UNKNOWN: document age: invalid levels: "-1"\n`,
			ExitCode: 3,
		},
		{
			Args:     []string{"check_http", "-u", "http://localhost"},
			Pattern:  `^$`,
			ExitCode: 0,
			Extra: func(t *testing.T, cmd *main.CheckHTTPCommand) {
				if cmd.Settings.URL != "http://localhost" {
					t.Errorf("unexpected URL: %q", cmd.Settings.URL)
				}
				if cmd.Settings.Timeout != nil {
					t.Errorf("timeout should stay unset: %#v", cmd.Settings.Timeout)
				}
				if cmd.Settings.MaxRedirects != nil {
					t.Errorf("max redirects should stay unset: %#v", cmd.Settings.MaxRedirects)
				}
			},
		},
		{
			Args: []string{
				"check_http", "-u", "http://localhost",
				"-t", "2.5", "--max-redirs", "3", "-4",
				"-k", "Accept: text/html", "-k", "X-Token: abc",
			},
			Pattern:  `^$`,
			ExitCode: 0,
			Extra: func(t *testing.T, cmd *main.CheckHTTPCommand) {
				if cmd.Settings.Timeout == nil || time.Duration(*cmd.Settings.Timeout) != 2500*time.Millisecond {
					t.Errorf("unexpected timeout: %#v", cmd.Settings.Timeout)
				}
				if cmd.Settings.MaxRedirects == nil || *cmd.Settings.MaxRedirects != 3 {
					t.Errorf("unexpected max redirects: %#v", cmd.Settings.MaxRedirects)
				}
				if cmd.Settings.ForceIP != "4" {
					t.Errorf("unexpected force IP: %q", cmd.Settings.ForceIP)
				}
				if len(cmd.Settings.Headers) != 2 || cmd.Settings.Headers[1] != "X-Token: abc" {
					t.Errorf("unexpected headers: %#v", cmd.Settings.Headers)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.Args[1:], " "), func(t *testing.T) {
			cmd, buf := MakeTestCommand(t)

			if code := cmd.ParseArgs(tt.Args); code != tt.ExitCode {
				t.Errorf("unexpected exit code: %d", code)
			}

			if ok, err := regexp.MatchString(tt.Pattern, buf.String()); err != nil {
				t.Fatalf("invalid pattern: %s", err)
			} else if !ok {
				t.Errorf("unexpected output:\n%s", buf)
			}

			if tt.Extra != nil {
				tt.Extra(t, cmd)
			}
		})
	}
}

func TestCheckHTTPCommand_Run(t *testing.T) {
	server := testutil.StartHTTPServer(t)

	refusedURL := func() string {
		l, err := net.Listen("tcp", "localhost:0")
		if err != nil {
			t.Fatalf("failed to reserve a port: %s", err)
		}
		addr := l.Addr().String()
		l.Close()
		return "http://" + addr
	}()

	configPath := filepath.Join(t.TempDir(), "check.yaml")
	configFile := strings.Join([]string{
		"url: " + server.URL + "/ok",
		"page_size:",
		"  min: 1024",
	}, "\n")
	if err := os.WriteFile(configPath, []byte(configFile), 0o644); err != nil {
		t.Fatalf("failed to prepare config file: %s", err)
	}

	tests := []struct {
		Name     string
		Args     []string
		Pattern  string
		ExitCode int
	}{
		{
			"version",
			[]string{"check_http", "-V"},
			`^check_http version HEAD \(UNKNOWN\)\n$`,
			0,
		},
		{
			"help",
			[]string{"check_http", "-h"},
			`^check_http -- HTTP active check plugin `,
			0,
		},
		{
			"ok",
			[]string{"check_http", "-u", server.URL + "/ok"},
			`^HTTP OK: HTTP/1\.1 200 OK, Page size: 512 B, Response time: [0-9.]+(µs|ms|s) \| time=[0-9.]+s;;;0 size=512B;;;0\n$`,
			0,
		},
		{
			"server error",
			[]string{"check_http", "-u", server.URL + "/error"},
			`^HTTP CRITICAL: HTTP/1\.1 500 Internal Server Error \(!!\), Page size: 5 B, Response time: [0-9.]+(µs|ms|s) \| time=[0-9.]+s;;;0 size=5B;;;0\n$`,
			2,
		},
		{
			"page size warning",
			[]string{"check_http", "-u", server.URL + "/ok", "--page-size", "1024"},
			`^HTTP WARNING: HTTP/1\.1 200 OK, Page size: 512 B \(warn below 1\.0 KiB\) \(!\), Response time: [0-9.]+(µs|ms|s) \| time=[0-9.]+s;;;0 size=512B;;;0\n$`,
			1,
		},
		{
			"response time levels in perfdata",
			[]string{"check_http", "-u", server.URL + "/ok", "--response-time-levels", "10,20"},
			` \| time=[0-9.]+s;10;20;0 size=512B;;;0\n$`,
			0,
		},
		{
			"method",
			[]string{"check_http", "-u", server.URL + "/only/post", "-j", "POST"},
			`^HTTP OK: HTTP/1\.1 200 OK, Page size: 0 B, `,
			0,
		},
		{
			"method not allowed",
			[]string{"check_http", "-u", server.URL + "/only/post"},
			`^HTTP WARNING: HTTP/1\.1 405 Method Not Allowed \(!\), `,
			1,
		},
		{
			"basic auth",
			[]string{"check_http", "-u", server.URL + "/auth", "--auth-user", "aladdin", "--auth-pw-plain", "opensesame"},
			`^HTTP OK: HTTP/1\.1 200 OK, Page size: 6 B, `,
			0,
		},
		{
			"redirect not followed",
			[]string{"check_http", "-u", server.URL + "/redirect/ok", "--onredirect", "critical"},
			`^HTTP CRITICAL: HTTP/1\.1 302 Found \(!!\), Page size: [0-9]+ B, `,
			2,
		},
		{
			"redirect followed",
			[]string{"check_http", "-u", server.URL + "/redirect/ok", "--onredirect", "follow"},
			`^HTTP OK: HTTP/1\.1 200 OK, Page size: 512 B, `,
			0,
		},
		{
			"too many redirects",
			[]string{"check_http", "-u", server.URL + "/redirect/loop", "--onredirect", "follow", "--max-redirs", "3"},
			`^HTTP CRITICAL: Get "http://[^"]+/redirect/loop": too many redirects \(max 3\) \(!!\)\n$`,
			2,
		},
		{
			"document age",
			[]string{"check_http", "-u", server.URL + "/modified?age=7200", "--document-age-levels", "3600"},
			`Document age: 2 hours old \(warn at 1h\) \(!\) \| time=[0-9.]+s;;;0 size=8B;;;0 age=7200[0-9.]*s;3600\n$`,
			1,
		},
		{
			"no body",
			[]string{"check_http", "-u", server.URL + "/ok", "--no-body"},
			`^HTTP OK: HTTP/1\.1 200 OK, No body fetched, Response time: [0-9.]+(µs|ms|s) \| time=[0-9.]+s;;;0\n$`,
			0,
		},
		{
			"timeout",
			[]string{"check_http", "-u", server.URL + "/slow", "-t", "0.1"},
			`^HTTP CRITICAL: timeout \(!!\)\n$`,
			2,
		},
		{
			"connection refused",
			[]string{"check_http", "-u", refusedURL},
			`^HTTP CRITICAL: Failed to connect \(!!\)\n$`,
			2,
		},
		{
			"unsupported scheme",
			[]string{"check_http", "-u", "gopher://localhost/1"},
			`^HTTP UNKNOWN: Error building the request \(\?\)\n$`,
			3,
		},
		{
			"missing url",
			[]string{"check_http"},
			`^HTTP UNKNOWN: target URL is required\n`,
			3,
		},
		{
			"json output",
			[]string{"check_http", "-u", server.URL + "/ok", "--output", "json"},
			`^\{"run_id":"[0-9a-f-]{36}","state":"OK","results":\[\{"state":"OK","summary":"HTTP/1\.1 200 OK"\},\{"state":"OK","summary":"Page size: 512 B"\},\{"state":"OK","summary":"Response time: [^"]+"\}\],"perfdata":\[\{"label":"time","value":[0-9.]+,"uom":"s","min":0\},\{"label":"size","value":512,"uom":"B","min":0\}\],"elapsed_ms":[0-9.]+\}\n$`,
			0,
		},
		{
			"config file",
			[]string{"check_http", "--config", configPath},
			`^HTTP WARNING: HTTP/1\.1 200 OK, Page size: 512 B \(warn below 1\.0 KiB\) \(!\), `,
			1,
		},
		{
			"config file overridden by flags",
			[]string{"check_http", "--config", configPath, "--page-size", "1"},
			`^HTTP OK: HTTP/1\.1 200 OK, Page size: 512 B, `,
			0,
		},
		{
			"missing config file",
			[]string{"check_http", "--config", filepath.Join(t.TempDir(), "no-such.yaml")},
			`^HTTP UNKNOWN: failed to read config file: `,
			3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			cmd, buf := MakeTestCommand(t)

			if code := cmd.Run(tt.Args); code != tt.ExitCode {
				t.Errorf("unexpected exit code: %d\n%s", code, buf)
			}

			if ok, err := regexp.MatchString(tt.Pattern, buf.String()); err != nil {
				t.Fatalf("invalid pattern: %s", err)
			} else if !ok {
				t.Errorf("unexpected output:\n%s", buf)
			}
		})
	}
}

func TestCheckHTTPCommand_Run_logFile(t *testing.T) {
	server := testutil.StartHTTPServer(t)
	path := filepath.Join(t.TempDir(), "logs", "check.log")

	cmd, buf := MakeTestCommand(t)
	if code := cmd.Run([]string{"check_http", "-u", server.URL + "/ok", "--log-file", path}); code != 0 {
		t.Fatalf("unexpected exit code: %d\n%s", code, buf)
	}

	if !strings.HasPrefix(buf.String(), "HTTP OK: ") {
		t.Errorf("log file must not leak into the report:\n%s", buf)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %s", err)
	}
	for _, want := range []string{`"msg":"probe finished"`, `"run_id":"`, `"state":"OK"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log file should contain %s:\n%s", want, data)
		}
	}
}
