package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/hsrv/checkhttp/internal/checks"
	"github.com/hsrv/checkhttp/internal/probe"
	"github.com/hsrv/checkhttp/internal/transport"
	api "github.com/hsrv/checkhttp/lib-check"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxRedirects = 15
)

// SizeRange is an acceptable body size range in bytes.
type SizeRange struct {
	Min *uint64 `yaml:"min"`
	Max *uint64 `yaml:"max"`
}

// Levels are warning and critical thresholds for a duration measurement.
type Levels struct {
	Warn *Duration `yaml:"warn"`
	Crit *Duration `yaml:"crit"`
}

// SeverityTable overrides how status code classes map to states.
// Each field takes "ok", "warning", "critical", or "unknown".
type SeverityTable struct {
	ClientError   string `yaml:"client_error"`
	ServerError   string `yaml:"server_error"`
	StrayRedirect string `yaml:"stray_redirect"`
}

// Settings are all the knobs of one check, collected from the command line
// and optionally a YAML file. The zero value of every field means "not set";
// Plan applies the defaults.
type Settings struct {
	URL       string   `yaml:"url"`
	Method    string   `yaml:"method"`
	UserAgent string   `yaml:"user_agent"`
	Headers   []string `yaml:"headers"`

	Timeout *Duration `yaml:"timeout"`

	AuthUser    string `yaml:"auth_user"`
	AuthPwPlain string `yaml:"auth_pw_plain"`
	AuthPwEnv   string `yaml:"auth_pw_env"`
	AuthPwStore string `yaml:"auth_pwstore"`

	OnRedirect   string `yaml:"onredirect"`
	MaxRedirects *int   `yaml:"max_redirs"`
	ForceIP      string `yaml:"force_ip"`
	WithoutBody  bool   `yaml:"no_body"`

	PageSize     *SizeRange     `yaml:"page_size"`
	ResponseTime *Levels        `yaml:"response_time_levels"`
	DocumentAge  *Levels        `yaml:"document_age_levels"`
	Severity     *SeverityTable `yaml:"severity"`

	Output string `yaml:"output"`
}

// LoadFile reads settings from a YAML file.
func LoadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	return s, nil
}

// Merge overlays override onto base, field by field. A field of override
// counts as set when it is non-empty or non-nil; the header list replaces
// the base list entirely rather than appending to it.
func Merge(base, override Settings) Settings {
	merged := base

	if override.URL != "" {
		merged.URL = override.URL
	}
	if override.Method != "" {
		merged.Method = override.Method
	}
	if override.UserAgent != "" {
		merged.UserAgent = override.UserAgent
	}
	if len(override.Headers) > 0 {
		merged.Headers = override.Headers
	}
	if override.Timeout != nil {
		merged.Timeout = override.Timeout
	}
	if override.AuthUser != "" {
		merged.AuthUser = override.AuthUser
	}
	if override.AuthPwPlain != "" {
		merged.AuthPwPlain = override.AuthPwPlain
	}
	if override.AuthPwEnv != "" {
		merged.AuthPwEnv = override.AuthPwEnv
	}
	if override.AuthPwStore != "" {
		merged.AuthPwStore = override.AuthPwStore
	}
	if override.OnRedirect != "" {
		merged.OnRedirect = override.OnRedirect
	}
	if override.MaxRedirects != nil {
		merged.MaxRedirects = override.MaxRedirects
	}
	if override.ForceIP != "" {
		merged.ForceIP = override.ForceIP
	}
	if override.WithoutBody {
		merged.WithoutBody = true
	}
	if override.PageSize != nil {
		merged.PageSize = override.PageSize
	}
	if override.ResponseTime != nil {
		merged.ResponseTime = override.ResponseTime
	}
	if override.DocumentAge != nil {
		merged.DocumentAge = override.DocumentAge
	}
	if override.Severity != nil {
		merged.Severity = override.Severity
	}
	if override.Output != "" {
		merged.Output = override.Output
	}

	return merged
}

// Plan validates the settings and assembles the probe plan.
// Every problem is collected before reporting, so the user sees all of them
// at once instead of fixing one per run.
func (s Settings) Plan() (probe.Plan, error) {
	var errs error

	var target *url.URL
	if s.URL == "" {
		errs = multierr.Append(errs, errors.New("target URL is required"))
	} else if u, err := url.Parse(s.URL); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("invalid target URL: %w", err))
	} else {
		target = u
	}

	timeout := DefaultTimeout
	if s.Timeout != nil {
		timeout = time.Duration(*s.Timeout)
		if timeout <= 0 {
			errs = multierr.Append(errs, errors.New("timeout must be positive"))
		}
	}

	maxRedirects := DefaultMaxRedirects
	if s.MaxRedirects != nil {
		maxRedirects = *s.MaxRedirects
		if maxRedirects < 0 {
			errs = multierr.Append(errs, errors.New("max redirections must not be negative"))
		}
	}

	onRedirect := transport.RedirectOK
	if s.OnRedirect != "" {
		p, err := transport.ParseRedirectPolicy(s.OnRedirect)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			onRedirect = p
		}
	}

	forceIP, err := transport.ParseIPVersion(s.ForceIP)
	if err != nil {
		errs = multierr.Append(errs, err)
	}

	header, err := ParseHeaders(s.Headers)
	if err != nil {
		errs = multierr.Append(errs, err)
	}

	password, err := s.password()
	if err != nil {
		errs = multierr.Append(errs, err)
	}

	pageSize, err := s.PageSize.bounds()
	if err != nil {
		errs = multierr.Append(errs, err)
	}

	responseTime, err := s.ResponseTime.limits("response time")
	if err != nil {
		errs = multierr.Append(errs, err)
	}

	documentAge, err := s.DocumentAge.limits("document age")
	if err != nil {
		errs = multierr.Append(errs, err)
	}

	policy, err := s.Severity.policy()
	if err != nil {
		errs = multierr.Append(errs, err)
	}

	switch s.Output {
	case "", "text", "json":
	default:
		errs = multierr.Append(errs, fmt.Errorf("invalid output format: %q", s.Output))
	}

	if errs != nil {
		return probe.Plan{}, errs
	}

	return probe.Plan{
		Request: transport.RequestSpec{
			URL:          target,
			Method:       s.Method,
			UserAgent:    s.UserAgent,
			Header:       header,
			Timeout:      timeout,
			AuthUser:     s.AuthUser,
			AuthPassword: password,
			OnRedirect:   onRedirect,
			MaxRedirects: maxRedirects,
			ForceIP:      forceIP,
			WithoutBody:  s.WithoutBody,
		},
		PageSize:     pageSize,
		ResponseTime: responseTime,
		DocumentAge:  documentAge,
		StatusPolicy: policy,
	}, nil
}

// OutputFormat returns the validated output format, defaulting to text.
func (s Settings) OutputFormat() string {
	if s.Output == "" {
		return "text"
	}
	return s.Output
}

// ParseSizeRange parses a "MIN[,MAX]" byte range from the command line.
func ParseSizeRange(raw string) (*SizeRange, error) {
	parts := strings.Split(raw, ",")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid page size: %q (expected \"MIN[,MAX]\")", raw)
	}

	min, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid page size: %q", raw)
	}

	r := &SizeRange{Min: &min}
	if len(parts) == 2 {
		max, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid page size: %q", raw)
		}
		r.Max = &max
	}

	return r, nil
}

// ParseLevels parses "WARN[,CRIT]" thresholds in seconds from the command
// line.
func ParseLevels(raw string) (*Levels, error) {
	parts := strings.Split(raw, ",")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid levels: %q (expected \"WARN[,CRIT]\")", raw)
	}

	warn, err := parseSeconds(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid levels: %q", raw)
	}

	l := &Levels{Warn: &warn}
	if len(parts) == 2 {
		crit, err := parseSeconds(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid levels: %q", raw)
		}
		l.Crit = &crit
	}

	return l, nil
}

func parseSeconds(raw string) (Duration, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, errors.New("must not be negative")
	}
	return Duration(v * float64(time.Second)), nil
}

// ParseHeaders turns "Name: value" strings into an http.Header.
func ParseHeaders(raws []string) (http.Header, error) {
	if len(raws) == 0 {
		return nil, nil
	}

	var errs error
	header := make(http.Header)

	for _, raw := range raws {
		name, value, ok := strings.Cut(raw, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			errs = multierr.Append(errs, fmt.Errorf("invalid header: %q (expected \"Name: value\")", raw))
			continue
		}
		header.Add(name, strings.TrimSpace(value))
	}

	if errs != nil {
		return nil, errs
	}
	return header, nil
}

func (r *SizeRange) bounds() (checks.Bounds[uint64], error) {
	if r == nil || (r.Min == nil && r.Max == nil) {
		return checks.NoBounds[uint64](), nil
	}

	if r.Max == nil {
		return checks.LowerBounds(*r.Min), nil
	}

	var min uint64
	if r.Min != nil {
		min = *r.Min
	}
	if min > *r.Max {
		return checks.NoBounds[uint64](), errors.New("minimum page size above maximum")
	}

	return checks.LowerUpperBounds(min, *r.Max), nil
}

func (l *Levels) limits(name string) (checks.Limits[time.Duration], error) {
	if l == nil || (l.Warn == nil && l.Crit == nil) {
		return checks.NoLimits[time.Duration](), nil
	}

	if l.Warn == nil {
		return checks.NoLimits[time.Duration](), fmt.Errorf("%s: critical level requires a warning level", name)
	}

	warn := time.Duration(*l.Warn)
	if warn < 0 {
		return checks.NoLimits[time.Duration](), fmt.Errorf("%s: levels must not be negative", name)
	}

	if l.Crit == nil {
		return checks.WarnLimits(warn), nil
	}

	crit := time.Duration(*l.Crit)
	if crit < 0 {
		return checks.NoLimits[time.Duration](), fmt.Errorf("%s: levels must not be negative", name)
	}
	if warn > crit {
		return checks.NoLimits[time.Duration](), fmt.Errorf("%s: warning level above critical level", name)
	}

	return checks.WarnCritLimits(warn, crit), nil
}

func (t *SeverityTable) policy() (checks.StatusPolicy, error) {
	policy := checks.DefaultStatusPolicy()
	if t == nil {
		return policy, nil
	}

	var errs error

	if t.ClientError != "" {
		state, err := parseSeverity(t.ClientError)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			policy.ClientError = state
		}
	}
	if t.ServerError != "" {
		state, err := parseSeverity(t.ServerError)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			policy.ServerError = state
		}
	}
	if t.StrayRedirect != "" {
		state, err := parseSeverity(t.StrayRedirect)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			policy.StrayRedirect = state
		}
	}

	return policy, errs
}

func parseSeverity(raw string) (api.State, error) {
	switch strings.ToLower(raw) {
	case "ok":
		return api.StateOK, nil
	case "warning":
		return api.StateWarning, nil
	case "critical":
		return api.StateCritical, nil
	case "unknown":
		return api.StateUnknown, nil
	default:
		return api.StateUnknown, fmt.Errorf("invalid severity: %q", raw)
	}
}
