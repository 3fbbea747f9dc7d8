package probe

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/hsrv/checkhttp/internal/checks"
	"github.com/hsrv/checkhttp/internal/transport"
	api "github.com/hsrv/checkhttp/lib-check"
)

// Plan is everything one probe run needs: the request to perform and the
// thresholds to hold the response against. The zero value of each threshold
// field means that dimension is unconstrained.
type Plan struct {
	Request transport.RequestSpec

	PageSize     checks.Bounds[uint64]
	ResponseTime checks.Limits[time.Duration]
	DocumentAge  checks.Limits[time.Duration]
	StatusPolicy checks.StatusPolicy
}

// Report is the complete outcome of one probe run.
type Report struct {
	// Results is the ordered check results. A run that got a response
	// reports one result per check; a run that failed before or during the
	// request reports a single result describing the failure.
	Results []api.Result

	// Perfdata is the performance data of the run. It stays empty when no
	// response was received.
	Perfdata []api.Perfdata

	// Elapsed is how long the request took, whether it succeeded or not.
	// It is zero when the request could not be built.
	Elapsed time.Duration
}

// State aggregates the report into the single state the process exits with.
func (r Report) State() api.State {
	states := make([]api.State, len(r.Results))
	for i, result := range r.Results {
		states[i] = result.State
	}
	return api.WorstState(states...)
}

// Run performs one probe: build the request, send it once, then evaluate
// every configured check against what came back.
//
// Run never returns an error; every failure mode is folded into the report
// so the caller always has something to print and a state to exit with.
func Run(ctx context.Context, logger *zap.Logger, plan Plan) Report {
	req, err := transport.NewRequest(plan.Request)
	if err != nil {
		logger.Debug("cannot build request", zap.Error(err))
		return Report{Results: []api.Result{api.Unknown("Error building the request")}}
	}

	logger.Debug("sending request",
		zap.String("url", plan.Request.URL.String()),
		zap.String("onredirect", plan.Request.OnRedirect.String()),
		zap.Duration("timeout", plan.Request.Timeout))

	start := time.Now()
	resp, err := req.Perform(ctx)
	elapsed := time.Since(start)

	if err != nil {
		logger.Debug("request failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return Report{
			Results: []api.Result{sendFailure(err)},
			Elapsed: elapsed,
		}
	}

	logger.Debug("response received",
		zap.Int("status", resp.StatusCode),
		zap.String("proto", resp.Proto),
		zap.Int("body_size", len(resp.Body)),
		zap.Duration("elapsed", elapsed))

	report := Report{Elapsed: elapsed}

	report.Results = append(report.Results,
		checks.Status(resp.StatusCode, resp.Proto, plan.Request.OnRedirect, plan.StatusPolicy),
		checks.Body(resp.Body, resp.BodyFetched, plan.PageSize),
		checks.ResponseTime(elapsed, plan.ResponseTime),
	)

	report.Perfdata = append(report.Perfdata, timePerfdata(elapsed, plan.ResponseTime))
	if resp.BodyFetched {
		report.Perfdata = append(report.Perfdata, sizePerfdata(len(resp.Body)))
	}

	if result, age, ok := checks.DocumentAge(resp.Header, plan.DocumentAge, time.Now()); ok {
		report.Results = append(report.Results, result)
		report.Perfdata = append(report.Perfdata, agePerfdata(age, plan.DocumentAge))
	}

	return report
}

// sendFailure maps a classified transport error to the single result that
// stands in for the whole run.
func sendFailure(err error) api.Result {
	switch {
	case errors.Is(err, transport.ErrTimeout):
		return api.Critical("timeout")
	case errors.Is(err, transport.ErrConnect):
		return api.Critical("Failed to connect")
	case errors.Is(err, transport.ErrRedirectPolicy):
		return api.Critical("%s", err)
	default:
		return api.Unknown("Error while sending request")
	}
}

func timePerfdata(elapsed time.Duration, limits checks.Limits[time.Duration]) api.Perfdata {
	pd := api.Perfdata{
		Label: "time",
		Value: elapsed.Seconds(),
		UOM:   "s",
		Min:   api.Float(0),
	}
	if warn, ok := limits.Warn(); ok {
		pd.Warn = api.Float(warn.Seconds())
	}
	if crit, ok := limits.Crit(); ok {
		pd.Crit = api.Float(crit.Seconds())
	}
	return pd
}

func sizePerfdata(size int) api.Perfdata {
	return api.Perfdata{
		Label: "size",
		Value: float64(size),
		UOM:   "B",
		Min:   api.Float(0),
	}
}

func agePerfdata(age time.Duration, limits checks.Limits[time.Duration]) api.Perfdata {
	pd := api.Perfdata{
		Label: "age",
		Value: age.Seconds(),
		UOM:   "s",
	}
	if warn, ok := limits.Warn(); ok {
		pd.Warn = api.Float(warn.Seconds())
	}
	if crit, ok := limits.Crit(); ok {
		pd.Crit = api.Float(crit.Seconds())
	}
	return pd
}
