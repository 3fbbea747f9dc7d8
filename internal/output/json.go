package output

import (
	"github.com/goccy/go-json"

	"github.com/hsrv/checkhttp/internal/probe"
	api "github.com/hsrv/checkhttp/lib-check"
)

type jsonResult struct {
	State   api.State `json:"state"`
	Summary string    `json:"summary"`
}

type jsonPerfdata struct {
	Label string   `json:"label"`
	Value float64  `json:"value"`
	UOM   string   `json:"uom,omitempty"`
	Warn  *float64 `json:"warn,omitempty"`
	Crit  *float64 `json:"crit,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
}

type jsonReport struct {
	RunID     string         `json:"run_id"`
	State     api.State      `json:"state"`
	Results   []jsonResult   `json:"results"`
	Perfdata  []jsonPerfdata `json:"perfdata,omitempty"`
	ElapsedMS float64        `json:"elapsed_ms"`
}

// JSON renders the report as a single JSON document for machine readers.
func JSON(report probe.Report, runID string) ([]byte, error) {
	doc := jsonReport{
		RunID:     runID,
		State:     report.State(),
		ElapsedMS: float64(report.Elapsed.Microseconds()) / 1000,
	}

	for _, r := range report.Results {
		doc.Results = append(doc.Results, jsonResult{State: r.State, Summary: r.Summary})
	}
	for _, p := range report.Perfdata {
		doc.Perfdata = append(doc.Perfdata, jsonPerfdata{
			Label: p.Label,
			Value: p.Value,
			UOM:   p.UOM,
			Warn:  p.Warn,
			Crit:  p.Crit,
			Min:   p.Min,
			Max:   p.Max,
		})
	}

	return json.Marshal(doc)
}
