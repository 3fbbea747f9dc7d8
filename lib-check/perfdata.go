package check

import (
	"strconv"
	"strings"
)

// Perfdata is one performance data sample in the plugin output convention,
// rendered as `label=value[uom];[warn];[crit];[min];[max]`.
// Threshold and range fields are optional; nil fields render as empty and
// trailing empty fields are omitted.
type Perfdata struct {
	Label string
	Value float64

	// UOM is the unit of measurement, e.g. "s" or "B". May be empty.
	UOM string

	Warn *float64
	Crit *float64
	Min  *float64
	Max  *float64
}

// Float is a helper to fill the optional fields of Perfdata.
func Float(v float64) *float64 {
	return &v
}

func formatPerfValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String renders the sample. The label is quoted if it contains spaces.
func (p Perfdata) String() string {
	label := p.Label
	if strings.ContainsRune(label, ' ') {
		label = "'" + label + "'"
	}

	fields := []string{label + "=" + formatPerfValue(p.Value) + p.UOM}
	for _, v := range []*float64{p.Warn, p.Crit, p.Min, p.Max} {
		if v == nil {
			fields = append(fields, "")
		} else {
			fields = append(fields, formatPerfValue(*v))
		}
	}

	s := strings.Join(fields, ";")
	for strings.HasSuffix(s, ";") {
		s = s[:len(s)-1]
	}
	return s
}
