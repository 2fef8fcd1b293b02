package rule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nao1215/sheetcheck/internal/model"
)

// CanonicalTimeLayout describes the only accepted time shape.
const CanonicalTimeLayout = "HH:MM:SS"

var (
	// canonicalTime matches the accepted shape; ranges are checked separately.
	canonicalTime = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})$`)

	// lenientTime matches near-miss spellings we can still interpret:
	// unpadded components, missing seconds and 12-hour markers.
	lenientTime = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})(?::(\d{1,2}))?(?:\s*([AaPp])\.?[Mm]\.?)?$`)

	// datetimeValue splits "YYYY-MM-DD HH:MM:SS" style values into date and time.
	datetimeValue = regexp.MustCompile(`^(\d{4}[-/]\d{2}[-/]\d{2})([T ])(.+)$`)
)

// TimeFormat flags values that are not zero-padded 24-hour HH:MM:SS times.
//
// A date-time value ("2024-01-31T05:11:20") has its time part checked.
// Whether a column holds times is decided by the caller; the evaluator does
// not sniff content.
type TimeFormat struct{}

// NewTimeFormat creates a time format evaluator.
func NewTimeFormat() *TimeFormat {
	return &TimeFormat{}
}

// Kind returns model.RuleTimeFormat.
func (t *TimeFormat) Kind() model.RuleKind {
	return model.RuleTimeFormat
}

// Evaluate checks value for the HH:MM:SS format. Surrounding whitespace is
// ignored here; it is the spacing rule's concern.
func (t *TimeFormat) Evaluate(value string, _ model.Mode) (model.Issue, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return model.Issue{}, false
	}

	prefix, timePart := "", v
	if m := datetimeValue.FindStringSubmatch(v); m != nil {
		prefix, timePart = m[1]+m[2], m[3]
	}

	check := checkTime(timePart)
	if check.ok {
		return model.Issue{}, false
	}

	if check.malformed {
		err := &model.MalformedCellError{Rule: model.RuleTimeFormat, Value: value, Reason: check.reason}
		return model.Issue{
			Rule:      model.RuleTimeFormat,
			Message:   err.Error(),
			Offending: timePart,
			Expected:  CanonicalTimeLayout,
			Actual:    timePart,
			Malformed: true,
		}, true
	}

	issue := model.Issue{
		Rule:      model.RuleTimeFormat,
		Message:   strings.Join(check.problems, " | "),
		Offending: timePart,
		Expected:  CanonicalTimeLayout,
		Actual:    timePart,
	}
	if check.canonical != "" {
		issue.Expected = check.canonical
		issue.Suggestion = prefix + check.canonical
	}
	return issue, true
}

// timeCheck is the outcome of inspecting one time string.
type timeCheck struct {
	ok        bool
	malformed bool
	reason    string
	problems  []string
	canonical string
}

// checkTime inspects s and, when possible, derives its canonical form.
func checkTime(s string) timeCheck {
	if m := canonicalTime.FindStringSubmatch(s); m != nil {
		h, mi, sec := atoi(m[1]), atoi(m[2]), atoi(m[3])
		problems := rangeProblems(h, mi, sec)
		if len(problems) == 0 {
			return timeCheck{ok: true}
		}
		return timeCheck{problems: problems}
	}

	m := lenientTime.FindStringSubmatch(s)
	if m == nil {
		return timeCheck{malformed: true, reason: "not a time value in " + CanonicalTimeLayout + " form"}
	}

	hour, minute, second := m[1], m[2], m[3]
	marker := strings.ToUpper(m[4])

	var problems []string
	if len(hour) == 1 {
		problems = append(problems, fmt.Sprintf("hour missing leading zero: '%s' should be '0%s'", hour, hour))
	}
	if len(minute) == 1 {
		problems = append(problems, fmt.Sprintf("minute missing leading zero: '%s' should be '0%s'", minute, minute))
	}
	if second == "" {
		problems = append(problems, "missing seconds component")
		second = "0"
	} else if len(second) == 1 {
		problems = append(problems, fmt.Sprintf("second missing leading zero: '%s' should be '0%s'", second, second))
	}

	h, mi, sec := atoi(hour), atoi(minute), atoi(second)
	if marker != "" {
		problems = append(problems, "12-hour clock marker "+marker+"M (use 24-hour time)")
		if h < 1 || h > 12 {
			problems = append(problems, fmt.Sprintf("invalid 12-hour value: '%s' (must be 1-12)", hour))
			return timeCheck{problems: problems}
		}
		h %= 12
		if marker == "P" {
			h += 12
		}
	}

	if rp := rangeProblems(h, mi, sec); len(rp) > 0 {
		return timeCheck{problems: append(problems, rp...)}
	}
	return timeCheck{
		problems:  problems,
		canonical: fmt.Sprintf("%02d:%02d:%02d", h, mi, sec),
	}
}

// rangeProblems reports components outside 00-23 / 00-59 / 00-59.
func rangeProblems(h, m, s int) []string {
	var problems []string
	if h > 23 {
		problems = append(problems, fmt.Sprintf("invalid hour: '%02d' (must be 00-23)", h))
	}
	if m > 59 {
		problems = append(problems, fmt.Sprintf("invalid minute: '%02d' (must be 00-59)", m))
	}
	if s > 59 {
		problems = append(problems, fmt.Sprintf("invalid second: '%02d' (must be 00-59)", s))
	}
	return problems
}

// atoi converts a string of at most two ASCII digits. Callers only pass
// regexp-validated digit groups.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		panic(fmt.Sprintf("rule: non-numeric time component %q", s))
	}
	return n
}
