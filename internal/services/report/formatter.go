package report

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/fxtrend/internal/common"
	"github.com/bobmcallan/fxtrend/internal/models"
)

// NoDataMessage is printed whenever there is nothing to report, whether the
// provider failed or returned no usable rows.
const NoDataMessage = "No data retrieved or API response is empty."

// PercentUnavailable replaces the percentage when the first value is zero.
const PercentUnavailable = "percent change unavailable"

// FormatSummary renders the change summary as console lines.
func FormatSummary(s models.ChangeSummary, unit string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("💵 Your 1 dollar was %s\n", common.FormatAmount(s.FirstValue, unit)))
	sb.WriteString(fmt.Sprintf("💵 Now it is %s\n", common.FormatAmount(s.LastValue, unit)))

	pct := PercentUnavailable
	if s.PercentAvailable {
		pct = common.FormatSignedPct(s.PercentChange)
	}
	sb.WriteString(fmt.Sprintf("%s Change: %s (%s)\n", s.Direction.Symbol(), common.FormatAmount(s.AbsoluteChange, unit), pct))

	return sb.String()
}

// FormatNoData renders the notice for an empty run.
func FormatNoData() string {
	return NoDataMessage + "\n"
}
