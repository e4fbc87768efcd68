package telegram

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang-fundamental-bias/internal/bias/dto"
)

const maxMessageLen = 4090

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// FormatHighImpactAlert renders newly released high-impact events as one or
// more Markdown messages, each within Telegram's length limit.
func FormatHighImpactAlert(result dto.IngestResult, at time.Time) []string {
	if len(result.HighImpact) == 0 {
		return nil
	}

	var messages []string
	var current strings.Builder
	part := 1

	startNewPart := func() {
		current.Reset()
		if part == 1 {
			current.WriteString(fmt.Sprintf("🚨 *High-impact releases* (%s UTC) 🚨\n\n", at.UTC().Format("2006-01-02 15:04")))
		} else {
			current.WriteString(fmt.Sprintf("---*High-impact releases part %d*---\n\n", part))
		}
	}
	startNewPart()

	for _, ev := range result.HighImpact {
		var entry strings.Builder
		entry.WriteString(fmt.Sprintf("*%s* %s\n", markdownEscaper.Replace(ev.Currency), markdownEscaper.Replace(ev.Title)))
		entry.WriteString(fmt.Sprintf("Actual: %s | Forecast: %s | Previous: %s\n\n",
			orDash(ev.Actual), orDash(ev.Forecast), orDash(ev.Previous)))

		if current.Len()+entry.Len() > maxMessageLen {
			messages = append(messages, current.String())
			part++
			startNewPart()
		}
		current.WriteString(entry.String())
	}

	if len(result.Scores) > 0 {
		currencies := make([]string, 0, len(result.Scores))
		for ccy := range result.Scores {
			currencies = append(currencies, ccy)
		}
		sort.Strings(currencies)

		var footer strings.Builder
		footer.WriteString("📊 *Economic ledger*\n")
		for _, ccy := range currencies {
			footer.WriteString(fmt.Sprintf("%s: %+g\n", ccy, result.Scores[ccy]))
		}
		if current.Len()+footer.Len() > maxMessageLen {
			messages = append(messages, current.String())
			part++
			startNewPart()
		}
		current.WriteString(footer.String())
	}

	messages = append(messages, strings.TrimRight(current.String(), "\n"))
	return messages
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return markdownEscaper.Replace(v)
}
