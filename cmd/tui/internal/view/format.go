package view

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const dbTimeout = 5 * time.Second

// FormatAmount renders cents in German notation, e.g. 123456 -> "1.234,56 €".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	euros := fmt.Sprintf("%d", cents/100)

	var sb strings.Builder
	for i, r := range euros {
		if i > 0 && (len(euros)-i)%3 == 0 {
			sb.WriteByte('.')
		}

		sb.WriteRune(r)
	}

	return fmt.Sprintf("%s%s,%02d €", sign, sb.String(), cents%100)
}

// FormatDate renders a date as dd.MM.yyyy, the format statements use
// everywhere a user sees a date.
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// ParseDate parses dd.MM.yyyy user input.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("02.01.2006", strings.TrimSpace(s))
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
