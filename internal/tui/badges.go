package tui

import (
	"fmt"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// dueSoonDays is the window in which an active loan shows a warning badge
const dueSoonDays = 3

// DueBadgeText describes how a loan stands against its due date
func DueBadgeText(loan domain.IssuedBook, now time.Time) string {
	if !loan.IsActive() {
		if loan.ReturnDate != nil {
			return "Returned " + loan.ReturnDate.Format("Jan 2")
		}
		return "Returned"
	}

	days := loan.DaysUntilDue(now)
	switch {
	case loan.IsOverdue(now) && days < 0:
		return fmt.Sprintf("Overdue by %s", plural(-days, "day"))
	case loan.IsOverdue(now):
		return "Overdue"
	case days == 0:
		return "Due today"
	case days <= dueSoonDays:
		return fmt.Sprintf("Due in %s", plural(days, "day"))
	default:
		return fmt.Sprintf("%s left", plural(days, "day"))
	}
}

// DueBadge renders DueBadgeText with a color for its urgency
func DueBadge(loan domain.IssuedBook, now time.Time) string {
	text := DueBadgeText(loan, now)
	switch {
	case !loan.IsActive():
		return styles.DimBadgeStyle.Render(text)
	case loan.IsOverdue(now):
		return styles.OverdueBadgeStyle.Render(text)
	case loan.DaysUntilDue(now) <= dueSoonDays:
		return styles.DueSoonBadgeStyle.Render(text)
	default:
		return styles.OnTimeBadgeStyle.Render(text)
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
