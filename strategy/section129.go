/*
section129.go - Section 129 response deadline

PURPOSE:
  A Section 129 notice starts a 10-business-day clock for the consumer
  to respond before the credit provider may litigate. Business days
  exclude weekends and South African public holidays, so the deadline
  calculation needs a holiday calendar.
*/
package strategy

import "time"

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// HolidayCalendar answers whether a date is a public holiday.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// SAHolidays is a fixed-table calendar of South African public
// holidays, keyed by "2006-01-02" date strings.
type SAHolidays map[string]string

func (h SAHolidays) IsHoliday(date time.Time) bool {
	_, ok := h[date.Format("2006-01-02")]
	return ok
}

// SAHolidays2025 lists the gazetted SA public holidays for 2025.
var SAHolidays2025 = SAHolidays{
	"2025-01-01": "New Year's Day",
	"2025-03-21": "Human Rights Day",
	"2025-04-18": "Good Friday",
	"2025-04-21": "Family Day",
	"2025-04-28": "Freedom Day (observed)",
	"2025-05-01": "Workers' Day",
	"2025-06-16": "Youth Day",
	"2025-08-09": "National Women's Day",
	"2025-09-24": "Heritage Day",
	"2025-12-16": "Day of Reconciliation",
	"2025-12-25": "Christmas Day",
	"2025-12-26": "Day of Goodwill",
}

// =============================================================================
// DEADLINE CALCULATION
// =============================================================================

const section129BusinessDays = 10

// Section129Deadline returns the letter date plus ten business days,
// skipping weekends and the calendar's holidays. A nil calendar skips
// weekends only.
func Section129Deadline(letterDate time.Time, calendar HolidayCalendar) time.Time {
	deadline := letterDate
	added := 0
	for added < section129BusinessDays {
		deadline = deadline.AddDate(0, 0, 1)
		if isWeekend(deadline) {
			continue
		}
		if calendar != nil && calendar.IsHoliday(deadline) {
			continue
		}
		added++
	}
	return deadline
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
