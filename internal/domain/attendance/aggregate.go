package attendance

import "time"

// Aggregate reduces a month's entries into a Summary. It is a pure
// read/reduce: no entries means an all-zero summary, never an error.
//
// Half days credit 0.5 to both present and absent. Work and overtime hours
// accumulate only on days the employee was present (full or half).
func Aggregate(entries []Entry) Summary {
	var summary Summary
	for _, entry := range entries {
		switch entry.Status {
		case StatusPresent:
			summary.PresentDays++
			summary.TotalWorkHours += entry.WorkHours
			summary.OvertimeHours += entry.OvertimeHours
		case StatusHalfDay:
			summary.PresentDays += 0.5
			summary.AbsentDays += 0.5
			summary.TotalWorkHours += entry.WorkHours
			summary.OvertimeHours += entry.OvertimeHours
		case StatusAbsent:
			summary.AbsentDays++
		case StatusOnLeave:
			summary.PaidLeaveDays++
		case StatusHoliday:
			summary.HolidayDays++
		}
		if entry.IsLate {
			summary.LateDays++
		}
	}
	return summary
}

// PeriodBounds returns the first day of the month and the first day of the
// next month, the half-open [start, end) scan window for a pay period.
func PeriodBounds(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
