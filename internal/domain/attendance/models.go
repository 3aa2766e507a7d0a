package attendance

import "time"

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
	StatusHalfDay = "Half Day"
	StatusOnLeave = "On Leave"
	StatusHoliday = "Holiday"
)

// Entry is one employee-day attendance record.
type Entry struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenantId"`
	EmployeeID    string    `json:"employeeId"`
	Date          time.Time `json:"date"`
	Status        string    `json:"status"`
	WorkHours     float64   `json:"workHours"`
	OvertimeHours float64   `json:"overtimeHours"`
	IsLate        bool      `json:"isLate"`
}

// Summary is the reduction of one employee's entries for a month. Day counts
// are fractional because half days contribute 0.5.
type Summary struct {
	PresentDays     float64 `json:"presentDays"`
	AbsentDays      float64 `json:"absentDays"`
	PaidLeaveDays   float64 `json:"paidLeaveDays"`
	UnpaidLeaveDays float64 `json:"unpaidLeaveDays"`
	HolidayDays     float64 `json:"holidayDays"`
	TotalWorkHours  float64 `json:"totalWorkHours"`
	OvertimeHours   float64 `json:"overtimeHours"`
	LateDays        int     `json:"lateDays"`
}
