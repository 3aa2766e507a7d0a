package payroll

const (
	// Full-month baseline: earnings are prorated against 22 working days of
	// 8 hours each.
	WorkingDaysPerMonth = 22
	WorkHoursPerDay     = 8.0

	OvertimeMultiplier = 1.5

	// Fixed three-way split of the pooled allowance figure. Policy, not
	// mechanism; kept literal from the product's rulebook.
	ConveyanceShare = 0.10
	MedicalShare    = 0.05
	OtherShare      = 0.85
)
