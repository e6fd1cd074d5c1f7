package leave

var leaveTypes = []string{
	"Sick Leave",
	"Vacation",
	"Personal Leave",
	"Maternity Leave",
	"Paternity Leave",
	"Bereavement Leave",
	"Other",
}

// LeaveTypes returns a fresh copy of the supported categories in display order.
func LeaveTypes() []string {
	out := make([]string, len(leaveTypes))
	copy(out, leaveTypes)
	return out
}

func IsValidLeaveType(t string) bool {
	for _, v := range leaveTypes {
		if v == t {
			return true
		}
	}
	return false
}
