package sprint

type SprintStatus string

const (
	StatusPlanning  SprintStatus = "PLANNING"
	StatusActive    SprintStatus = "ACTIVE"
	StatusCompleted SprintStatus = "COMPLETED"
	StatusCancelled SprintStatus = "CANCELLED"
)

var AllStatuses = []SprintStatus{
	StatusPlanning,
	StatusActive,
	StatusCompleted,
	StatusCancelled,
}

func (s SprintStatus) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s ends the forward lifecycle. Terminal
// sprints can still be reopened through an explicit status update; that
// flow is provisional and logged when it happens.
func (s SprintStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
