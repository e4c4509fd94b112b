package project

// Status represents the workflow state of a project.
type Status string

const (
	StatusReady       Status = "Ready"
	StatusActive      Status = "Active"
	StatusContainment Status = "Containment"
	StatusCorrective  Status = "Corrective"
	StatusMonitoring  Status = "Monitoring"
	StatusClosed      Status = "Closed"
)

// Statuses lists all workflow states in display order.
var Statuses = []Status{
	StatusReady,
	StatusActive,
	StatusContainment,
	StatusCorrective,
	StatusMonitoring,
	StatusClosed,
}

// ParseStatus validates a status string against the six-value enum.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if Status(s) == st {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// IsOpen reports whether the status counts as open work. Every state but
// Closed is open. There is no transition graph: any status may follow any
// other, including reopening out of Closed.
func (s Status) IsOpen() bool {
	return s != StatusClosed
}
