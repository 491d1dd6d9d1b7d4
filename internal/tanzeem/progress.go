package tanzeem

// statusSteps is the canonical pickup path rendered by the progress stepper.
// Status changes are not restricted to this order.
var statusSteps = []struct {
	status PickupStatus
	label  string
}{
	{StatusPending, "Pending"},
	{StatusReleased, "Child Released"},
	{StatusBoarded, "Boarded Shuttle"},
	{StatusArrived, "Arrived at Zone"},
	{StatusComplete, "Pickup Complete"},
}

func statusIndex(s PickupStatus) int {
	for i, step := range statusSteps {
		if step.status == s {
			return i
		}
	}
	return -1
}

type Step struct {
	Status   PickupStatus `json:"status"`
	Label    string       `json:"label"`
	Complete bool         `json:"complete"`
	Current  bool         `json:"current"`
}

// Progress renders the stepper for the current status. A step counts as
// complete only because it sits before the current one, regardless of which
// statuses were actually visited.
func Progress(current PickupStatus) []Step {
	idx := statusIndex(current)
	steps := make([]Step, len(statusSteps))
	for i, s := range statusSteps {
		steps[i] = Step{
			Status:   s.status,
			Label:    s.label,
			Complete: idx > i,
			Current:  idx == i,
		}
	}
	return steps
}
