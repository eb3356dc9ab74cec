package order

type Status string

const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusPaid           Status = "PAID"
	StatusCompleted      Status = "COMPLETED"
	StatusCancelled      Status = "CANCELLED"
)

var transitions = map[Status][]Status{
	StatusPendingPayment: {StatusPaid, StatusCancelled},
	StatusPaid:           {StatusCompleted},
}

// Known reports whether s is one of the four backend statuses.
func (s Status) Known() bool {
	switch s {
	case StatusPendingPayment, StatusPaid, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses have no outgoing edge.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) Label() string {
	switch s {
	case StatusPendingPayment:
		return "Unpaid"
	case StatusPaid:
		return "Paid"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func CanPay(s Status) bool      { return CanTransition(s, StatusPaid) }
func CanCancel(s Status) bool   { return CanTransition(s, StatusCancelled) }
func CanComplete(s Status) bool { return CanTransition(s, StatusCompleted) }
