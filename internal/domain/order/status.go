package order

// Status is an order status code as stored by the backend
type Status int

const (
	StatusPending Status = iota + 1
	StatusPaid
	StatusProcessing
	StatusShipped
	StatusDelivered
	StatusCancelled
	StatusRefunded
	StatusFailed
	StatusReturned
)

// PaymentStatus is a payment status code as stored by the backend
type PaymentStatus int

const (
	PaymentNotPaid PaymentStatus = iota + 1
	PaymentPaid
)

// Color names a badge palette; templates map it to CSS classes
type Color string

const (
	ColorGray   Color = "gray"
	ColorPurple Color = "purple"
	ColorOrange Color = "orange"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
)

const unknownLabel = "Unknown"

type display struct {
	label string
	color Color
}

var statusDisplay = map[Status]display{
	StatusPending:    {"Pending", ColorGray},
	StatusPaid:       {"Paid", ColorPurple},
	StatusProcessing: {"Processing", ColorOrange},
	StatusShipped:    {"Shipped", ColorBlue},
	StatusDelivered:  {"Delivered", ColorGreen},
	StatusCancelled:  {"Cancelled", ColorRed},
	StatusRefunded:   {"Refunded", ColorYellow},
	StatusFailed:     {"Failed", ColorRed},
	StatusReturned:   {"Returned", ColorOrange},
}

var paymentDisplay = map[PaymentStatus]display{
	PaymentNotPaid: {"Not Paid", ColorOrange},
	PaymentPaid:    {"Paid", ColorGreen},
}

func (s Status) Label() string {
	if d, ok := statusDisplay[s]; ok {
		return d.label
	}
	return unknownLabel
}

func (s Status) Color() Color {
	if d, ok := statusDisplay[s]; ok {
		return d.color
	}
	return ColorGray
}

func (s Status) Valid() bool {
	_, ok := statusDisplay[s]
	return ok
}

func (p PaymentStatus) Label() string {
	if d, ok := paymentDisplay[p]; ok {
		return d.label
	}
	return unknownLabel
}

func (p PaymentStatus) Color() Color {
	if d, ok := paymentDisplay[p]; ok {
		return d.color
	}
	return ColorGray
}

// Payable reports whether the order still awaits payment
func (p PaymentStatus) Payable() bool {
	return p == PaymentNotPaid
}

// AllStatuses lists every order status in code order, for the admin picker
func AllStatuses() []Status {
	return []Status{
		StatusPending, StatusPaid, StatusProcessing, StatusShipped, StatusDelivered,
		StatusCancelled, StatusRefunded, StatusFailed, StatusReturned,
	}
}
