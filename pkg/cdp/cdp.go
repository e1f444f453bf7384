package cdp

// MaxPrecision internal decimal precision for rates and indexes
const MaxPrecision = 16

// GatewayPrecision precision of amounts the gateway can settle
const GatewayPrecision = 8

// SecondsPerYear used to derive per second rates from annual ones
const SecondsPerYear = 365 * 24 * 3600

// Flag marks how a failed requirement should be treated
type Flag int

const (
	// FlagRefund the payment which triggered the action should be refunded
	FlagRefund Flag = iota + 1
	// FlagNoisy the failure is expected noise, log at info level
	FlagNoisy
)

// Error a failed requirement
type Error struct {
	Msg  string
	Flag Flag
}

func (e Error) Error() string {
	return e.Msg
}

// Refundable reports whether the payment should be returned
func (e Error) Refundable() bool {
	return e.Flag == FlagRefund
}

// Require returns an Error tagged with flag unless cond holds
func Require(cond bool, msg string, flags ...Flag) error {
	if cond {
		return nil
	}

	e := Error{Msg: msg}
	for _, f := range flags {
		e.Flag = f
	}

	return e
}
