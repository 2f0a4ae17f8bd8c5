package machine

// RuntimeError reports one of the fatal runtime failures (index out of
// range, map key not found, division/modulo by zero, stack overflow,
// invalid object operation, call to a non-callable, missing main): Matiria
// has no object-language exception model, so any RuntimeError terminates
// the running program.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }
