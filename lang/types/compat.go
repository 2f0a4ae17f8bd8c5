package types

// Assignable reports whether a value of type u may be assigned/passed
// where a value of type t is expected: same canonical type, t is any, t is
// a union containing u, or u promotes to t via the numeric rank rules
// (bool < int < float, promoting only upward). needsCast reports whether
// an implicit promotion Cast must be inserted; it is meaningless when ok
// is false.
func Assignable(t, u *Type) (ok, needsCast bool) {
	t, u = t.Underlying(), u.Underlying()
	if t.IsInvalid() || u.IsInvalid() {
		return false, false
	}
	if t == u {
		return true, false
	}
	if t.IsAny() {
		return true, false
	}
	if t.Kind == Union {
		for _, alt := range t.Alts {
			if alt.Underlying() == u {
				return true, false
			}
		}
		return false, false
	}
	if t.IsNumeric() && u.IsNumeric() && u.Rank() < t.Rank() {
		return true, true
	}
	return false, false
}

// BinaryNumericResult returns the canonical result type of an arithmetic
// binary operator applied to operands of type lhs and rhs — the wider of
// the two by numeric rank — along with whether each side needs an implicit
// promotion Cast to reach that result type. It is only meaningful when
// both operands are numeric.
func BinaryNumericResult(lhs, rhs *Type) (result *Type, castLeft, castRight bool) {
	lhs, rhs = lhs.Underlying(), rhs.Underlying()
	if lhs.Rank() >= rhs.Rank() {
		return lhs, false, lhs != rhs
	}
	return rhs, true, false
}
