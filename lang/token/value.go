package token

// Value carries the literal payload of a scanned token, alongside its
// source position. Raw always holds the exact source text of the token
// (used for identifiers, keywords, and punctuation as well as literals);
// Int/Float/String are populated only for the matching literal kinds.
type Value struct {
	Raw    string
	Pos    Pos
	Int    int64
	Float  float64
	String string
}
