package scanner

// shortString scans a single-quoted string literal starting at the opening
// quote (s.cur == '\''). There is no escape processing: raw bytes between
// the quotes are copied verbatim. An unterminated string (EOF or newline
// before the closing quote) is reported and the literal scanned so far is
// returned.
func (s *Scanner) shortString(start int) (raw, value string) {
	s.advance() // consume opening quote
	contentStart := s.off

	for {
		switch s.cur {
		case '\'':
			val := string(s.src[contentStart:s.off])
			s.advance() // consume closing quote
			return string(s.src[start:s.off]), val
		case -1, '\n':
			s.error(start, "unterminated string literal")
			return string(s.src[start:s.off]), string(s.src[contentStart:s.off])
		default:
			s.advance()
		}
	}
}
