package hierarchy

// NaturalLess compares two strings with embedded integers compared by value,
// so "A2" sorts before "A10". Used for display ordering of account codes and
// labels.
func NaturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		aDigit, bDigit := isDigit(a[0]), isDigit(b[0])

		switch {
		case aDigit && bDigit:
			aNum, aRest := takeNumber(a)
			bNum, bRest := takeNumber(b)

			if aNum != bNum {
				return aNum < bNum
			}

			a, b = aRest, bRest
		case aDigit != bDigit:
			// Digits sort before letters, matching numeric-aware ordering.
			return aDigit
		default:
			if a[0] != b[0] {
				return a[0] < b[0]
			}

			a, b = a[1:], b[1:]
		}
	}

	return len(a) < len(b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// takeNumber consumes the leading digit run and returns its value and the
// remainder. Runs long enough to overflow are clamped.
func takeNumber(s string) (int, string) {
	n := 0
	i := 0

	for i < len(s) && isDigit(s[i]) {
		digit := int(s[i] - '0')
		if n <= (1<<62)/10 {
			n = n*10 + digit
		}

		i++
	}

	return n, s[i:]
}
