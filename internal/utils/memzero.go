package utils

// Zero overwrites b with zeros. Go gives no hard guarantee against
// compiler elision or swapped pages; this is best-effort hygiene for
// key material that has left scope.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
