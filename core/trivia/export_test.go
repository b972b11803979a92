package trivia

// SetRandIntn replaces the quiz randomness until the returned func is called.
func SetRandIntn(f func(n int) int) (reset func()) {
	orig := randIntn
	randIntn = f
	return func() { randIntn = orig }
}
