package must

// Must panics on error. Reserve it for initialization steps that cannot
// fail at runtime, such as flag registration.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}
