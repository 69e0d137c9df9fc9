package testutil

import "testing"

// Given, When, and Then mark the phases of a scenario in the test log.
// They keep long service tests readable without a BDD framework and
// without splitting one scenario's state across subtests.
func Given(t *testing.T, desc string) {
	t.Helper()
	t.Log("Given " + desc)
}

func When(t *testing.T, desc string) {
	t.Helper()
	t.Log("When " + desc)
}

func Then(t *testing.T, desc string) {
	t.Helper()
	t.Log("Then " + desc)
}
