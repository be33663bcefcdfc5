package assert

import (
	"reflect"
	"strings"
	"testing"
)

// Equal checks if values are equal
func Equal(t *testing.T, a interface{}, b interface{}) {
	t.Helper()
	if a == b {
		return
	}
	t.Errorf("Received %v (type %v), expected %v (type %v)",
		a, reflect.TypeOf(a), b, reflect.TypeOf(b))
}

// DeepEqual is Equal for slices, maps and structs
func DeepEqual(t *testing.T, a interface{}, b interface{}) {
	t.Helper()
	if reflect.DeepEqual(a, b) {
		return
	}
	t.Errorf("Received %+v, expected %+v", a, b)
}

func True(t *testing.T, value bool, msgAndArgs ...interface{}) bool {
	t.Helper()
	if value {
		return true
	}
	if len(msgAndArgs) > 0 {
		t.Errorf("Should be true: "+msgAndArgs[0].(string), msgAndArgs[1:]...)
	} else {
		t.Error("Should be true")
	}
	return false
}

// NoError stops the test on a non-nil error
func NoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
}

func Contains(t *testing.T, haystack, needle string) bool {
	t.Helper()
	if strings.Contains(haystack, needle) {
		return true
	}
	t.Errorf("'%s' does not contain '%s'", haystack, needle)
	return false
}
