package fdsn_test

import (
	"runtime"
	"strconv"
)

// loc returns a string representing the line of code that called loc.
func loc() string {
	_, _, l, _ := runtime.Caller(1)
	return "L" + strconv.Itoa(l)
}
