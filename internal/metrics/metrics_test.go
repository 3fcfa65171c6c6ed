package metrics_test

import (
	"runtime"
	"strconv"
)

func l() (loc string) {
	_, _, l, _ := runtime.Caller(1)
	return "L" + strconv.Itoa(l)
}
