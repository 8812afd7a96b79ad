package native

import (
	"time"

	"github.com/thomasrohde/lox/pkg/evaluator"
)

// Now is the clock source used by the clock native. Tests may swap it out.
var Now = time.Now

// RegisterDefaults adds the default native functions to the registry.
func RegisterDefaults(r *Registry) {
	r.Register(Fn{Name: "clock", Call: clock})
	r.Register(Fn{Name: "readFile", Call: readFile})
	r.Register(Fn{Name: "env", Call: env})
}

// clock returns seconds since the Unix epoch as a Lox number. Arguments are
// accepted and ignored.
func clock(args []evaluator.Value) (evaluator.Value, error) {
	sec := float64(Now().UnixNano()) / float64(time.Second)
	return evaluator.NewNumber(sec), nil
}
