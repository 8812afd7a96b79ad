package native

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/thomasrohde/lox/pkg/evaluator"
)

// readFile returns the contents of the file at the given path as a string.
func readFile(args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("readFile expects 1 argument, got %d", len(args))
	}
	path, ok := args[0].(evaluator.String)
	if !ok {
		return nil, fmt.Errorf("readFile expects a string path")
	}

	resolved, err := filepath.Abs(path.Value)
	if err != nil {
		return nil, fmt.Errorf("readFile: invalid path: %s", err)
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("readFile: %s", err)
	}
	return evaluator.NewString(string(data)), nil
}

// env returns the value of an environment variable, or nil when unset.
func env(args []evaluator.Value) (evaluator.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("env expects 1 argument, got %d", len(args))
	}
	name, ok := args[0].(evaluator.String)
	if !ok {
		return nil, fmt.Errorf("env expects a string name")
	}

	val, found := os.LookupEnv(name.Value)
	if !found {
		return evaluator.NewNil(), nil
	}
	return evaluator.NewString(val), nil
}
