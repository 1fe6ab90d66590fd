package services

import (
	"os"
	"sort"
	"strings"
)

// Environment holds the variables of the triggering CI job.
type Environment map[string]string

// EnvironmentFromOS captures the process environment.
func EnvironmentFromOS() Environment {
	env := Environment{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

func (e Environment) Get(key string) string {
	return e[key]
}

// List renders the variables as sorted KEY=value pairs.
func (e Environment) List() []string {
	out := make([]string, 0, len(e))
	for k, v := range e {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
