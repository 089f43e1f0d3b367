package execx

import "fmt"

// FakeRunner is an in-memory Runner for tests. Responses are matched by
// program name in FIFO order; unmatched calls fail.
type FakeRunner struct {
	Calls     []Command
	Responses []FakeResponse
	Missing   map[string]bool // programs reported as not installed
}

// FakeResponse scripts one Run result.
type FakeResponse struct {
	Result Result
	Err    error
}

// NewFakeRunner creates a FakeRunner with no scripted responses,
// answering every call with a clean zero-exit result.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Missing: make(map[string]bool)}
}

// Script appends a scripted response.
func (f *FakeRunner) Script(r Result, err error) {
	f.Responses = append(f.Responses, FakeResponse{Result: r, Err: err})
}

// Available reports program availability per the Missing set.
func (f *FakeRunner) Available(program string) bool {
	return !f.Missing[program]
}

// Run records the call and pops the next scripted response, or returns a
// clean zero-exit result when nothing is scripted.
func (f *FakeRunner) Run(cmd Command) (*Result, error) {
	f.Calls = append(f.Calls, cmd)
	if f.Missing[cmd.Program] {
		return nil, fmt.Errorf("%s binary not found in PATH", cmd.Program)
	}
	if len(f.Responses) == 0 {
		return &Result{}, nil
	}
	next := f.Responses[0]
	f.Responses = f.Responses[1:]
	r := next.Result
	return &r, next.Err
}
