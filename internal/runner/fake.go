package runner

import "context"

// Call records one invocation made through a Func runner.
type Call struct {
	Name string
	Args []string
}

// Func adapts a function into a Runner and records every call.
type Func struct {
	Fn    func(ctx context.Context, name string, args ...string) (Result, error)
	Calls []Call
}

func (f *Func) Run(ctx context.Context, name string, args ...string) (Result, error) {
	f.Calls = append(f.Calls, Call{Name: name, Args: append([]string{}, args...)})
	if f.Fn == nil {
		return Result{}, nil
	}
	return f.Fn(ctx, name, args...)
}

// ArgValue returns the value following flag in args, or "".
func ArgValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}
