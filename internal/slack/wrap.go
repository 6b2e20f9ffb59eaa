package slack

import (
	"context"
	"reflect"
	"runtime"
	"strings"
)

// Wrap returns fn with scope reporting around every call. The function's name
// is the default sender name and title, and its result becomes the "return"
// field. Results and errors pass through unchanged, after the report.
func Wrap[T any](n *Notifier, fn func(context.Context) (T, error), opts ...ScopeOption) func(context.Context) (T, error) {
	name := funcName(fn)
	base := []ScopeOption{WithName(name), WithTitle(name), withFooterLabel(footerWrapLabel)}
	opts = append(base, opts...)
	return func(ctx context.Context) (T, error) {
		var result T
		err := n.Run(ctx, func(ctx context.Context, s *Scope) error {
			var ferr error
			result, ferr = fn(ctx)
			if ferr == nil {
				s.SetResult(result)
			}
			return ferr
		}, opts...)
		return result, err
	}
}

// WrapFunc is Wrap for functions with no result.
func WrapFunc(n *Notifier, fn func(context.Context) error, opts ...ScopeOption) func(context.Context) error {
	name := funcName(fn)
	base := []ScopeOption{WithName(name), WithTitle(name), withFooterLabel(footerWrapLabel)}
	opts = append(base, opts...)
	return func(ctx context.Context) error {
		return n.Run(ctx, func(ctx context.Context, _ *Scope) error {
			return fn(ctx)
		}, opts...)
	}
}

func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return defaultSenderName
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return defaultSenderName
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
