package logging

import "context"

type attrsKey struct{}

// WithAttrs returns a context carrying key-value pairs that every Logger
// call made with it appends, e.g. a request id set by transport middleware.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}
	prev := attrsFrom(ctx)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(merged, prev...)
	merged = append(merged, args...)
	return context.WithValue(ctx, attrsKey{}, merged)
}

func attrsFrom(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	attrs, _ := ctx.Value(attrsKey{}).([]any)
	return attrs
}

// withContextAttrs appends the context pairs after the call's own args.
func withContextAttrs(ctx context.Context, args []any) []any {
	attrs := attrsFrom(ctx)
	if len(attrs) == 0 {
		return args
	}
	out := make([]any, 0, len(args)+len(attrs))
	out = append(out, args...)
	return append(out, attrs...)
}
