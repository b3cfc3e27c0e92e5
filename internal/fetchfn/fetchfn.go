// Package fetchfn bridges generically typed fetch functions into the
// any-typed CacheService contract. Cache adapters receive fetch functions as
// plain any values because Go interfaces cannot carry type parameters; this
// package validates and invokes them through reflection.
package fetchfn

import (
	"context"
	"fmt"
	"reflect"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Validate checks that fn has the shape func(context.Context) (T, error).
func Validate(fn any) error {
	if fn == nil {
		return fmt.Errorf("fetchfn: function is nil")
	}
	t := reflect.TypeOf(fn)
	if t.Kind() != reflect.Func {
		return fmt.Errorf("fetchfn: expected a function, got %T", fn)
	}
	if t.NumIn() != 1 || t.NumOut() != 2 {
		return fmt.Errorf("fetchfn: expected func(context.Context) (T, error), got %s", t)
	}
	if !t.In(0).Implements(contextType) {
		return fmt.Errorf("fetchfn: first parameter must be context.Context, got %s", t.In(0))
	}
	if !t.Out(1).Implements(errorType) {
		return fmt.Errorf("fetchfn: second return value must be error, got %s", t.Out(1))
	}
	return nil
}

// OutType returns the T of a validated func(context.Context) (T, error).
func OutType(fn any) reflect.Type {
	return reflect.TypeOf(fn).Out(0)
}

// Call invokes a validated fetch function and unwraps its results.
func Call(ctx context.Context, fn any) (any, error) {
	if direct, ok := fn.(func(context.Context) (any, error)); ok {
		return direct(ctx)
	}

	results := reflect.ValueOf(fn).Call([]reflect.Value{reflect.ValueOf(ctx)})

	var value any
	if results[0].IsValid() && results[0].CanInterface() {
		value = results[0].Interface()
	}
	var err error
	if !results[1].IsNil() {
		err = results[1].Interface().(error)
	}
	return value, err
}
