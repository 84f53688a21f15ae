// Package container is a very small DI container using constructor
// injection. It centralizes wiring in main without an external framework:
// register constructor functions, resolve by type, singleton scope.
package container

import (
	"fmt"
	"reflect"
	"sync"
)

type Container struct {
	mu        sync.RWMutex
	prov      map[reflect.Type]provider
	instances map[reflect.Type]reflect.Value
}

type provider struct {
	fn        reflect.Value
	singleton bool
}

func New() *Container {
	return &Container{prov: make(map[reflect.Type]provider), instances: make(map[reflect.Type]reflect.Value)}
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Provide registers a constructor for the type of its first return value.
// Constructor parameters are resolved from the container; the function may
// return (T) or (T, error).
func (c *Container) Provide(constructor interface{}, singleton bool) error {
	v := reflect.ValueOf(constructor)
	if v.Kind() != reflect.Func {
		return fmt.Errorf("container: constructor must be a function")
	}
	ft := v.Type()
	if ft.NumOut() == 0 || ft.NumOut() > 2 {
		return fmt.Errorf("container: constructor must return (T) or (T, error)")
	}
	if ft.NumOut() == 2 && ft.Out(1) != errType {
		return fmt.Errorf("container: second return value must be error")
	}

	out := ft.Out(0)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.prov[out]; exists {
		return fmt.Errorf("container: provider already exists for %v", out)
	}
	c.prov[out] = provider{fn: v, singleton: singleton}
	return nil
}

// Resolve populates target (a non-nil pointer) with an instance of the
// requested type. Example: var db *database.DB; c.Resolve(&db)
func (c *Container) Resolve(target interface{}) error {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
		return fmt.Errorf("container: target must be a non-nil pointer")
	}
	val, err := c.get(ptr.Elem().Type(), make(map[reflect.Type]bool))
	if err != nil {
		return err
	}
	ptr.Elem().Set(val)
	return nil
}

// Invoke calls fn with its parameters resolved from the container, returning
// fn's error if its last return value is a non-nil error.
func (c *Container) Invoke(fn interface{}) error {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Errorf("container: Invoke requires a function")
	}
	ft := v.Type()
	args := make([]reflect.Value, ft.NumIn())
	seen := make(map[reflect.Type]bool)
	for i := 0; i < ft.NumIn(); i++ {
		val, err := c.get(ft.In(i), seen)
		if err != nil {
			return err
		}
		args[i] = val
	}
	outs := v.Call(args)
	if n := len(outs); n > 0 && outs[n-1].Type() == errType && !outs[n-1].IsNil() {
		return outs[n-1].Interface().(error)
	}
	return nil
}

func (c *Container) get(t reflect.Type, seen map[reflect.Type]bool) (reflect.Value, error) {
	c.mu.RLock()
	if v, ok := c.instances[t]; ok {
		c.mu.RUnlock()
		return v, nil
	}
	prov, ok := c.prov[t]
	if !ok && t.Kind() == reflect.Interface {
		// A provider whose concrete return type implements the interface
		// also satisfies it.
		for pt, p := range c.prov {
			if pt.Implements(t) {
				prov, ok = p, true
				break
			}
		}
	}
	c.mu.RUnlock()
	if !ok {
		return reflect.Value{}, fmt.Errorf("container: no provider for %v", t)
	}

	if seen[t] {
		return reflect.Value{}, fmt.Errorf("container: cyclic dependency for %v", t)
	}
	seen[t] = true

	ft := prov.fn.Type()
	args := make([]reflect.Value, ft.NumIn())
	for i := 0; i < ft.NumIn(); i++ {
		dep, err := c.get(ft.In(i), seen)
		if err != nil {
			return reflect.Value{}, err
		}
		args[i] = dep
	}
	outs := prov.fn.Call(args)
	if len(outs) == 2 {
		if err, _ := outs[1].Interface().(error); err != nil {
			return reflect.Value{}, err
		}
	}

	res := outs[0]
	if prov.singleton {
		c.mu.Lock()
		c.instances[t] = res
		c.mu.Unlock()
	}
	return res, nil
}
