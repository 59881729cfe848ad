// Package command implements the typed message dispatcher: a startup-built
// table mapping a message type tag to exactly one handler, with payload
// validation enforced before any handler executes.
package command

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
)

// Message is a dispatchable request. Type returns a stable tag, unique per
// concrete message shape.
type Message interface {
	Type() string
}

// Validable messages run their rules before the handler is invoked. A
// message without a Validate method passes trivially.
type Validable interface {
	Validate() error
}

// HandlerFunc executes a single message and produces its typed result.
type HandlerFunc func(ctx context.Context, msg Message) (any, error)

// Dispatcher routes messages to their registered handlers. Registration
// happens at startup; after that the table is read-only and the dispatcher
// is safe for concurrent use.
type Dispatcher struct {
	handlers map[string]HandlerFunc
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: map[string]HandlerFunc{},
	}
}

// Handle registers a handler for the given message type. Exactly one
// handler may exist per type; a duplicate registration is a configuration
// error.
func (d *Dispatcher) Handle(msgType string, h HandlerFunc) error {
	if msgType == "" {
		return errors.New("message type must not be empty", errors.CategoryBadInput)
	}

	if h == nil {
		return errors.New("handler must not be nil", errors.CategoryBadInput)
	}

	if _, ok := d.handlers[msgType]; ok {
		return errors.New("handler already registered for message type", errors.CategoryConflict).
			WithMetadata(map[string]any{"type": msgType})
	}

	d.handlers[msgType] = h
	return nil
}

// Register wires a typed handler function into the dispatch table using the
// message's zero-value type tag.
func Register[T Message, R any](d *Dispatcher, h func(ctx context.Context, msg T) (R, error)) error {
	var zero T
	return d.Handle(zero.Type(), func(ctx context.Context, msg Message) (any, error) {
		typed, ok := msg.(T)
		if !ok {
			return nil, errors.New("message does not match registered handler type", errors.CategoryInternal).
				WithMetadata(map[string]any{"type": msg.Type()})
		}
		return h(ctx, typed)
	})
}

// Dispatch routes msg to its single registered handler. Order is strict:
// handler lookup, then validation, then execution. The handler runs at most
// once, and never when validation fails.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) (any, error) {
	handler, ok := d.handlers[msg.Type()]
	if !ok {
		return nil, errors.New("no handler registered for message type", errors.CategoryInternal).
			WithTextCode("HANDLER_NOT_FOUND").
			WithMetadata(map[string]any{"type": msg.Type()})
	}

	if v, ok := msg.(Validable); ok {
		if err := v.Validate(); err != nil {
			return nil, WrapValidation(err)
		}
	}

	select {
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), errors.CategoryOperation, "context cancelled before dispatch")
	default:
		return handler(ctx, msg)
	}
}

// DispatchTyped dispatches msg and asserts the handler result to R.
func DispatchTyped[R any](d *Dispatcher, ctx context.Context, msg Message) (R, error) {
	var zero R

	res, err := d.Dispatch(ctx, msg)
	if err != nil {
		return zero, err
	}

	typed, ok := res.(R)
	if !ok {
		return zero, errors.New("handler returned an unexpected result type", errors.CategoryInternal).
			WithMetadata(map[string]any{"type": msg.Type()})
	}

	return typed, nil
}

// WrapValidation converts a validation failure into a rich error carrying
// the per-field message map.
func WrapValidation(err error) error {
	if err == nil {
		return nil
	}

	rich := errors.Wrap(err, errors.CategoryValidation, "invalid request payload").
		WithTextCode("VALIDATION")

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		rich = rich.WithMetadata(map[string]any{
			"errors": fieldErrors(verrs),
		})
	}

	return rich
}

// ValidationFieldErrors extracts the field/message map from a dispatch
// error, reporting whether err was a validation failure.
func ValidationFieldErrors(err error) (map[string][]string, bool) {
	if err == nil {
		return nil, false
	}

	var rich *errors.Error
	if !errors.As(err, &rich) || rich.Category != errors.CategoryValidation {
		return nil, false
	}

	if rich.Metadata != nil {
		if fields, ok := rich.Metadata["errors"].(map[string][]string); ok {
			return fields, true
		}
	}

	return map[string][]string{}, true
}

func fieldErrors(verrs validation.Errors) map[string][]string {
	fields := make(map[string][]string, len(verrs))
	for field, ferr := range verrs {
		if ferr == nil {
			continue
		}
		fields[field] = append(fields[field], ferr.Error())
	}
	return fields
}
