package middleware

import (
	"context"
	"errors"
	"fmt"

	playground "github.com/go-playground/validator/v10"

	"shortify/internal/app/commands"
	"shortify/internal/app/queries"
)

// ErrValidation marks a malformed message payload rejected before dispatch.
var ErrValidation = errors.New("middleware: message validation failed")

type Validator interface {
	Validate(ctx context.Context, message any) error
}

// StructValidator validates message payloads via `validate` struct tags.
type StructValidator struct {
	validate *playground.Validate
}

func NewStructValidator() StructValidator {
	return StructValidator{validate: playground.New(playground.WithRequiredStructEnabled())}
}

func (v StructValidator) Validate(ctx context.Context, message any) error {
	if err := v.validate.StructCtx(ctx, message); err != nil {
		var invalid *playground.InvalidValidationError
		if errors.As(err, &invalid) {
			// non-struct messages have nothing to validate
			return nil
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func Validation(v Validator) CommandMiddleware {
	if v == nil {
		panic("middleware: validator required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := v.Validate(ctx, cmd); err != nil {
				return nil, err
			}
			return nextFn(ctx, cmd)
		})
	}
}

func QueryValidation(v Validator) QueryMiddleware {
	if v == nil {
		panic("middleware: validator required")
	}
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := v.Validate(ctx, q); err != nil {
				return nil, err
			}
			return nextFn(ctx, q)
		})
	}
}
