package describe

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/timeliness-app/taskboard-backend/pkg/logger"
)

// DisabledPlaceholder is returned when no generator is configured
const DisabledPlaceholder = "AI features are disabled. Please configure the API key."

// FailedPlaceholder is returned when the generator failed
const FailedPlaceholder = "An error occurred while generating the description."

// ErrGeneration wraps every failure of a Generator
var ErrGeneration = errors.New("description generation failed")

// Generator writes a task description for a title
type Generator interface {
	Generate(ctx context.Context, title string) (string, error)
}

// Disabled is the Generator used without credentials
type Disabled struct{}

// Generate returns DisabledPlaceholder
func (Disabled) Generate(context.Context, string) (string, error) {
	return DisabledPlaceholder, nil
}

// Fallback never fails: errors of the wrapped Generator degrade to FailedPlaceholder. There is no retry.
type Fallback struct {
	Generator Generator
	Logger    logger.Interface
}

// Generate asks the wrapped Generator once
func (f *Fallback) Generate(ctx context.Context, title string) (string, error) {
	if f.Generator == nil {
		return DisabledPlaceholder, nil
	}

	description, err := f.Generator.Generate(ctx, title)
	if err != nil {
		f.Logger.Error(fmt.Sprintf("could not generate a description for %q", title), fmt.Errorf("%w: %v", ErrGeneration, err))
		return FailedPlaceholder, nil
	}

	return description, nil
}
