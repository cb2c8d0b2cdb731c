package workouts

import (
	"context"

	"github.com/2beens/gymvariations/internal/gymstats/exercises"
	"github.com/2beens/gymvariations/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type definitionReader interface {
	GetDefinition(ctx context.Context, owner, id string) (*exercises.Definition, error)
}

// Validator gates log entries against the current exercise definitions.
type Validator struct {
	definitions definitionReader
	registry    exercises.OptionRegistry
}

func NewValidator(definitions definitionReader, registry exercises.OptionRegistry) *Validator {
	return &Validator{
		definitions: definitions,
		registry:    registry,
	}
}

// Validate confirms the exercise is visible to owner and that the selection
// only names supported templates with legal options. Templates left out of
// the selection are fine. The loaded definition is returned on success.
func (v *Validator) Validate(ctx context.Context, owner, exerciseID string, selection exercises.Selection) (_ *exercises.Definition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.workouts.validate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	def, err := v.definitions.GetDefinition(ctx, owner, exerciseID)
	if err != nil {
		return nil, err
	}
	if err := exercises.ValidateSelection(def, selection, v.registry); err != nil {
		return nil, err
	}
	return def, nil
}
