package commands

import (
	"errors"

	"catering/internal/pkg/guard"
)

var ErrGenerateRecommendationsCommandIsNotConstructed = errors.New(
	"GenerateRecommendationsCommand must be created via NewGenerateRecommendationsCommand constructor",
)

// GenerateRecommendationsCommand runs the recommendation batch for every customer.
type GenerateRecommendationsCommand struct {
	guard guard.ConstructorGuard
}

func NewGenerateRecommendationsCommand() GenerateRecommendationsCommand {
	return GenerateRecommendationsCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c GenerateRecommendationsCommand) Validate() error {
	return c.guard.Validate(ErrGenerateRecommendationsCommandIsNotConstructed)
}
