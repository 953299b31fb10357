package commands

import (
	"errors"

	"catering/internal/core/domain/model/provider"
	"catering/internal/pkg/guard"
)

var (
	ErrApplyProviderStatusCommandIsNotConstructed = errors.New(
		"ApplyProviderStatusCommand must be created via NewApplyProviderStatusCommand constructor",
	)
	ErrExternalIDIsRequired = errors.New("external order id is required")
	ErrStatusIsRequired     = errors.New("status is required")
)

// ApplyProviderStatusCommand carries a status pushed by a provider for one of its
// sub-orders.
type ApplyProviderStatusCommand struct { //nolint:recvcheck //using for validation
	provider   provider.Name
	externalID string
	status     string

	guard guard.ConstructorGuard
}

func NewApplyProviderStatusCommand(name provider.Name, externalID, status string) (ApplyProviderStatusCommand, error) {
	cmd := ApplyProviderStatusCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setProvider(name),
		cmd.setExternalID(externalID),
		cmd.setStatus(status),
	); err != nil {
		return ApplyProviderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyProviderStatusCommand) Validate() error {
	return c.guard.Validate(ErrApplyProviderStatusCommandIsNotConstructed)
}

func (c ApplyProviderStatusCommand) Provider() provider.Name {
	return c.provider
}

func (c ApplyProviderStatusCommand) ExternalID() string {
	return c.externalID
}

// Status returns the status in the provider's native vocabulary.
func (c ApplyProviderStatusCommand) Status() string {
	return c.status
}

func (c *ApplyProviderStatusCommand) setProvider(name provider.Name) error {
	if name == "" {
		return ErrProviderIsRequired
	}
	c.provider = name
	return nil
}

func (c *ApplyProviderStatusCommand) setExternalID(id string) error {
	if id == "" {
		return ErrExternalIDIsRequired
	}
	c.externalID = id
	return nil
}

func (c *ApplyProviderStatusCommand) setStatus(status string) error {
	if status == "" {
		return ErrStatusIsRequired
	}
	c.status = status
	return nil
}
