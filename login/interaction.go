package login

import "context"

// Interactor is the caller-supplied interaction capability. The host
// environment decides how to present text; the core never talks to a UI
// directly.
type Interactor interface {
	// PresentResult shows a text result to the user, such as a device-code
	// message or a sign-in failure.
	PresentResult(ctx context.Context, text string) error
}

// NopInteractor is an Interactor for headless use; results are dropped.
type NopInteractor struct{}

func (NopInteractor) PresentResult(context.Context, string) error {
	return nil
}
