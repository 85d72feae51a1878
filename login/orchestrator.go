package login

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillsenselab/azurekit/errors"
	"github.com/skillsenselab/azurekit/identity"
	"github.com/skillsenselab/azurekit/logger"
)

// CancelResult reports a sign-in attempt that ended without an account.
// Every failure past the configuration check degrades to this instead of
// an error, so callers treat dismissed prompts and provider outages alike.
type CancelResult struct {
	Canceled bool `json:"canceled"`
}

// Orchestrator drives one sign-in flow end to end: configuration check,
// external token acquisition, claim decoding, and account hydration.
type Orchestrator struct {
	flow       Flow
	hydrator   *identity.Hydrator
	interactor Interactor
	log        *logger.Logger
}

// OrchestratorOption customizes an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithInteractor sets the interaction capability used to surface failures.
func WithInteractor(i Interactor) OrchestratorOption {
	return func(o *Orchestrator) { o.interactor = i }
}

// WithLogger sets the logger used by the orchestrator.
func WithLogger(l *logger.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.log = l }
}

// NewOrchestrator creates an orchestrator over a flow and hydrator.
func NewOrchestrator(flow Flow, hydrator *identity.Hydrator, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		flow:       flow,
		hydrator:   hydrator,
		interactor: NopInteractor{},
		log:        logger.WithComponent("login"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// StartLogin runs the interactive sign-in against the organizations
// tenant. It returns the hydrated account on success, a CancelResult when
// the flow was dismissed or failed past the configuration check, and an
// error only when the provider configuration is unusable.
func (o *Orchestrator) StartLogin(ctx context.Context) (*identity.Account, *CancelResult, error) {
	correlationID := uuid.NewString()
	log := o.log.WithFields(logger.Fields(
		logger.FieldCorrelationID, correlationID,
		logger.FieldProvider, o.hydrator.Settings().ID,
	))

	settings := o.hydrator.Settings()
	windows := settings.Resources.WindowsManagementResource
	if windows == nil || windows.Endpoint == "" {
		err := errors.MissingEndpoint(settings.ID, "windows management")
		log.Error("sign-in refused, provider configuration incomplete", logger.ErrorFields("login", err))
		return nil, nil, err
	}

	log.Info("starting interactive sign-in")
	result, completion, err := o.flow.Login(ctx, identity.OrganizationsTenant)
	if err != nil {
		log.Warn("sign-in flow failed", logger.ErrorFields("login", err))
		o.cancel(completion, err)
		return nil, &CancelResult{Canceled: true}, nil
	}
	if result == nil || result.Token.Token == "" {
		log.Info("sign-in dismissed before a token was issued")
		o.cancel(completion, errors.Canceled("no token acquired"))
		return nil, &CancelResult{Canceled: true}, nil
	}

	claims := result.Claims
	if claims == nil && result.RawIDToken != "" {
		claims, err = identity.ParseClaims(result.RawIDToken)
		if err != nil {
			log.Warn("id token could not be decoded", logger.ErrorFields("parse_claims", err))
			o.cancel(completion, err)
			return nil, &CancelResult{Canceled: true}, nil
		}
	}

	account, err := o.hydrator.Hydrate(ctx, result.Token, claims)
	if err != nil {
		log.Error("account hydration failed", logger.ErrorFields("hydrate", err))
		o.cancel(completion, err)
		o.present(ctx, "Sign-in failed: "+err.Error())
		return nil, &CancelResult{Canceled: true}, nil
	}

	if completion != nil {
		completion.Resolve()
	}
	log.Info("sign-in completed", logger.Fields(
		logger.FieldTenant, account.Properties.OwningTenant.ID,
		"account_type", string(account.DisplayInfo.AccountType),
	))
	return &account, nil, nil
}

// cancel settles a completion with a failure, tolerating nil completions
// and completions that already fired.
func (o *Orchestrator) cancel(completion *Completion, err error) {
	if completion != nil {
		completion.Reject(err)
	}
}

// present surfaces a message through the interactor, ignoring failures.
func (o *Orchestrator) present(ctx context.Context, text string) {
	if err := o.interactor.PresentResult(ctx, text); err != nil {
		o.log.Debug("could not present sign-in result", logger.ErrorFields("present", err))
	}
}
