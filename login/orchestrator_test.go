package login

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skillsenselab/azurekit/config"
	"github.com/skillsenselab/azurekit/errors"
	"github.com/skillsenselab/azurekit/httpclient"
	"github.com/skillsenselab/azurekit/identity"
	"github.com/skillsenselab/azurekit/logger"
)

type scriptedFlow struct {
	tenant     identity.Tenant
	result     *Result
	completion *Completion
	err        error
}

func (f *scriptedFlow) AuthType() identity.AuthType { return identity.AuthTypeCodeGrant }

func (f *scriptedFlow) Login(_ context.Context, tenant identity.Tenant) (*Result, *Completion, error) {
	f.tenant = tenant
	if f.completion == nil {
		f.completion = NewCompletion()
	}
	return f.result, f.completion, f.err
}

func newTestHydrator(t *testing.T, srv *httptest.Server, settings config.ProviderSettings) *identity.Hydrator {
	t.Helper()
	client, err := httpclient.New(httpclient.Config{},
		httpclient.WithLogger(logger.Nop()),
		httpclient.WithEnvLookup(func(string) (string, bool) { return "", false }),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv != nil {
		settings.Resources.AzureManagementResource.Endpoint = srv.URL + "/"
	}
	return identity.NewHydrator(client, settings, identity.AuthTypeCodeGrant, identity.WithLogger(logger.Nop()))
}

func tenantServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != 0 {
			w.WriteHeader(status)
		}
		w.Write([]byte(body))
	}))
}

func TestStartLogin_Succeeds(t *testing.T) {
	srv := tenantServer(t, `{"value":[{"tenantId":"t1","displayName":"Contoso","tenantCategory":"Home"}]}`, 0)
	defer srv.Close()

	flow := &scriptedFlow{result: &Result{
		Token: identity.Token{Token: "tok", Key: "home-account-id"},
		Claims: &identity.TokenClaims{
			Name:              "Jane Doe",
			PreferredUsername: "jane@corp.example",
			TenantID:          "t1",
		},
	}}
	o := NewOrchestrator(flow, newTestHydrator(t, srv, testProviderSettings()), WithLogger(logger.Nop()))

	account, cancel, err := o.StartLogin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancel != nil {
		t.Fatalf("expected no cancel result, got %+v", cancel)
	}
	if account == nil {
		t.Fatal("expected an account")
	}
	if account.Key.ID != "home-account-id" {
		t.Errorf("expected account key from token, got %q", account.Key.ID)
	}
	if account.Properties.OwningTenant.DisplayName != "Contoso" {
		t.Errorf("expected owning tenant Contoso, got %+v", account.Properties.OwningTenant)
	}
	if account.DisplayInfo.AccountType != identity.AccountTypeWorkSchool {
		t.Errorf("expected work/school account, got %q", account.DisplayInfo.AccountType)
	}
	if flow.tenant.ID != "organizations" {
		t.Errorf("expected sign-in against organizations, got %q", flow.tenant.ID)
	}
	if err := flow.completion.Wait(context.Background()); err != nil {
		t.Errorf("expected resolved completion, got %v", err)
	}
}

func TestStartLogin_DecodesRawIDToken(t *testing.T) {
	srv := tenantServer(t, `{"value":[{"tenantId":"t1","displayName":"Contoso"}]}`, 0)
	defer srv.Close()

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"name":               "Jane Doe",
		"preferred_username": "jane@corp.example",
		"tid":                "t1",
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	flow := &scriptedFlow{result: &Result{
		Token:      identity.Token{Token: "tok", Key: "k1"},
		RawIDToken: raw,
	}}
	o := NewOrchestrator(flow, newTestHydrator(t, srv, testProviderSettings()), WithLogger(logger.Nop()))

	account, cancel, err := o.StartLogin(context.Background())
	if err != nil || cancel != nil {
		t.Fatalf("expected success, got account=%v cancel=%v err=%v", account, cancel, err)
	}
	if account.DisplayInfo.Name != "Jane Doe" {
		t.Errorf("expected claims decoded from raw id token, got %q", account.DisplayInfo.Name)
	}
}

func TestStartLogin_MissingWindowsEndpointFailsFast(t *testing.T) {
	settings := testProviderSettings()
	settings.Resources.WindowsManagementResource = nil

	flow := &scriptedFlow{}
	o := NewOrchestrator(flow, newTestHydrator(t, nil, settings), WithLogger(logger.Nop()))

	account, cancel, err := o.StartLogin(context.Background())
	if !errors.IsConfig(err) {
		t.Fatalf("expected config error, got %v", err)
	}
	if account != nil || cancel != nil {
		t.Errorf("expected neither account nor cancel, got %v / %v", account, cancel)
	}
	if !strings.Contains(err.Error(), "windows management") {
		t.Errorf("expected endpoint named in error, got %v", err)
	}
	if flow.completion != nil {
		t.Error("flow must not run when configuration is incomplete")
	}
}

func TestStartLogin_FlowErrorDegradesToCancel(t *testing.T) {
	flow := &scriptedFlow{err: errors.Canceled("user closed the browser")}
	o := NewOrchestrator(flow, newTestHydrator(t, nil, testProviderSettings()), WithLogger(logger.Nop()))

	account, cancel, err := o.StartLogin(context.Background())
	if err != nil {
		t.Fatalf("flow errors must not surface, got %v", err)
	}
	if account != nil {
		t.Errorf("expected no account, got %+v", account)
	}
	if cancel == nil || !cancel.Canceled {
		t.Fatalf("expected cancel result, got %+v", cancel)
	}
	if werr := flow.completion.Wait(context.Background()); werr == nil {
		t.Error("expected rejected completion")
	}
}

func TestStartLogin_EmptyTokenDegradesToCancel(t *testing.T) {
	flow := &scriptedFlow{result: &Result{}}
	o := NewOrchestrator(flow, newTestHydrator(t, nil, testProviderSettings()), WithLogger(logger.Nop()))

	account, cancel, err := o.StartLogin(context.Background())
	if err != nil || account != nil {
		t.Fatalf("expected cancel only, got account=%v err=%v", account, err)
	}
	if cancel == nil || !cancel.Canceled {
		t.Fatalf("expected cancel result, got %+v", cancel)
	}
	werr := flow.completion.Wait(context.Background())
	if !errors.IsCanceled(werr) {
		t.Errorf("expected canceled rejection, got %v", werr)
	}
}

func TestStartLogin_HydrateFailureDegradesToCancel(t *testing.T) {
	srv := tenantServer(t, `{"error":{"code":"401","message":"denied"}}`, http.StatusUnauthorized)
	defer srv.Close()

	flow := &scriptedFlow{result: &Result{
		Token:  identity.Token{Token: "tok", Key: "k1"},
		Claims: &identity.TokenClaims{TenantID: "t1"},
	}}
	interactor := &recordingInteractor{}
	o := NewOrchestrator(flow, newTestHydrator(t, srv, testProviderSettings()),
		WithLogger(logger.Nop()), WithInteractor(interactor))

	account, cancel, err := o.StartLogin(context.Background())
	if err != nil || account != nil {
		t.Fatalf("expected cancel only, got account=%v err=%v", account, err)
	}
	if cancel == nil || !cancel.Canceled {
		t.Fatalf("expected cancel result, got %+v", cancel)
	}
	werr := flow.completion.Wait(context.Background())
	if !errors.IsRemote(werr) {
		t.Errorf("expected remote rejection, got %v", werr)
	}
	if len(interactor.messages) != 1 || !strings.HasPrefix(interactor.messages[0], "Sign-in failed") {
		t.Errorf("expected failure surfaced to the user, got %v", interactor.messages)
	}
}
