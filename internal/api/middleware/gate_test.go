package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/streamgate/webshare-addon/internal/core/domain"
)

type stubGate struct {
	credential string
	err        error
	lastToken  string
	lastDevice string
}

func (g *stubGate) Authorize(_ context.Context, token, deviceID string) (string, error) {
	g.lastToken = token
	g.lastDevice = deviceID
	if g.err != nil {
		return "", g.err
	}
	return g.credential, nil
}

func gateContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("token", "device")
	c.SetParamValues("tok-1", "AA:BB:CC:DD:EE:FF")
	return c, rec
}

func TestGate_Success(t *testing.T) {
	gate := &stubGate{credential: "wst-123"}
	c, rec := gateContext(t)

	called := false
	handler := Gate(gate)(func(c echo.Context) error {
		called = true
		if got, _ := c.Get(CtxCredential).(string); got != "wst-123" {
			t.Fatalf("credential in context = %q", got)
		}
		if got, _ := c.Get(CtxToken).(string); got != "tok-1" {
			t.Fatalf("token in context = %q", got)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gate.lastToken != "tok-1" || gate.lastDevice != "AA:BB:CC:DD:EE:FF" {
		t.Fatalf("gate called with %q/%q", gate.lastToken, gate.lastDevice)
	}
}

func TestGate_FailurePropagatesDomainError(t *testing.T) {
	cases := []error{
		domain.ErrMalformedDevice,
		domain.ErrUnknownGrant,
		domain.ErrAccountExpired,
	}
	for _, want := range cases {
		c, _ := gateContext(t)
		handler := Gate(&stubGate{err: want})(func(c echo.Context) error {
			t.Fatalf("next must not run on %v", want)
			return nil
		})
		if err := handler(c); err != want {
			t.Fatalf("err = %v, want %v", err, want)
		}
	}
}
