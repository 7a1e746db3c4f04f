package bindkit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bindkit"
)

type echoParams struct {
	Name string `query:"name" default:"world"`
}

func TestLinkName(t *testing.T) {
	t.Parallel()

	h := bindkit.NewHandler(func(ctx bindkit.Context, p echoParams) (string, error) {
		return p.Name, nil
	})
	assert.Equal(t, "bindkit_test.echoParams", h.Name())

	mw := bindkit.NewMiddleware(func(ctx bindkit.Context, p struct{}, next bindkit.Next) (any, error) {
		return next()
	})
	assert.Equal(t, "struct {}", mw.Name())
}

func TestHandlerInterfaceResponse(t *testing.T) {
	t.Parallel()

	// A handler declared with an interface response type may return any
	// implementation of it.
	ep := bindkit.MustEndpoint(
		bindkit.NewHandler(func(ctx bindkit.Context, p struct{}) (any, error) {
			return map[string]int{"n": 1}, nil
		}),
	)

	rr := serve(ep, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"n":1}`, rr.Body.String())
}

func TestWithResponseTypesMultiple(t *testing.T) {
	t.Parallel()

	type loginPage struct {
		URL string `json:"url"`
	}
	type upgradePage struct {
		Plan string `json:"plan"`
	}

	type routeParams struct {
		Want string `query:"want" default:"login"`
	}
	mw := bindkit.NewMiddleware(func(ctx bindkit.Context, p routeParams, next bindkit.Next) (any, error) {
		switch p.Want {
		case "login":
			return loginPage{URL: "/login"}, nil
		case "upgrade":
			return upgradePage{Plan: "pro"}, nil
		}
		return next()
	}, bindkit.WithResponseTypes(loginPage{}, upgradePage{}))

	ep := bindkit.MustEndpoint(
		bindkit.NewHandler(func(ctx bindkit.Context, p struct{}) (string, error) {
			return "through", nil
		}),
		bindkit.WithMiddleware(mw),
	)

	t.Run("first declared type", func(t *testing.T) {
		t.Parallel()
		rr := serve(ep, httptest.NewRequest(http.MethodGet, "/?want=login", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"url":"/login"}`, rr.Body.String())
	})

	t.Run("second declared type", func(t *testing.T) {
		t.Parallel()
		rr := serve(ep, httptest.NewRequest(http.MethodGet, "/?want=upgrade", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"plan":"pro"}`, rr.Body.String())
	})

	t.Run("neither short-circuits", func(t *testing.T) {
		t.Parallel()
		rr := serve(ep, httptest.NewRequest(http.MethodGet, "/?want=through", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `"through"`, rr.Body.String())
	})
}
