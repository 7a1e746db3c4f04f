package bindkit_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bindkit"
	"github.com/dmitrymomot/bindkit/binder"
)

// capture builds an endpoint whose handler stores the bound params for the
// test to inspect after the request.
func capture[P any](t *testing.T, got *P, opts ...bindkit.EndpointOption) *bindkit.Endpoint {
	t.Helper()
	return bindkit.MustEndpoint(
		bindkit.NewHandler(func(ctx bindkit.Context, p P) (string, error) {
			*got = p
			return "ok", nil
		}),
		opts...,
	)
}

func TestQueryTypedValues(t *testing.T) {
	t.Parallel()

	type typedParams struct {
		ID    uuid.UUID       `query:"id"`
		Since time.Time       `query:"since"`
		Day   time.Time       `query:"day"`
		Rate  decimal.Decimal `query:"rate"`
		Ratio float64         `query:"ratio"`
		On    bool            `query:"on"`
	}

	t.Run("converts every supported kind", func(t *testing.T) {
		t.Parallel()
		var got typedParams
		ep := capture(t, &got)

		id := uuid.New()
		q := url.Values{
			"id":    {id.String()},
			"since": {"2026-03-01T10:20:30Z"},
			"day":   {"2026-03-01"},
			"rate":  {"1.10"},
			"ratio": {"0.5"},
			"on":    {"on"},
		}
		rr := serve(ep, httptest.NewRequest(http.MethodGet, "/?"+q.Encode(), nil))
		require.Equal(t, http.StatusOK, rr.Code)

		assert.Equal(t, id, got.ID)
		assert.Equal(t, time.Date(2026, 3, 1, 10, 20, 30, 0, time.UTC), got.Since.UTC())
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got.Day.UTC())
		assert.Equal(t, "1.10", got.Rate.String())
		assert.Equal(t, 0.5, got.Ratio)
		assert.True(t, got.On)
	})

	t.Run("reports every conversion failure", func(t *testing.T) {
		t.Parallel()
		var got typedParams
		ep := capture(t, &got)

		rr := serve(ep, httptest.NewRequest(http.MethodGet, "/?id=nope&since=yesterday&day=2026-03-01&rate=abc&ratio=x&on=maybe", nil))
		fails := decodeFailures(t, rr)
		require.Len(t, fails, 5)
		assert.Equal(t, "uuid_parsing", fails[0].Type)
		assert.Equal(t, "datetime_parsing", fails[1].Type)
		assert.Equal(t, "decimal_parsing", fails[2].Type)
		assert.Equal(t, "float_parsing", fails[3].Type)
		assert.Equal(t, "bool_parsing", fails[4].Type)
	})
}

func TestQueryRepeatedValues(t *testing.T) {
	t.Parallel()

	type repeatParams struct {
		Tags []string `query:"tag"`
		Name string   `query:"name"`
		Nums []int    `query:"n"`
	}

	t.Run("slices collect every value, scalars take the first", func(t *testing.T) {
		t.Parallel()
		var got repeatParams
		ep := capture(t, &got)

		rr := serve(ep, httptest.NewRequest(http.MethodGet, "/?tag=a&tag=b&name=x&name=y&n=1&n=2", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []string{"a", "b"}, got.Tags)
		assert.Equal(t, "x", got.Name)
		assert.Equal(t, []int{1, 2}, got.Nums)
	})

	t.Run("element failures carry their index", func(t *testing.T) {
		t.Parallel()
		var got repeatParams
		ep := capture(t, &got)

		rr := serve(ep, httptest.NewRequest(http.MethodGet, "/?tag=a&name=x&n=1&n=oops", nil))
		fails := decodeFailures(t, rr)
		require.Len(t, fails, 1)
		assert.Equal(t, []any{"query", "n", float64(1)}, fails[0].Loc)
		assert.Equal(t, "int_parsing", fails[0].Type)
	})
}

func TestQueryOptionalPointer(t *testing.T) {
	t.Parallel()

	type optParams struct {
		N *int `query:"n"`
	}

	t.Run("absent stays nil", func(t *testing.T) {
		t.Parallel()
		var got optParams
		rr := serve(capture(t, &got), httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, got.N)
	})

	t.Run("present binds through the pointer", func(t *testing.T) {
		t.Parallel()
		var got optParams
		rr := serve(capture(t, &got), httptest.NewRequest(http.MethodGet, "/?n=5", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, got.N)
		assert.Equal(t, 5, *got.N)
	})

	t.Run("present but invalid still fails", func(t *testing.T) {
		t.Parallel()
		var got optParams
		rr := serve(capture(t, &got), httptest.NewRequest(http.MethodGet, "/?n=x", nil))
		fails := decodeFailures(t, rr)
		require.Len(t, fails, 1)
		assert.Equal(t, []any{"query", "n"}, fails[0].Loc)
		assert.Equal(t, "int_parsing", fails[0].Type)
	})
}

func TestQuerySchemaMode(t *testing.T) {
	t.Parallel()

	type listFilter struct {
		Page    int      `query:"page" default:"1"`
		PerPage int      `query:"per_page" default:"20" validate:"le=100"`
		Sort    []string `query:"sort"`
		Active  *bool    `query:"active"`
	}
	type listParams struct {
		Filter listFilter `query:",schema"`
	}

	t.Run("fills fields by key with defaults", func(t *testing.T) {
		t.Parallel()
		var got listParams
		rr := serve(capture(t, &got), httptest.NewRequest(http.MethodGet, "/?page=2&sort=name&sort=-age", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 2, got.Filter.Page)
		assert.Equal(t, 20, got.Filter.PerPage)
		assert.Equal(t, []string{"name", "-age"}, got.Filter.Sort)
		assert.Nil(t, got.Filter.Active)
	})

	t.Run("nested rules report under the source", func(t *testing.T) {
		t.Parallel()
		var got listParams
		rr := serve(capture(t, &got), httptest.NewRequest(http.MethodGet, "/?per_page=1000", nil))
		fails := decodeFailures(t, rr)
		require.Len(t, fails, 1)
		assert.Equal(t, []any{"query", "per_page"}, fails[0].Loc)
		assert.Equal(t, "less_than_equal", fails[0].Type)
	})
}

func TestPathSchemaMode(t *testing.T) {
	t.Parallel()

	type repoRoute struct {
		Org  string `path:"org"`
		Repo string `path:"repo"`
	}
	type repoParams struct {
		Route repoRoute `path:",schema"`
	}

	var got repoParams
	ep := capture(t, &got, bindkit.WithPathParams(func(r *http.Request) map[string]string {
		return map[string]string{"org": "acme", "repo": "site"}
	}))

	rr := serve(ep, httptest.NewRequest(http.MethodGet, "/acme/site", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, repoRoute{Org: "acme", Repo: "site"}, got.Route)
}

func TestRawModes(t *testing.T) {
	t.Parallel()

	type rawParams struct {
		Header  http.Header       `header:",raw"`
		Query   url.Values        `query:",raw"`
		Cookies map[string]string `cookie:",raw"`
		Path    map[string]string `path:",raw"`
	}

	var got rawParams
	ep := capture(t, &got, bindkit.WithPathParams(func(r *http.Request) map[string]string {
		return map[string]string{"id": "9"}
	}))

	req := httptest.NewRequest(http.MethodGet, "/things/9?a=1&a=2&b=x", nil)
	req.Header.Set("X-Raw", "yes")
	req.AddCookie(&http.Cookie{Name: "sid", Value: "c-1"})

	rr := serve(ep, req)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "yes", got.Header.Get("X-Raw"))
	assert.Equal(t, []string{"1", "2"}, got.Query["a"])
	assert.Equal(t, "x", got.Query.Get("b"))
	assert.Equal(t, map[string]string{"sid": "c-1"}, got.Cookies)
	assert.Equal(t, map[string]string{"id": "9"}, got.Path)
}

func TestJSONBodyFields(t *testing.T) {
	t.Parallel()

	type noteBody struct {
		Title string  `body:"title"`
		Score int     `body:"score" default:"0"`
		Memo  *string `body:"memo"`
	}

	t.Run("binds keys case-insensitively", func(t *testing.T) {
		t.Parallel()
		var got noteBody
		rr := serve(capture(t, &got), jsonPost("/", `{"Title":"hello","memo":"m"}`))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "hello", got.Title)
		assert.Equal(t, 0, got.Score)
		require.NotNil(t, got.Memo)
		assert.Equal(t, "m", *got.Memo)
	})

	t.Run("null binds a nil pointer", func(t *testing.T) {
		t.Parallel()
		var got noteBody
		rr := serve(capture(t, &got), jsonPost("/", `{"title":"hello","memo":null}`))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, got.Memo)
	})

	t.Run("non-object document is rejected", func(t *testing.T) {
		t.Parallel()
		var got noteBody
		rr := serve(capture(t, &got), jsonPost("/", `42`))
		fails := decodeFailures(t, rr)
		require.Len(t, fails, 1)
		assert.Equal(t, []any{"body"}, fails[0].Loc)
		assert.Equal(t, "model_type", fails[0].Type)
		assert.Equal(t, "value is not a valid object", fails[0].Msg)
	})
}

func TestJSONBodySchema(t *testing.T) {
	t.Parallel()

	type orderItem struct {
		SKU   string          `json:"sku"`
		Price decimal.Decimal `json:"price" validate:"gt=0"`
		Qty   int             `json:"qty" default:"1"`
	}
	type orderDoc struct {
		Items []orderItem `json:"items"`
		Note  *string     `json:"note"`
	}
	type orderParams struct {
		Order orderDoc `body:",schema"`
	}

	t.Run("decodes the whole document", func(t *testing.T) {
		t.Parallel()
		var got orderParams
		rr := serve(capture(t, &got), jsonPost("/orders", `{
			"items": [
				{"sku": "A-1", "price": "9.99", "qty": 2},
				{"sku": "B-2", "price": "1.10"}
			]
		}`))
		require.Equal(t, http.StatusOK, rr.Code)

		require.Len(t, got.Order.Items, 2)
		assert.Equal(t, "A-1", got.Order.Items[0].SKU)
		assert.Equal(t, 2, got.Order.Items[0].Qty)
		assert.Equal(t, "9.99", got.Order.Items[0].Price.String())
		assert.Equal(t, 1, got.Order.Items[1].Qty)
		assert.Equal(t, "1.10", got.Order.Items[1].Price.String())
		assert.Nil(t, got.Order.Note)
	})

	t.Run("nested failures carry the element index", func(t *testing.T) {
		t.Parallel()
		var got orderParams
		rr := serve(capture(t, &got), jsonPost("/orders", `{
			"items": [
				{"sku": "A-1", "price": "9.99"},
				{"sku": "B-2", "price": "-1"}
			]
		}`))
		fails := decodeFailures(t, rr)
		require.Len(t, fails, 1)
		assert.Equal(t, []any{"body", "items", float64(1), "price"}, fails[0].Loc)
		assert.Equal(t, "greater_than", fails[0].Type)
	})

	t.Run("required document may not be empty", func(t *testing.T) {
		t.Parallel()
		var got orderParams
		rr := serve(capture(t, &got), jsonPost("/orders", ""))
		fails := decodeFailures(t, rr)
		require.Len(t, fails, 1)
		assert.Equal(t, []any{"body"}, fails[0].Loc)
		assert.Equal(t, "missing", fails[0].Type)
	})
}

func TestJSONBodyRaw(t *testing.T) {
	t.Parallel()

	type rawDoc struct {
		Doc any `body:",raw"`
	}

	t.Run("hands over the decoded document", func(t *testing.T) {
		t.Parallel()
		var got rawDoc
		rr := serve(capture(t, &got), jsonPost("/", `{"n": 1, "s": "x"}`))
		require.Equal(t, http.StatusOK, rr.Code)

		m, ok := got.Doc.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, json.Number("1"), m["n"])
		assert.Equal(t, "x", m["s"])
	})

	t.Run("no body stays nil", func(t *testing.T) {
		t.Parallel()
		var got rawDoc
		rr := serve(capture(t, &got), httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, got.Doc)
	})
}

func TestFormBinding(t *testing.T) {
	t.Parallel()

	type signupForm struct {
		Email string `form:"email" validate:"pattern=^[^@]+@[^@]+$"`
		Plan  string `form:"plan" default:"free"`
	}

	post := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}

	t.Run("binds urlencoded fields with defaults", func(t *testing.T) {
		t.Parallel()
		var got signupForm
		rr := serve(capture(t, &got), post("email=dev%40corp.test"))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "dev@corp.test", got.Email)
		assert.Equal(t, "free", got.Plan)
	})

	t.Run("pattern failures name the field", func(t *testing.T) {
		t.Parallel()
		var got signupForm
		rr := serve(capture(t, &got), post("email=not-an-email"))
		fails := decodeFailures(t, rr)
		require.Len(t, fails, 1)
		assert.Equal(t, []any{"body", "email"}, fails[0].Loc)
		assert.Equal(t, "string_pattern_mismatch", fails[0].Type)
	})
}

func multipartRequest(t *testing.T, build func(w *multipart.Writer)) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	build(w)
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestMultipartBinding(t *testing.T) {
	t.Parallel()

	type uploadParams struct {
		Avatar binder.FileUpload  `file:"avatar" validate:"max_len=16"`
		Extra  *binder.FileUpload `file:"extra"`
		Note   string             `form:"note" default:""`
	}

	t.Run("binds file and value parts from one body", func(t *testing.T) {
		t.Parallel()
		var got uploadParams
		req := multipartRequest(t, func(w *multipart.Writer) {
			fw, err := w.CreateFormFile("avatar", "a.png")
			require.NoError(t, err)
			_, err = fw.Write([]byte("imgdata"))
			require.NoError(t, err)
			require.NoError(t, w.WriteField("note", "profile shot"))
		})

		rr := serve(capture(t, &got), req)
		require.Equal(t, http.StatusOK, rr.Code)

		assert.Equal(t, "a.png", got.Avatar.Filename)
		assert.Equal(t, int64(7), got.Avatar.Size)
		assert.Equal(t, []byte("imgdata"), got.Avatar.Content)
		assert.Equal(t, "application/octet-stream", got.Avatar.ContentType())
		assert.Nil(t, got.Extra)
		assert.Equal(t, "profile shot", got.Note)
	})

	t.Run("content size rules apply", func(t *testing.T) {
		t.Parallel()
		var got uploadParams
		req := multipartRequest(t, func(w *multipart.Writer) {
			fw, err := w.CreateFormFile("avatar", "a.png")
			require.NoError(t, err)
			_, err = fw.Write(bytes.Repeat([]byte("x"), 17))
			require.NoError(t, err)
		})

		fails := decodeFailures(t, serve(capture(t, &got), req))
		require.Len(t, fails, 1)
		assert.Equal(t, []any{"body", "avatar"}, fails[0].Loc)
		assert.Equal(t, "too_long", fails[0].Type)
		assert.Equal(t, float64(16), fails[0].Ctx["max_length"])
	})

	t.Run("required file may not be absent", func(t *testing.T) {
		t.Parallel()
		var got uploadParams
		req := multipartRequest(t, func(w *multipart.Writer) {
			require.NoError(t, w.WriteField("note", "no file"))
		})

		fails := decodeFailures(t, serve(capture(t, &got), req))
		require.Len(t, fails, 1)
		assert.Equal(t, []any{"body", "avatar"}, fails[0].Loc)
		assert.Equal(t, "missing", fails[0].Type)
	})

	t.Run("repeated parts bind as a slice", func(t *testing.T) {
		t.Parallel()
		type galleryParams struct {
			Shots []binder.FileUpload `file:"shot"`
		}
		var got galleryParams
		req := multipartRequest(t, func(w *multipart.Writer) {
			for _, name := range []string{"one.jpg", "two.jpg"} {
				fw, err := w.CreateFormFile("shot", name)
				require.NoError(t, err)
				_, err = fw.Write([]byte(name))
				require.NoError(t, err)
			}
		})

		rr := serve(capture(t, &got), req)
		require.Equal(t, http.StatusOK, rr.Code)
		require.Len(t, got.Shots, 2)
		assert.Equal(t, "one.jpg", got.Shots[0].Filename)
		assert.Equal(t, "two.jpg", got.Shots[1].Filename)
	})
}
