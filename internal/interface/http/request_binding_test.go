package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taivex/taivex/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

func formContext(t *testing.T, vals url.Values) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, err := http.NewRequest(http.MethodPost, "/", strings.NewReader(vals.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return c
}

func jsonContext(t *testing.T, body string) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, err := http.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c
}

// mutating endpoints accept form-encoded bodies as well as JSON
func TestLoginBindsFormBody(t *testing.T) {
	c := formContext(t, url.Values{
		"email":    {"asha@example.com"},
		"password": {"correct-horse"},
		"remember": {"true"},
	})

	var req loginRequest
	require.NoError(t, c.ShouldBind(&req))
	assert.Equal(t, "asha@example.com", req.Email)
	assert.Equal(t, "correct-horse", req.Password)
	assert.True(t, req.Remember)
}

func TestLoginBindsJSONBody(t *testing.T) {
	c := jsonContext(t, `{"email":"asha@example.com","password":"correct-horse"}`)

	var req loginRequest
	require.NoError(t, c.ShouldBind(&req))
	assert.Equal(t, "asha@example.com", req.Email)
}

func TestRegisterBindsFormBody(t *testing.T) {
	c := formContext(t, url.Values{
		"username":         {"asha"},
		"email":            {"asha@example.com"},
		"password":         {"longenough1"},
		"confirm_password": {"longenough1"},
	})

	var req registerRequest
	require.NoError(t, c.ShouldBind(&req))
	assert.Equal(t, "asha", req.Username)

	// the pwd alias still applies to form bodies
	c = formContext(t, url.Values{
		"username":         {"asha"},
		"email":            {"asha@example.com"},
		"password":         {"short"},
		"confirm_password": {"short"},
	})
	assert.Error(t, c.ShouldBind(&registerRequest{}))
}

func TestCustomerBindsFormBody(t *testing.T) {
	c := formContext(t, url.Values{
		"name":     {"Asha Patel"},
		"mobile":   {"9900112233"},
		"gender":   {"female"},
		"whatsapp": {"true"},
		"birthday": {"1990-04-12"},
	})

	var req customerRequest
	require.NoError(t, c.ShouldBind(&req))
	assert.Equal(t, "9900112233", req.Mobile)
	assert.True(t, req.Whatsapp)
	assert.Equal(t, "1990-04-12", req.Birthday)
}

func TestStatusBindsFormBody(t *testing.T) {
	c := formContext(t, url.Values{"work_status": {"Delivered"}})

	var req statusRequest
	require.NoError(t, c.ShouldBind(&req))
	assert.Equal(t, "Delivered", req.WorkStatus)
}

func TestWipeBindsFormBody(t *testing.T) {
	c := formContext(t, url.Values{"confirm": {"DELETE"}})

	var req wipeRequest
	require.NoError(t, c.ShouldBind(&req))
	assert.Equal(t, "DELETE", req.Confirm)
}
