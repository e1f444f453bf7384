package render

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twitchtv/twirp"
)

func TestWrapResponseData(t *testing.T) {
	h := WrapResponse(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		JSON(w, H{"id": 1})
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			ID int `json:"id"`
		} `json:"data"`
	}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Data.ID)
}

func TestWrapResponseError(t *testing.T) {
	h := WrapResponse(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Error(w, twirp.NotFoundError("vault not found"))
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)

	var body struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, body.Code)
	assert.Equal(t, "vault not found", body.Msg)
}

func TestWrapResponsePassThrough(t *testing.T) {
	h := WrapResponse(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Text(w, "pong")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}
