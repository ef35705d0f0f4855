package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteList(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteList[string](rec, http.StatusOK, nil)

	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"count":0,"data":[]}`, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, "invalid country code")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Bad Request", body["error"])
	assert.Equal(t, "invalid country code", body["message"])
}

func TestWritePagination(t *testing.T) {
	rec := httptest.NewRecorder()
	WritePagination(rec, http.StatusOK, []int{1, 2}, 2, 2, 5)

	var body struct {
		Meta struct {
			LastPage int64 `json:"last_page"`
			Total    int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body.Meta.LastPage)
	assert.Equal(t, int64(5), body.Meta.Total)
}

func TestOptionConversions(t *testing.T) {
	assert.Equal(t, pgtype.Text{String: "x", Valid: true}, TextFromOption(mo.Some("x")))
	assert.False(t, TextFromOption(mo.None[string]()).Valid)
	assert.False(t, TextFromString("").Valid)

	assert.Equal(t, mo.Some(false), OptionFromBool(pgtype.Bool{Bool: false, Valid: true}))
	assert.True(t, OptionFromBool(pgtype.Bool{}).IsAbsent())
	assert.Equal(t, pgtype.Bool{Bool: true, Valid: true}, BoolFromOption(mo.Some(true)))
}

func TestDecodeJSONColumn(t *testing.T) {
	var items []string
	require.NoError(t, DecodeJSONColumn(nil, &items))
	assert.Nil(t, items)

	require.NoError(t, DecodeJSONColumn([]byte(`["a","b"]`), &items))
	assert.Equal(t, []string{"a", "b"}, items)
}
