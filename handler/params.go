package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bpresles/CasaNova/common/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

const countryCodeRule = "required,len=2,alpha"

// pathCountryCode reads and validates the {code} path parameter. It writes the
// 400 response itself when the code is not two letters.
func pathCountryCode(w http.ResponseWriter, r *http.Request) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	if err := validate.Var(code, countryCodeRule); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid country code: "+code)
		return "", false
	}
	return code, true
}

// queryInt returns the positive integer query parameter name, or def.
func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return def
	}
	return v
}
