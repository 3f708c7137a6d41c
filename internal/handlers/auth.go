package handlers

import (
	"net/http"
)

// SignIn is the target of the client's free-tier redirect. Accounts are not
// implemented, so it only tells the caller so.
func SignIn(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotImplemented, errorResp("NOT_IMPLEMENTED", "Sign in is not available yet", r))
}
