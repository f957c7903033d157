package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/schema"
)

// Set a Decoder instance as a package global, because it caches
// meta-data about structs, and an instance can be shared safely.
var decoder = schema.NewDecoder()

// VendorServer exposes the VendorService operations over HTTP.
type VendorServer struct {
	Service VendorService
}

type usernameRequest struct {
	Username string `schema:"username"`
}

type tokenResponse struct {
	SealedToken string `json:"sealed_token"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
	IssuedAt    string `json:"issued_at,omitempty"`
}

type identityResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	PublicKey string `json:"public_key"`
	Secret    string `json:"secret"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Note      string `json:"note"`
}

type saveProfileRequest struct {
	Username  string `schema:"username"`
	Secret    string `schema:"secret"`
	FirstName string `schema:"first_name"`
	LastName  string `schema:"last_name"`
	Note      string `schema:"note"`
}

type saveProfileResponse struct {
	Saved bool `json:"saved"`
}

func handleError(err error, w http.ResponseWriter) {
	switch {
	case errors.Is(err, ErrSealingFailed):
		// Same status and body shape as an unknown username: the token path
		// must not reveal which usernames exist.
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	case errors.Is(err, ErrStorageUnavailable), errors.Is(err, ErrCommitFailed):
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// TokenHandler issues a sealed token for the requested username.
func (s VendorServer) TokenHandler(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var request usernameRequest

	err = decoder.Decode(&request, r.PostForm)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	token, err := s.Service.Authenticate(r.Context(), request.Username)
	if err != nil {
		handleError(err, w)
		return
	}

	if !token.HasValue() {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tokenResponse{
		SealedToken: token.Value().Ciphertext,
		ExpiresIn:   int(token.Value().ExpiresIn.Seconds()),
		IssuedAt:    token.Value().IssuedAt.Format(time.RFC3339),
	})
}

// DetailsHandler returns the stored identity for the requested username.
func (s VendorServer) DetailsHandler(w http.ResponseWriter, r *http.Request) {
	var request usernameRequest

	err := decoder.Decode(&request, r.URL.Query())
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	details, err := s.Service.GetDetails(r.Context(), request.Username)
	if err != nil {
		handleError(err, w)
		return
	}

	if !details.HasValue() {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	identity := details.Value()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(identityResponse{
		ID:        identity.ID,
		Username:  identity.Username,
		PublicKey: identity.PublicKey,
		Secret:    identity.Secret,
		FirstName: identity.Profile.FirstName,
		LastName:  identity.Profile.LastName,
		Note:      identity.Profile.Note,
	})
}

// SaveProfileHandler overwrites the secret and profile fields of an identity.
func (s VendorServer) SaveProfileHandler(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var request saveProfileRequest

	err = decoder.Decode(&request, r.PostForm)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	saved, err := s.Service.SaveProfile(r.Context(), request.Username, request.Secret, Profile{
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Note:      request.Note,
	})
	if err != nil {
		handleError(err, w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(saveProfileResponse{Saved: saved})
}
