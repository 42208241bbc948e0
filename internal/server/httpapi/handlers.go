// Package httpapi is the JSON surface of the server. Handlers decode the
// request, call the matching service, and translate the common sentinels
// into HTTP statuses; no business logic lives here.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dkrasnov-dev/baraholka/internal/common"
)

type registerRequest struct {
	Handle   string `json:"handle"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID     int64  `json:"id"`
	Handle string `json:"handle"`
}

type loginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type forgotPasswordRequest struct {
	Handle string `json:"handle"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type submitRatingRequest struct {
	RecipientID int64 `json:"recipient_id"`
	Value       int   `json:"value"`
}

type createListingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
}

type attachPhotoRequest struct {
	Key string `json:"key"`
}

type addCommentRequest struct {
	Body string `json:"body"`
}

type commentResponse struct {
	ID        int64  `json:"id"`
	ListingID int64  `json:"listing_id"`
	AuthorID  int64  `json:"author_id"`
	Body      string `json:"body"`
}

type sendMessageRequest struct {
	RecipientID int64  `json:"recipient_id"`
	Body        string `json:"body"`
}

type messageResponse struct {
	ID          int64  `json:"id"`
	SenderID    int64  `json:"sender_id"`
	RecipientID int64  `json:"recipient_id"`
	Body        string `json:"body"`
}

type listingResponse struct {
	ID              int64   `json:"id"`
	OwnerID         int64   `json:"owner_id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	PriceCents      int64   `json:"price_cents"`
	PhotoURL        string  `json:"photo_url,omitempty"`
	OwnerBoosted    bool    `json:"owner_boosted"`
	OwnerReputation float64 `json:"owner_reputation"`
}

type photoURLResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			s.logger.Error(context.Background(), "error encoding response", "error", err)
		}
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, statusFromError(err), errorResponse{Error: publicMessage(err)})
}

// statusFromError maps the common sentinels onto HTTP statuses. Anything
// unrecognized is a 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrNoSuchToken):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorAlreadyExists),
		errors.Is(err, common.ErrDuplicateRating):
		return http.StatusConflict
	case errors.Is(err, common.ErrEmailDeliveryFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage keeps internal error detail out of responses: sentinels pass
// through verbatim, anything else collapses into a generic message.
func publicMessage(err error) string {
	for _, sentinel := range []error{
		common.ErrorValidation, common.ErrorUnauthorized, common.ErrorNotFound,
		common.ErrorAlreadyExists, common.ErrInvalidToken, common.ErrTokenExpired,
		common.ErrNoSuchToken, common.ErrDuplicateRating, common.ErrDeletionFailed,
		common.ErrEmailDeliveryFailed,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal error"
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrorValidation
	}
	return nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	account, err := s.accounts.Register(r.Context(), req.Handle, req.Email, req.Phone, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, registerResponse{ID: account.ID, Handle: account.Handle})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	token, err := s.accounts.Login(r.Context(), req.Handle, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// handleForgotPassword always answers 202 for unknown handles too, so the
// endpoint cannot be used to probe which handles exist. Real failures of the
// store or the mailer still surface.
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	err := s.resetTokens.Request(r.Context(), req.Handle)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, nil)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.resetTokens.Consume(r.Context(), req.Token, req.NewPassword); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	account, ok := accountFrom(r.Context())
	if !ok {
		s.writeError(w, common.ErrorUnauthorized)
		return
	}

	var req submitRatingRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	if _, err := s.ratings.Submit(r.Context(), account.ID, req.RecipientID, req.Value); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, nil)
}

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := s.listings.ListRanked(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		item := listingResponse{
			ID:              l.ID,
			OwnerID:         l.OwnerID,
			Title:           l.Title,
			Description:     l.Description,
			PriceCents:      l.PriceCents,
			OwnerBoosted:    l.OwnerBoosted,
			OwnerReputation: l.OwnerReputation,
		}
		if l.PhotoKey != nil {
			url, err := s.photos.GetPresignedGetURL(r.Context(), *l.PhotoKey)
			if err != nil {
				s.logger.Error(r.Context(), "error presigning photo url", "listing_id", l.ID, "error", err)
			} else {
				item.PhotoURL = url
			}
		}
		out = append(out, item)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	account, ok := accountFrom(r.Context())
	if !ok {
		s.writeError(w, common.ErrorUnauthorized)
		return
	}

	var req createListingRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	listing, err := s.listings.Create(r.Context(), account.ID, req.Title, req.Description, req.PriceCents)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, listingResponse{
		ID:          listing.ID,
		OwnerID:     listing.OwnerID,
		Title:       listing.Title,
		Description: listing.Description,
		PriceCents:  listing.PriceCents,
	})
}

// listingIDParam parses the {id} route parameter.
func listingIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrorValidation
	}
	return id, nil
}

// handleAttachPhoto records a previously presigned storage key on a listing
// the caller owns. An id the caller does not own looks the same as a missing
// one.
func (s *Server) handleAttachPhoto(w http.ResponseWriter, r *http.Request) {
	account, ok := accountFrom(r.Context())
	if !ok {
		s.writeError(w, common.ErrorUnauthorized)
		return
	}

	listingID, err := listingIDParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req attachPhotoRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.listings.AttachPhoto(r.Context(), listingID, account.ID, req.Key); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	account, ok := accountFrom(r.Context())
	if !ok {
		s.writeError(w, common.ErrorUnauthorized)
		return
	}

	listingID, err := listingIDParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req addCommentRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	comment, err := s.listings.AddComment(r.Context(), listingID, account.ID, req.Body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, commentResponse{
		ID:        comment.ID,
		ListingID: comment.ListingID,
		AuthorID:  comment.AuthorID,
		Body:      comment.Body,
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	account, ok := accountFrom(r.Context())
	if !ok {
		s.writeError(w, common.ErrorUnauthorized)
		return
	}

	var req sendMessageRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	message, err := s.messages.Send(r.Context(), account.ID, req.RecipientID, req.Body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, messageResponse{
		ID:          message.ID,
		SenderID:    message.SenderID,
		RecipientID: message.RecipientID,
		Body:        message.Body,
	})
}

func (s *Server) handlePhotoUploadURL(w http.ResponseWriter, r *http.Request) {
	if _, ok := accountFrom(r.Context()); !ok {
		s.writeError(w, common.ErrorUnauthorized)
		return
	}

	key, url, err := s.photos.GetPresignedPutURL(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, photoURLResponse{Key: key, URL: url})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	account, ok := accountFrom(r.Context())
	if !ok {
		s.writeError(w, common.ErrorUnauthorized)
		return
	}

	if err := s.deletions.Delete(r.Context(), account.ID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}
