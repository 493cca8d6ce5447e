package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	identityad "tripmarket/internal/adapters/identity"
	"tripmarket/internal/app"
	"tripmarket/internal/cache"
	"tripmarket/internal/domain"
	"tripmarket/internal/query"
	"tripmarket/internal/view"
)

type Handlers struct {
	Store    *cache.Store
	Loader   *app.Loader
	Mut      *app.Mutator
	Resolver *view.Resolver
	Identity domain.IdentityProvider
	Session  *identityad.Manual
	KV       domain.KVStore
	Hub      *Hub
}

const maxUploadBytes = 8 << 20

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	if h.Hub != nil {
		s.mux.Get("/ws", h.Hub.Handle)
	}
	s.WithTimeout(15*time.Second, func(r chi.Router) {
		r.Get("/v1/trips", h.searchTrips)
		r.Get("/v1/trips/{slug}", h.getTrip)
		r.Get("/v1/agencies/{slug}", h.getAgency)
		r.Get("/v1/agencies/{slug}/reviews", h.listAgencyReviews)
		r.Get("/v1/me/bookings", h.listMyBookings)
		r.Get("/v1/me/broadcasts", h.listMyBroadcasts)
		r.Get("/v1/bookings/{id}/voucher", h.getVoucher)
		r.Get("/v1/activity", h.listActivity)
		r.Get("/v1/settings", h.getSettings)
		r.Post("/v1/trips", h.createTrip)
		r.Patch("/v1/trips/{id}", h.updateTrip)
		r.Delete("/v1/trips/{id}", h.deleteTrip)
		r.Post("/v1/trips/{id}/images", h.uploadTripImage)
		r.Patch("/v1/agencies/{id}", h.updateAgency)
		r.Patch("/v1/me", h.updateProfile)
		r.Post("/v1/bookings", h.createBooking)
		r.Patch("/v1/bookings/{id}", h.updateBooking)
		r.Post("/v1/reviews", h.submitReview)
		r.Post("/v1/reviews/{id}/response", h.respondReview)
		r.Post("/v1/favorites/{tripID}/toggle", h.toggleFavorite)
		r.Post("/v1/broadcasts/{id}/read", h.markBroadcast(markRead))
		r.Post("/v1/broadcasts/{id}/like", h.markBroadcast(markLiked))
		r.Post("/v1/broadcasts/{id}/dismiss", h.markBroadcast(markDismissed))
		if h.Session != nil {
			r.Post("/v1/session", h.signIn)
			r.Delete("/v1/session", h.signOut)
		}
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// rejectStatus maps mutation errors onto HTTP statuses.
func rejectStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

// calcETagAndBody marshals once and hashes once, returning both.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

func (h *Handlers) identity(w http.ResponseWriter) *domain.Identity {
	id := h.Identity.Current()
	if id == nil {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "sign in required")
	}
	return id
}

// ---- reads ----

func (h *Handlers) searchTrips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := query.TripSearch{
		Text:     q.Get("q"),
		AgencyID: q.Get("agency"),
		Sort:     query.SortMode(q.Get("sort")),
	}
	if v := q.Get("category"); v != "" {
		c := domain.Category(v)
		search.Category = &c
	}
	if f, err := strconv.ParseFloat(q.Get("min_price"), 64); err == nil {
		search.MinPrice = &f
	}
	if f, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil {
		search.MaxPrice = &f
	}
	if t, err := time.Parse("2006-01-02", q.Get("start_date")); err == nil {
		search.StartDate = &t
	}
	if t, err := time.Parse("2006-01-02", q.Get("end_date")); err == nil {
		search.EndDate = &t
	}
	if n, err := strconv.Atoi(q.Get("seats")); err == nil {
		search.Seats = n
	}
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	if latErr == nil && lonErr == nil {
		search.Near = &domain.Coords{Lat: lat, Lon: lon}
		if f, err := strconv.ParseFloat(q.Get("radius_km"), 64); err == nil {
			search.RadiusKm = f
		}
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil {
		search.Page = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil {
		search.Limit = n
	}

	page := query.SearchTrips(h.Store.Snapshot().Trips(), search)
	writeCached(w, r, map[string]any{
		"data":  page.Items,
		"count": page.Count,
		"page":  page.Page,
		"limit": page.Limit,
	})
}

func (h *Handlers) getTrip(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	t, err := h.Store.Snapshot().TripBySlug(slug)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "trip not found")
		return
	}

	if !t.ImagesLoaded {
		if err := h.Loader.LoadTripImages(r.Context(), t.ID); err != nil {
			log.Warn().Str("trip", t.ID).Err(err).Msg("image fetch failed")
		} else if fresh, ok := h.Store.Snapshot().TripByID(t.ID); ok {
			t = fresh
		}
	}

	// Fire-and-forget view count; the request must not wait on it.
	go h.Mut.RecordTripView(context.Background(), t.ID)

	writeCached(w, r, t)
}

func (h *Handlers) getAgency(w http.ResponseWriter, r *http.Request) {
	a, err := h.Store.Snapshot().AgencyBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "agency not found")
		return
	}
	writeCached(w, r, a)
}

func (h *Handlers) listAgencyReviews(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	a, err := snap.AgencyBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "agency not found")
		return
	}
	writeCached(w, r, view.Reviews(snap, snap.ReviewsByAgency(a.ID)))
}

func (h *Handlers) listMyBookings(w http.ResponseWriter, r *http.Request) {
	if h.identity(w) == nil {
		return
	}
	snap := h.Store.Snapshot()
	writeJSON(w, http.StatusOK, view.Bookings(snap, snap.Bookings()))
}

func (h *Handlers) listMyBroadcasts(w http.ResponseWriter, r *http.Request) {
	id := h.identity(w)
	if id == nil {
		return
	}
	dismissed := map[string]bool{}
	if h.KV != nil {
		if ids, err := h.KV.Members(r.Context(), id.UserID, "dismissed_broadcasts"); err == nil {
			for _, v := range ids {
				dismissed[v] = true
			}
		}
	}
	// Remote interaction records cover dismissals made on other devices
	// that the local KV mirror has not seen.
	if inter, err := h.Resolver.Interactions(r.Context(), id.UserID); err == nil {
		for msgID, i := range inter {
			if i.DeletedForMe {
				dismissed[msgID] = true
			}
		}
	}
	writeJSON(w, http.StatusOK, h.Store.Snapshot().BroadcastsForRole(id.Role, dismissed))
}

func (h *Handlers) getVoucher(w http.ResponseWriter, r *http.Request) {
	g, err := h.Resolver.Voucher(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "booking not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not assemble voucher")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *Handlers) listActivity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Snapshot().Activity())
}

func (h *Handlers) getSettings(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, h.Store.Snapshot().Settings())
}

// ---- writes ----

func (h *Handlers) createTrip(w http.ResponseWriter, r *http.Request) {
	var t domain.Trip
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	created, err := h.Mut.CreateTrip(r.Context(), t)
	if err != nil {
		writeProblem(w, rejectStatus(err), "Rejected", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) updateTrip(w http.ResponseWriter, r *http.Request) {
	var p domain.TripPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.Mut.UpdateTrip(r.Context(), chi.URLParam(r, "id"), p); err != nil {
		writeProblem(w, rejectStatus(err), "Rejected", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deleteTrip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var err error
	if r.URL.Query().Get("purge") == "true" {
		err = h.Mut.PurgeTrip(r.Context(), id)
	} else {
		err = h.Mut.DeleteTrip(r.Context(), id)
	}
	if err != nil {
		writeProblem(w, rejectStatus(err), "Rejected", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) uploadTripImage(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "name query parameter is required")
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes+1))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if len(data) > maxUploadBytes {
		writeProblem(w, http.StatusRequestEntityTooLarge, "Too Large", "image exceeds the upload limit")
		return
	}
	url, err := h.Mut.UploadTripImage(r.Context(), chi.URLParam(r, "id"), name, data)
	if err != nil {
		writeProblem(w, rejectStatus(err), "Rejected", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *Handlers) updateAgency(w http.ResponseWriter, r *http.Request) {
	var p domain.AgencyPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.Mut.UpdateAgency(r.Context(), chi.URLParam(r, "id"), p); err != nil {
		writeProblem(w, rejectStatus(err), "Rejected", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	id := h.identity(w)
	if id == nil {
		return
	}
	var p domain.ClientPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.Mut.UpdateClient(r.Context(), id.UserID, p); err != nil {
		writeProblem(w, rejectStatus(err), "Rejected", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) updateBooking(w http.ResponseWriter, r *http.Request) {
	if h.identity(w) == nil {
		return
	}
	var p domain.BookingPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.Mut.UpdateBooking(r.Context(), chi.URLParam(r, "id"), p); err != nil {
		writeProblem(w, rejectStatus(err), "Rejected", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) respondReview(w http.ResponseWriter, r *http.Request) {
	if h.identity(w) == nil {
		return
	}
	var body struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.Mut.RespondReview(r.Context(), chi.URLParam(r, "id"), body.Response); err != nil {
		writeProblem(w, rejectStatus(err), "Rejected", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	id := h.identity(w)
	if id == nil {
		return
	}
	var b domain.Booking
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	b.ClientID = id.UserID
	created, err := h.Mut.CreateBooking(r.Context(), b)
	if err != nil {
		writeProblem(w, rejectStatus(err), "Rejected", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	id := h.identity(w)
	if id == nil {
		return
	}
	var rv domain.Review
	if err := json.NewDecoder(r.Body).Decode(&rv); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	rv.ClientID = id.UserID
	saved, err := h.Mut.SubmitReview(r.Context(), rv)
	if err != nil {
		writeProblem(w, rejectStatus(err), "Rejected", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handlers) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := h.identity(w)
	if id == nil {
		return
	}
	if err := h.Mut.ToggleFavorite(r.Context(), id.UserID, chi.URLParam(r, "tripID")); err != nil {
		writeProblem(w, rejectStatus(err), "Rejected", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func markRead(i domain.BroadcastInteraction) domain.BroadcastInteraction {
	i.Read = true
	return i
}

func markLiked(i domain.BroadcastInteraction) domain.BroadcastInteraction {
	i.Read = true
	i.Liked = true
	return i
}

func markDismissed(i domain.BroadcastInteraction) domain.BroadcastInteraction {
	i.Read = true
	i.DeletedForMe = true
	return i
}

func (h *Handlers) markBroadcast(change func(domain.BroadcastInteraction) domain.BroadcastInteraction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := h.identity(w)
		if id == nil {
			return
		}
		if err := h.Mut.MarkBroadcast(r.Context(), id.UserID, chi.URLParam(r, "id"), change); err != nil {
			writeProblem(w, rejectStatus(err), "Rejected", err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ---- session ----

func (h *Handlers) signIn(w http.ResponseWriter, r *http.Request) {
	var id domain.Identity
	if err := json.NewDecoder(r.Body).Decode(&id); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if id.UserID == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "user_id is required")
		return
	}
	if id.Role == "" {
		id.Role = domain.RoleClient
	}
	h.Session.SignIn(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) signOut(w http.ResponseWriter, r *http.Request) {
	h.Session.SignOut()
	w.WriteHeader(http.StatusNoContent)
}
