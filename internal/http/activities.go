package http

import (
	"net/http"
)

func (h *Handler) handleActivitiesList(w http.ResponseWriter, r *http.Request) {
	const handlerName = "activities_list"

	activities, err := h.Activities.ListActivities(r.Context())
	if err != nil {
		h.writeError(w, r, handlerName, err)
		return
	}

	writeJSON(w, http.StatusOK, activities)
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	const handlerName = "activity_signup"

	email, err := ValidateEmailQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, handlerName, err)
		return
	}

	msg, err := h.Activities.Signup(r.Context(), activityNameParam(r), email)
	if err != nil {
		h.writeError(w, r, handlerName, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

func (h *Handler) handleUnregister(w http.ResponseWriter, r *http.Request) {
	const handlerName = "activity_unregister"

	email, err := ValidateEmailQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, handlerName, err)
		return
	}

	msg, err := h.Activities.Unregister(r.Context(), activityNameParam(r), email)
	if err != nil {
		h.writeError(w, r, handlerName, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}
