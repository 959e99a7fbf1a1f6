package httpadapter

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/travelops/traveler-registry/internal/core/domain"
)

const loginPage = `<!DOCTYPE html>
<html>
<head><title>Traveler Registry - Sign in</title></head>
<body>
<h1>Sign in</h1>
<form method="post" action="/login">
  <label>Username <input type="text" name="username" autofocus></label><br>
  <label>Password <input type="password" name="password"></label><br>
  <button type="submit">Sign in</button>
</form>
</body>
</html>`

func (rt *Router) login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(loginPage))
	case http.MethodPost:
		rt.loginSubmit(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if !rt.loginLimiter.Allow() {
		rt.httpMetrics.RecordLogin(rt.service, "throttled")
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many login attempts"})
		return
	}

	username, password, formPost, err := parseLoginBody(r)
	if err != nil {
		rt.httpMetrics.RecordLogin(rt.service, "invalid")
		writeError(w, r, err)
		return
	}

	identity, token, err := rt.auth.Login(r.Context(), username, password)
	if err != nil {
		rt.httpMetrics.RecordLogin(rt.service, "denied")
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(rt.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	rt.httpMetrics.RecordLogin(rt.service, "ok")
	if formPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": identity})
}

func parseLoginBody(r *http.Request) (username, password string, formPost bool, err error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data" {
		if err := r.ParseForm(); err != nil {
			return "", "", true, domain.WrapError(domain.ErrValidation, "parse login form", err)
		}
		return strings.TrimSpace(r.FormValue("username")), r.FormValue("password"), true, nil
	}

	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return "", "", false, domain.WrapError(domain.ErrValidation, "parse login body", err)
	}
	return strings.TrimSpace(body.Username), body.Password, false, nil
}

func (rt *Router) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if wantsHTML(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (rt *Router) session(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": identityFromContext(r.Context())})
}
