package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/imenik/internal/docstore"
	"github.com/erazemk/imenik/internal/metrics"
)

// NewRouter creates the API router with all endpoints registered. m may be
// nil, in which case no metrics are recorded and /metrics is not served.
func NewRouter(db *sql.DB, jwtSecret string, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, Metrics: m}
	docsHandler := &DocumentsHandler{Docs: docstore.New(db), Metrics: m}

	authMW := AuthMiddleware(jwtSecret, db)

	// Public.
	mux.HandleFunc("POST /api/auth/signup", authHandler.SignUp)
	mux.HandleFunc("POST /api/auth/signin", authHandler.SignIn)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	// Session.
	mux.Handle("POST /api/auth/signout", authMW(http.HandlerFunc(authHandler.SignOut)))
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))

	// Companies: shared by all signed-in users.
	mux.Handle("GET /api/companies", authMW(http.HandlerFunc(docsHandler.List)))
	mux.Handle("POST /api/companies", authMW(http.HandlerFunc(docsHandler.Add)))
	mux.Handle("PATCH /api/companies/{id}", authMW(http.HandlerFunc(docsHandler.Update)))
	mux.Handle("DELETE /api/companies/{id}", authMW(http.HandlerFunc(docsHandler.Delete)))
	mux.Handle("PUT /api/companies/{id}/logo", authMW(http.HandlerFunc(docsHandler.UploadLogo)))
	mux.Handle("GET /api/companies/{id}/logo", authMW(http.HandlerFunc(docsHandler.GetLogo)))

	// Contacts: owner only.
	mux.Handle("GET /api/users/{uid}/contacts", authMW(http.HandlerFunc(docsHandler.List)))
	mux.Handle("POST /api/users/{uid}/contacts", authMW(http.HandlerFunc(docsHandler.Add)))
	mux.Handle("PATCH /api/users/{uid}/contacts/{id}", authMW(http.HandlerFunc(docsHandler.Update)))
	mux.Handle("DELETE /api/users/{uid}/contacts/{id}", authMW(http.HandlerFunc(docsHandler.Delete)))

	if m == nil {
		return mux
	}
	return MetricsMiddleware(m, mux)
}
