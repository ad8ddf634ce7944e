package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mawuli/field-survey/app"
	"github.com/mawuli/field-survey/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()
	admin := middlewares.Admin(app.TokenSecret)

	// field device surface
	api.Post("/surveys", CreateSurvey(app))
	api.Get("/surveys", ListSurveys(app))
	api.Put("/surveys", UpdateSurvey(app))
	api.With(admin).Delete("/surveys", DeleteSurvey(app))

	api.Post("/sync", SyncBatch(app))
	api.Get("/sync", SyncAvailable(app))

	// operator surface
	api.Route("/admin", func(r chi.Router) {
		r.Use(admin)

		r.Get("/analytics", Analytics(app))
		r.Get("/surveys/export", ExportSurveys(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}
