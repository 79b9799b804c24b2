package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tecawayBack/internal/models"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	jsonMiddleware := standardMiddleware.Append(makeResponseJSON)
	optionalAuthMiddleware := jsonMiddleware.Append(app.optionalAuth)
	authMiddleware := jsonMiddleware.Append(app.requireAuth)
	adminAuthMiddleware := authMiddleware.Append(app.requireRole(models.RoleAdmin))

	mux := pat.New()

	mux.Get("/health", standardMiddleware.ThenFunc(app.health))
	mux.Get("/metrics", standardMiddleware.Then(promhttp.Handler()))

	// Users
	mux.Post("/user/sign_up", jsonMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", jsonMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Post("/user/refresh", jsonMiddleware.ThenFunc(app.userHandler.Refresh))
	mux.Post("/user/sign_out", authMiddleware.ThenFunc(app.userHandler.SignOut))
	mux.Get("/user/:id/knowledges", jsonMiddleware.ThenFunc(app.userHandler.GetUserKnowledges))
	mux.Put("/user/:id/knowledges", authMiddleware.ThenFunc(app.userHandler.SetUserKnowledges))
	mux.Post("/user/:id/photo", authMiddleware.ThenFunc(app.userHandler.UploadPhoto))
	mux.Get("/user/:id", jsonMiddleware.ThenFunc(app.userHandler.GetUser))
	mux.Put("/user/:id", authMiddleware.ThenFunc(app.userHandler.UpdateUser))
	mux.Del("/user/:id", authMiddleware.ThenFunc(app.userHandler.DeleteUser))
	mux.Get("/technicians", jsonMiddleware.ThenFunc(app.userHandler.GetTechnicians))

	// Sections
	mux.Get("/section", jsonMiddleware.ThenFunc(app.sectionHandler.GetAll))
	mux.Post("/section", adminAuthMiddleware.ThenFunc(app.sectionHandler.Create))
	mux.Get("/section/:id", jsonMiddleware.ThenFunc(app.sectionHandler.GetByID))
	mux.Put("/section/:id", adminAuthMiddleware.ThenFunc(app.sectionHandler.Update))
	mux.Del("/section/:id", adminAuthMiddleware.ThenFunc(app.sectionHandler.Delete))

	// Knowledges
	mux.Get("/knowledge", jsonMiddleware.ThenFunc(app.knowledgeHandler.GetAll))
	mux.Post("/knowledge", adminAuthMiddleware.ThenFunc(app.knowledgeHandler.Create))
	mux.Get("/knowledge/section/:section_id", jsonMiddleware.ThenFunc(app.knowledgeHandler.GetBySection))
	mux.Del("/knowledge/:id", adminAuthMiddleware.ThenFunc(app.knowledgeHandler.Delete))
	mux.Get("/user_knowledge", jsonMiddleware.ThenFunc(app.knowledgeHandler.GetMemberships))

	// Location
	mux.Put("/location", authMiddleware.ThenFunc(app.locationHandler.UpdateLocation))
	mux.Get("/location/:user_id", authMiddleware.ThenFunc(app.locationHandler.GetLocation))
	mux.Del("/location", authMiddleware.ThenFunc(app.locationHandler.ClearLocation))

	// Consent
	mux.Get("/consent", authMiddleware.ThenFunc(app.consentHandler.Get))
	mux.Put("/consent", authMiddleware.ThenFunc(app.consentHandler.Save))

	// Search
	mux.Post("/search", optionalAuthMiddleware.ThenFunc(app.searchHandler.Start))
	mux.Get("/search/:id/ws", standardMiddleware.ThenFunc(app.SearchWebSocketHandler))
	mux.Get("/search/:id/sort_options", jsonMiddleware.ThenFunc(app.searchHandler.SortOptions))
	mux.Get("/search/:id/catalog", jsonMiddleware.ThenFunc(app.searchHandler.Catalog))
	mux.Post("/search/:id/filter", optionalAuthMiddleware.ThenFunc(app.searchHandler.Filter))
	mux.Post("/search/:id/clear", jsonMiddleware.ThenFunc(app.searchHandler.Clear))
	mux.Get("/search/:id", jsonMiddleware.ThenFunc(app.searchHandler.State))
	mux.Del("/search/:id", jsonMiddleware.ThenFunc(app.searchHandler.End))

	return addSecurityHeaders(mux)
}
