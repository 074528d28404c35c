package http

import (
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/usecase"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Router struct {
	router   *chi.Mux
	logger   logger.Logger
	location *time.Location
}

func NewRouter(router *chi.Mux, logger logger.Logger, location *time.Location) *Router {
	if location == nil {
		location = time.Local
	}

	return &Router{router: router, logger: logger, location: location}
}

func (r *Router) Init(shopUC usecase.ShopUC) {
	r.router.Use(middleware.Recoverer)
	r.router.Use(requestLogger(r.logger))

	handler := NewShopHandler(shopUC, r.logger, r.location)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		v1.Post("/login", handler.login)

		v1.Group(func(private chi.Router) {
			private.Use(basicAuth(shopUC, r.logger))

			private.Get("/snapshot", handler.getSnapshot)
			registerProductRoutes(private, handler)
			registerSaleRoutes(private, handler)
			registerExpenseRoutes(private, handler)
			registerSettingsRoutes(private, handler)
			registerReportRoutes(private, handler)
		})
	})
}

func registerProductRoutes(router chi.Router, h *ShopHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Post("/", h.addProduct)
		pr.Patch("/{id}", h.updateProduct)
		pr.Delete("/{id}", h.deleteProduct)
		pr.Post("/{id}/sales", h.sellProduct)
	})
}

func registerSaleRoutes(router chi.Router, h *ShopHandler) {
	router.Route("/sales", func(sl chi.Router) {
		sl.Get("/", h.listSales)
		sl.Delete("/{id}", h.deleteSale)
	})
	router.Post("/history/clear", h.clearHistory)
}

func registerExpenseRoutes(router chi.Router, h *ShopHandler) {
	router.Route("/expenses", func(ex chi.Router) {
		ex.Get("/", h.listExpenses)
		ex.Post("/", h.addExpense)
		ex.Delete("/{id}", h.deleteExpense)
	})
}

func registerSettingsRoutes(router chi.Router, h *ShopHandler) {
	router.Route("/settings", func(st chi.Router) {
		st.Get("/", h.getSettings)
		st.Patch("/", h.updateSettings)
		st.Put("/credentials", h.changeCredentials)
	})
}

func registerReportRoutes(router chi.Router, h *ShopHandler) {
	router.Get("/statistics", h.getStatistics)
	router.Get("/report", h.getReport)
	router.Get("/report.csv", h.downloadReport)
	router.Post("/report/archive", h.archiveReport)
}
