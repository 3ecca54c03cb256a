// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer, h.withTraceID, h.withLogging, withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/ping", h.ping)
		r.Get("/api/version/", h.getServerVersion)
	})

	// record routes, scoped to the token's user
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/records/{collection}", h.listRecords)
		r.Get("/api/records/{collection}/changes", h.changes)
		r.Delete("/api/records/{collection}/{id}", h.deleteRecord)

		r.Group(func(r chi.Router) {
			r.Use(h.verifyHash)
			r.Post("/api/records/{collection}", h.insertRecord)
			r.Patch("/api/records/{collection}/{id}", h.updateRecord)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
