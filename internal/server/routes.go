package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/oakline/boardvault/internal/api/v1"
	"github.com/oakline/boardvault/internal/api/ws"
	"github.com/oakline/boardvault/internal/auth"
	"github.com/oakline/boardvault/internal/seal"
	"github.com/oakline/boardvault/internal/storage"
	"github.com/oakline/boardvault/internal/store/postgres"
)

func registerAuthRoutes(api huma.API, store *postgres.Store, authSvc *auth.Service) {
	v1.RegisterAuthRoutes(api, store, authSvc)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, authSvc *auth.Service, engine *seal.Engine, blobs *storage.BlobStore) {
	v1.RegisterAPIKeyRoutes(api, authSvc)
	v1.RegisterOrgRoutes(api, store)
	v1.RegisterUserRoutes(api, store)
	v1.RegisterDecisionRoutes(api, store, engine)
	v1.RegisterApprovalRoutes(api, store, engine)
	v1.RegisterReportRoutes(api, store, engine)
	v1.RegisterBoardPackRoutes(api, store, engine)
	v1.RegisterSecretRoutes(api, store, engine)
	v1.RegisterDocumentRoutes(api, store, blobs)
	v1.RegisterAuditRoutes(api, store, engine)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/changes", hub.ServeChanges)
}
