package handler

import (
	commonhandler "village-admin-go/internal/transport/httpserver/handler/common"
	fileshandler "village-admin-go/internal/transport/httpserver/handler/files"
	mutationshandler "village-admin-go/internal/transport/httpserver/handler/mutations"
	residentshandler "village-admin-go/internal/transport/httpserver/handler/residents"
)

type Handlers struct {
	Common    *commonhandler.Handlers
	Residents *residentshandler.Handlers
	Mutations *mutationshandler.Handlers
	Files     *fileshandler.Handlers
}

func New(common *commonhandler.Handlers, residents *residentshandler.Handlers, mutations *mutationshandler.Handlers, files *fileshandler.Handlers) *Handlers {
	return &Handlers{
		Common:    common,
		Residents: residents,
		Mutations: mutations,
		Files:     files,
	}
}
