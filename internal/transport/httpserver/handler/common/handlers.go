package common

import (
	userdomain "village-admin-go/internal/domain/user"
	"village-admin-go/pkg/logger"
)

type Handlers struct {
	Users *userdomain.Service
	log   logger.Logger
	debug bool
}

func New(users *userdomain.Service, log logger.Logger, debug bool) *Handlers {
	return &Handlers{
		Users: users,
		log:   log,
		debug: debug,
	}
}
