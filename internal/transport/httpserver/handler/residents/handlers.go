package residents

import (
	"context"
	"io"

	residentdomain "village-admin-go/internal/domain/resident"
	"village-admin-go/pkg/logger"
)

// DocumentStore persists uploaded scans and removes them again.
type DocumentStore interface {
	Save(ctx context.Context, field string, r io.Reader) (string, error)
	Remove(ctx context.Context, path string)
	MaxBytes() int64
}

type WriteRecorder interface {
	RecordWrite(entity, operation string)
}

type Handlers struct {
	Residents *residentdomain.Service
	docs      DocumentStore
	writes    WriteRecorder
	log       logger.Logger
	debug     bool
}

func New(residents *residentdomain.Service, docs DocumentStore, writes WriteRecorder, log logger.Logger, debug bool) *Handlers {
	return &Handlers{
		Residents: residents,
		docs:      docs,
		writes:    writes,
		log:       log,
		debug:     debug,
	}
}

func (h *Handlers) recordWrite(entity, operation string) {
	if h.writes != nil {
		h.writes.RecordWrite(entity, operation)
	}
}
