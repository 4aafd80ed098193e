package repository

import "github.com/jhoicas/catalogo-api/internal/domain/entity"

// VisitorRepository puerto remoto para Visitor (tabla customers). Insert hace upsert por email.
type VisitorRepository = RemoteStore[entity.Visitor, entity.VisitorPatch]

// VisitorSessionRepository puerto remoto para VisitorSession (orden: created_at DESC).
type VisitorSessionRepository = RemoteStore[entity.VisitorSession, entity.SessionPatch]
