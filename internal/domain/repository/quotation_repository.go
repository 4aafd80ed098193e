package repository

import "github.com/jhoicas/catalogo-api/internal/domain/entity"

// QuotationRepository puerto remoto para QuotationRequest (orden: created_at DESC).
type QuotationRepository = RemoteStore[entity.QuotationRequest, entity.QuotationPatch]

// FollowUpRepository puerto remoto para FollowUp (orden: follow_up_date ASC).
type FollowUpRepository = RemoteStore[entity.FollowUp, entity.FollowUpPatch]
