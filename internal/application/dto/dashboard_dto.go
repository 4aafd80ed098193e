package dto

import "github.com/jhoicas/catalogo-api/internal/domain/entity"

// DashboardSummaryDTO resumen del panel de administración.
type DashboardSummaryDTO struct {
	TotalProducts       int                       `json:"total_products"`
	ActiveProducts      int                       `json:"active_products"`
	FeaturedProducts    int                       `json:"featured_products"`
	PendingQuotations   int                       `json:"pending_quotations"`
	QuotedQuotations    int                       `json:"quoted_quotations"`
	CompletedQuotations int                       `json:"completed_quotations"`
	UpcomingFollowUps   int                       `json:"upcoming_follow_ups"`
	NeedingFollowUp     int                       `json:"needing_follow_up"`
	Visitors            VisitorAnalytics          `json:"visitors"`
	RecentQuotations    []entity.QuotationRequest `json:"recent_quotations"`
	DateLabel           string                    `json:"date_label"`
}

// CollectionStatus estado de una colección en memoria.
type CollectionStatus struct {
	Name    string `json:"name"`
	Items   int    `json:"items"`
	Loading bool   `json:"loading"`
}

// SystemStatus conectividad del almacén remoto y estado de la caché.
type SystemStatus struct {
	RemoteConfigured bool               `json:"remote_configured"`
	RemoteConnected  bool               `json:"remote_connected"`
	RemoteError      string             `json:"remote_error,omitempty"`
	Tables           map[string]bool    `json:"tables,omitempty"`
	LocalDriver      string             `json:"local_driver"`
	Collections      []CollectionStatus `json:"collections"`
}
