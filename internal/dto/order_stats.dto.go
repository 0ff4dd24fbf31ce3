package dto

type SalesWindowDTO struct {
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

type OrderStatsDTO struct {
	Daily        SalesWindowDTO `json:"daily"`
	Weekly       SalesWindowDTO `json:"weekly"`
	Monthly      SalesWindowDTO `json:"monthly"`
	PendingCount int64          `json:"pending_count"`
}
