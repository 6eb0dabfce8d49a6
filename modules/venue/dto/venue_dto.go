package dto

type ServiceWindowRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type CreateVenueRequest struct {
	Name           string                 `json:"name"`
	Timezone       string                 `json:"timezone"`
	ServiceWindows []ServiceWindowRequest `json:"service_windows"`
}

type CreateSectorRequest struct {
	Name string `json:"name"`
}

type CreateTableRequest struct {
	Name    string `json:"name"`
	MinSize int    `json:"min_size"`
	MaxSize int    `json:"max_size"`
}

type CreateBlackoutRequest struct {
	// RFC3339 instants; half-open interval [starts_at, ends_at).
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
	Reason   string `json:"reason"`
}
