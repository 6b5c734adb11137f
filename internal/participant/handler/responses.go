package handler

import "peppolcheck/internal/participant/models"

// ListResponse is the body of the participant listing endpoints.
type ListResponse struct {
	Success bool `json:"success"`
	models.Listing
}

type CountResponse struct {
	Success    bool          `json:"success"`
	TotalCount int           `json:"totalCount"`
	Filters    models.Filter `json:"filters"`
}

type CountriesResponse struct {
	Success   bool     `json:"success"`
	Count     int      `json:"count"`
	Countries []string `json:"countries"`
}

type SchemesResponse struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Schemes []string `json:"schemes"`
}
