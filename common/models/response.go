package models

type BaseResponse struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Msg   string `json:"message"`
}

// NotFoundResponse is returned by country lookups with no stored records.
type NotFoundResponse struct {
	Error       string `json:"error"`
	CountryCode string `json:"countryCode"`
	VisaType    string `json:"visaType,omitempty"`
	City        string `json:"city,omitempty"`
}

type CountryNotFoundResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type MetaResponse struct {
	CurrentPage int64 `json:"current_page"`
	LastPage    int64 `json:"last_page"`
	PerPage     int64 `json:"per_page"`
	Total       int64 `json:"total"`
}

type BasePaginationResponse struct {
	Data any          `json:"data"`
	Meta MetaResponse `json:"meta"`
}

type ListResponse struct {
	Count int `json:"count"`
	Data  any `json:"data"`
}

// DataResponse is the envelope of aggregate listings.
type DataResponse struct {
	Data any `json:"data"`
}

// CountryDataResponse carries the country row, omitted when the code is not seeded.
type CountryDataResponse struct {
	Country *Country `json:"country,omitempty"`
	Count   int      `json:"count"`
	Data    any      `json:"data"`
}

type EmergencyResponse struct {
	CountryCode      string            `json:"countryCode"`
	EmergencyNumbers *EmergencyNumbers `json:"emergency_numbers"`
}

type ScrapeResponse struct {
	Message      string `json:"message"`
	ItemsScraped int    `json:"itemsScraped"`
	Data         any    `json:"data"`
}
