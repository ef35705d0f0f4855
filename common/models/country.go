package models

import (
	"github.com/bpresles/CasaNova/common/constants"
	"github.com/samber/mo"
)

type Country struct {
	Code   string            `json:"code"`
	Name   string            `json:"name"`
	NameFr mo.Option[string] `json:"name_fr"`
	Region mo.Option[string] `json:"region"`
}

type CountryEntryCount struct {
	Country
	Entries int64 `json:"entries"`
}

type RegionCount struct {
	Region       string `json:"region"`
	CountryCount int64  `json:"country_count"`
}

type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type CityCount struct {
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
	Entries     int64  `json:"entries"`
}

// CountryDetail is a country with how many records each category holds for it.
type CountryDetail struct {
	Country
	AvailableInfo map[string]int64  `json:"available_info"`
	Endpoints     map[string]string `json:"endpoints"`
}

// CountrySummary lists the latest records of every category for a country.
type CountrySummary struct {
	Country Country                         `json:"country"`
	Summary map[constants.Category][]Record `json:"summary"`
}

// Source is one configured page believed to hold information for a country and category.
type Source struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
	Type string `json:"type" yaml:"type"`
}
