package domain

import "strings"

// Company represents one entry of the company catalog
type Company struct {
	CompanyID        *int     `json:"company_id" bson:"company_id"`
	CompanyName      string   `json:"company_name" bson:"company_name"`
	ShortDescription *string  `json:"short_description" bson:"short_description"`
	LongDescription  *string  `json:"long_description" bson:"long_description"`
	Batch            *string  `json:"batch" bson:"batch"`
	Status           *string  `json:"status" bson:"status"`
	Tags             []string `json:"tags" bson:"tags"`
	Location         *string  `json:"location" bson:"location"`
	Country          *string  `json:"country" bson:"country"`
	YearFounded      *int     `json:"year_founded" bson:"year_founded"`
	NumFounders      *int     `json:"num_founders" bson:"num_founders"`
	FoundersNames    []string `json:"founders_names" bson:"founders_names"`
	TeamSize         int      `json:"team_size" bson:"team_size"`
	Website          *string  `json:"website" bson:"website"`
	CBURL            *string  `json:"cb_url" bson:"cb_url"`
	LinkedInURL      *string  `json:"linkedin_url" bson:"linkedin_url"`
	ImageURLs        []string `json:"image_urls" bson:"image_urls"`
}

// HasTag reports whether the company carries the exact tag
func (c *Company) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Text joins the searchable free-text fields of the company
func (c *Company) Text() string {
	parts := []string{c.CompanyName}
	if c.ShortDescription != nil {
		parts = append(parts, *c.ShortDescription)
	}
	if c.LongDescription != nil {
		parts = append(parts, *c.LongDescription)
	}
	parts = append(parts, c.Tags...)
	return strings.Join(parts, " ")
}
