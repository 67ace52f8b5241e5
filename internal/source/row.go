package source

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/Rrens/quackbot/internal/domain"
)

// Columns lists the companies table columns in Row scan order
const Columns = "company_id, company_name, short_description, long_description, batch, status, tags, " +
	"location, country, year_founded, num_founders, founders_names, team_size, website, cb_url, " +
	"linkedin_url, image_urls"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateTable rejects table names that are not plain identifiers
func ValidateTable(name string) error {
	if !tableName.MatchString(name) {
		return fmt.Errorf("invalid table name: %q", name)
	}
	return nil
}

// SelectQuery returns the catalog query for table; callers validate table first
func SelectQuery(table string) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY position", Columns, table)
}

// Row is one companies table row. List fields hold JSON array text.
type Row struct {
	CompanyID        *int64
	CompanyName      string
	ShortDescription *string
	LongDescription  *string
	Batch            *string
	Status           *string
	Tags             *string
	Location         *string
	Country          *string
	YearFounded      *int64
	NumFounders      *int64
	FoundersNames    *string
	TeamSize         *int64
	Website          *string
	CBURL            *string
	LinkedInURL      *string
	ImageURLs        *string
}

// Dest returns scan destinations in Columns order
func (r *Row) Dest() []any {
	return []any{
		&r.CompanyID, &r.CompanyName, &r.ShortDescription, &r.LongDescription, &r.Batch, &r.Status,
		&r.Tags, &r.Location, &r.Country, &r.YearFounded, &r.NumFounders, &r.FoundersNames,
		&r.TeamSize, &r.Website, &r.CBURL, &r.LinkedInURL, &r.ImageURLs,
	}
}

// Args returns insert arguments in Columns order
func (r *Row) Args() []any {
	return []any{
		r.CompanyID, r.CompanyName, r.ShortDescription, r.LongDescription, r.Batch, r.Status,
		r.Tags, r.Location, r.Country, r.YearFounded, r.NumFounders, r.FoundersNames,
		r.TeamSize, r.Website, r.CBURL, r.LinkedInURL, r.ImageURLs,
	}
}

// Company converts the row into a catalog record
func (r *Row) Company() (domain.Company, error) {
	c := domain.Company{
		CompanyID:        intPtr(r.CompanyID),
		CompanyName:      r.CompanyName,
		ShortDescription: r.ShortDescription,
		LongDescription:  r.LongDescription,
		Batch:            r.Batch,
		Status:           r.Status,
		Location:         r.Location,
		Country:          r.Country,
		YearFounded:      intPtr(r.YearFounded),
		NumFounders:      intPtr(r.NumFounders),
		Website:          r.Website,
		CBURL:            r.CBURL,
		LinkedInURL:      r.LinkedInURL,
	}
	if r.TeamSize != nil {
		c.TeamSize = int(*r.TeamSize)
	}

	var err error
	if c.Tags, err = decodeList(r.Tags); err != nil {
		return c, fmt.Errorf("tags of %q: %w", r.CompanyName, err)
	}
	if c.FoundersNames, err = decodeList(r.FoundersNames); err != nil {
		return c, fmt.Errorf("founders_names of %q: %w", r.CompanyName, err)
	}
	if c.ImageURLs, err = decodeList(r.ImageURLs); err != nil {
		return c, fmt.Errorf("image_urls of %q: %w", r.CompanyName, err)
	}
	return c, nil
}

// NewRow converts a catalog record into a row ready for insertion
func NewRow(c domain.Company) (Row, error) {
	r := Row{
		CompanyID:        int64Ptr(c.CompanyID),
		CompanyName:      c.CompanyName,
		ShortDescription: c.ShortDescription,
		LongDescription:  c.LongDescription,
		Batch:            c.Batch,
		Status:           c.Status,
		Location:         c.Location,
		Country:          c.Country,
		YearFounded:      int64Ptr(c.YearFounded),
		NumFounders:      int64Ptr(c.NumFounders),
		Website:          c.Website,
		CBURL:            c.CBURL,
		LinkedInURL:      c.LinkedInURL,
	}
	teamSize := int64(c.TeamSize)
	r.TeamSize = &teamSize

	var err error
	if r.Tags, err = encodeList(c.Tags); err != nil {
		return r, err
	}
	if r.FoundersNames, err = encodeList(c.FoundersNames); err != nil {
		return r, err
	}
	if r.ImageURLs, err = encodeList(c.ImageURLs); err != nil {
		return r, err
	}
	return r, nil
}

func decodeList(s *string) ([]string, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(*s), &list); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return list, nil
}

func encodeList(list []string) (*string, error) {
	if list == nil {
		return nil, nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to encode list: %w", err)
	}
	s := string(data)
	return &s, nil
}

func intPtr(v *int64) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}

func int64Ptr(v *int) *int64 {
	if v == nil {
		return nil
	}
	i := int64(*v)
	return &i
}
