package models

// CastCredit pairs a person with their edge metadata for one media item.
type CastCredit struct {
	Person        Person
	CharacterName *string
	CreditOrder   int
}

// RelatedMedia pairs a shallow media row with its display rank inside a
// recommendation or similar list.
type RelatedMedia struct {
	Media        Media
	DisplayOrder int
}

// MediaDetail is the composite read of one media item with every joined
// association, assembled inside a single transaction so readers never see
// a half-written refresh.
type MediaDetail struct {
	Media Media

	Genres          []Genre
	Keywords        []Keyword
	Companies       []ProductionCompany
	Countries       []ProductionCountry
	Languages       []SpokenLanguage
	Cast            []CastCredit
	Recommendations []RelatedMedia
	Similar         []RelatedMedia
}

// Complete reports whether a full detail decomposition has been committed
// for this row, as opposed to only shallow list-page fields.
func (d *MediaDetail) Complete() bool {
	if d.Media.Complete() {
		return true
	}
	// Rows written before the completeness stamp existed: fall back to the
	// old genre-list heuristic.
	return len(d.Genres) > 0
}
