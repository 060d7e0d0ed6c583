package models

// Decomposition holds the flattened rows of one nested detail response,
// ready to be written atomically. Building it performs no I/O; the store
// consumes the whole bundle inside one transaction.
type Decomposition struct {
	Media Media

	Genres    []Genre
	GenreRefs []MediaGenre

	Keywords    []Keyword
	KeywordRefs []MediaKeyword

	Companies   []ProductionCompany
	CompanyRefs []MediaCompany

	Countries   []ProductionCountry
	CountryRefs []MediaCountry

	Languages    []SpokenLanguage
	LanguageRefs []MediaLanguage

	Cast     []Person
	CastRefs []MediaCast

	// Shallow rows for every recommended/similar title, plus their edges.
	Recommendations    []Media
	RecommendationRefs []MediaRecommendation
	Similar            []Media
	SimilarRefs        []MediaSimilar
}

// PageCommit is everything a mediator load writes in one transaction:
// cursor bookkeeping, the fetched media rows, and (for category feeds)
// their placement links.
type PageCommit struct {
	Label string
	// True for a page-1 refresh: existing placements and the old cursor
	// are cleared before writing.
	Refresh bool
	// Nil for search/discover feeds, which own no placement rows.
	CategoryID *int

	NextPage  *int
	FetchedAt int64
	Media     []Media
}
