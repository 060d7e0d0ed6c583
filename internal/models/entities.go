package models

// Reference entities are created on first sighting and never updated in
// place: once a genre or person has been seen, its row is assumed stable.

// Genre is a provider genre, keyed by the provider's numeric ID.
type Genre struct {
	ID   int    `gorm:"primaryKey;autoIncrement:false;column:genre_id"`
	Name string `gorm:"index"`
}

// Keyword is a provider keyword/tag.
type Keyword struct {
	ID   int    `gorm:"primaryKey;autoIncrement:false;column:keyword_id"`
	Name string `gorm:"index"`
}

// Person is a cast member, keyed by the provider's person ID.
type Person struct {
	ID                 int    `gorm:"primaryKey;autoIncrement:false;column:person_id"`
	Name               string `gorm:"index"`
	ProfilePath        *string
	KnownForDepartment *string
}

// ProductionCompany is a studio or network.
type ProductionCompany struct {
	ID   int    `gorm:"primaryKey;autoIncrement:false;column:company_id"`
	Name string `gorm:"index"`
}

// ProductionCountry has no numeric provider ID; its key is a stable hash
// of the ISO 3166-1 code (see catalog.CodeKey).
type ProductionCountry struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false;column:country_id"`
	Name string `gorm:"index"`
}

// SpokenLanguage is keyed like ProductionCountry, by hashed ISO 639-1 code.
type SpokenLanguage struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false;column:language_id"`
	Name string `gorm:"index"`
}

// Category is a logical browse feed ("Popular", "Trending"). The refresh
// frequency drives the category mediator's freshness gate.
type Category struct {
	ID               int    `gorm:"primaryKey;autoIncrement:false;column:category_id"`
	Name             string `gorm:"index"`
	Explanation      *string
	RefreshFrequency RefreshFrequency `gorm:"size:16"`
}

// Built-in category IDs, stable across releases since placement rows
// reference them.
const (
	CategoryPopular    = 0
	CategoryTrending   = 1
	CategoryTopRated   = 2
	CategoryUpcoming   = 3
	CategoryNowPlaying = 4
	CategorySeasonal   = 5
)

// DefaultCategories seeds the category table on first open.
func DefaultCategories() []Category {
	return []Category{
		{ID: CategoryPopular, Name: "Popular", RefreshFrequency: RefreshDaily},
		{ID: CategoryTrending, Name: "Trending", RefreshFrequency: RefreshDaily},
		{ID: CategoryTopRated, Name: "Top Rated", RefreshFrequency: RefreshWeekly},
		{ID: CategoryUpcoming, Name: "Upcoming", RefreshFrequency: RefreshDaily},
		{ID: CategoryNowPlaying, Name: "Now Playing", RefreshFrequency: RefreshDaily},
		{ID: CategorySeasonal, Name: "Seasonal", RefreshFrequency: RefreshMonthly},
	}
}

// RemoteKey is the persisted pagination cursor for one feed: the next page
// to fetch (nil = exhausted) and when the feed was last refreshed.
type RemoteKey struct {
	Label       string `gorm:"primaryKey;column:label"`
	NextPage    *int
	LastUpdated int64
}

func (RemoteKey) TableName() string { return "remote_keys" }
