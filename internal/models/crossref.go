package models

// Join tables. Every edge carries the owning media's full identity triple
// because the bare ID is ambiguous across kinds and providers.

// MediaGenre links a media item to a genre.
type MediaGenre struct {
	MediaID     int         `gorm:"primaryKey;autoIncrement:false"`
	MediaType   MediaType   `gorm:"primaryKey;size:16"`
	MediaSource MediaSource `gorm:"primaryKey;size:16"`
	GenreID     int         `gorm:"primaryKey;autoIncrement:false"`
}

func (MediaGenre) TableName() string { return "media_genres" }

// MediaKeyword links a media item to a keyword.
type MediaKeyword struct {
	MediaID     int         `gorm:"primaryKey;autoIncrement:false"`
	MediaType   MediaType   `gorm:"primaryKey;size:16"`
	MediaSource MediaSource `gorm:"primaryKey;size:16"`
	KeywordID   int         `gorm:"primaryKey;autoIncrement:false"`
}

func (MediaKeyword) TableName() string { return "media_keywords" }

// MediaCast links a media item to a person with credit metadata. Cast
// membership can shrink between detail refreshes, so these rows are
// replaced wholesale, never merged.
type MediaCast struct {
	MediaID     int         `gorm:"primaryKey;autoIncrement:false"`
	MediaType   MediaType   `gorm:"primaryKey;size:16"`
	MediaSource MediaSource `gorm:"primaryKey;size:16"`
	PersonID    int         `gorm:"primaryKey;autoIncrement:false"`

	CharacterName *string
	// Provider credit order, lead actors first. Missing order maps to 0.
	CreditOrder int
}

func (MediaCast) TableName() string { return "media_cast" }

// MediaCompany links a media item to a production company.
type MediaCompany struct {
	MediaID     int         `gorm:"primaryKey;autoIncrement:false"`
	MediaType   MediaType   `gorm:"primaryKey;size:16"`
	MediaSource MediaSource `gorm:"primaryKey;size:16"`
	CompanyID   int         `gorm:"primaryKey;autoIncrement:false"`
}

func (MediaCompany) TableName() string { return "media_companies" }

// MediaCountry links a media item to a production country.
type MediaCountry struct {
	MediaID     int         `gorm:"primaryKey;autoIncrement:false"`
	MediaType   MediaType   `gorm:"primaryKey;size:16"`
	MediaSource MediaSource `gorm:"primaryKey;size:16"`
	CountryID   int64       `gorm:"primaryKey;autoIncrement:false"`
}

func (MediaCountry) TableName() string { return "media_countries" }

// MediaLanguage links a media item to a spoken language.
type MediaLanguage struct {
	MediaID     int         `gorm:"primaryKey;autoIncrement:false"`
	MediaType   MediaType   `gorm:"primaryKey;size:16"`
	MediaSource MediaSource `gorm:"primaryKey;size:16"`
	LanguageID  int64       `gorm:"primaryKey;autoIncrement:false"`
}

func (MediaLanguage) TableName() string { return "media_languages" }

// MediaRecommendation links a source media item to a recommended one.
// The target carries its own kind/source because a recommendation can be
// any kind from any provider. DisplayOrder is the zero-based position in
// the provider's result list, used only for rendering order.
type MediaRecommendation struct {
	SourceID     int         `gorm:"primaryKey;autoIncrement:false"`
	SourceType   MediaType   `gorm:"primaryKey;size:16"`
	SourceOrigin MediaSource `gorm:"primaryKey;size:16"`
	TargetID     int         `gorm:"primaryKey;autoIncrement:false"`
	TargetType   MediaType   `gorm:"primaryKey;size:16"`
	TargetOrigin MediaSource `gorm:"primaryKey;size:16"`

	DisplayOrder int
}

func (MediaRecommendation) TableName() string { return "media_recommendations" }

// MediaSimilar links a source media item to a similar title, shaped like
// MediaRecommendation.
type MediaSimilar struct {
	SourceID     int         `gorm:"primaryKey;autoIncrement:false"`
	SourceType   MediaType   `gorm:"primaryKey;size:16"`
	SourceOrigin MediaSource `gorm:"primaryKey;size:16"`
	TargetID     int         `gorm:"primaryKey;autoIncrement:false"`
	TargetType   MediaType   `gorm:"primaryKey;size:16"`
	TargetOrigin MediaSource `gorm:"primaryKey;size:16"`

	DisplayOrder int
}

func (MediaSimilar) TableName() string { return "media_similar" }

// MediaCategory places a media item in a browse category. Position is the
// sort key of the category's paged view, preserving API page order.
type MediaCategory struct {
	MediaID     int         `gorm:"primaryKey;autoIncrement:false"`
	MediaType   MediaType   `gorm:"primaryKey;size:16"`
	MediaSource MediaSource `gorm:"primaryKey;size:16"`
	CategoryID  int         `gorm:"primaryKey;autoIncrement:false;index"`

	Position int `gorm:"column:position_in_category"`
}

func (MediaCategory) TableName() string { return "media_categories" }
