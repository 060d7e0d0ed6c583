package tmdb

// Wire shapes for the TMDB v3 API. List endpoints return the shallow
// Movie/TV shapes inside a Page envelope; detail endpoints return the
// full shapes with embedded sub-resources selected by append_to_response.

// Page is the standard TMDB paged envelope.
type Page[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// Movie is the list-endpoint movie shape.
type Movie struct {
	ID               int      `json:"id"`
	Title            *string  `json:"title"`
	Overview         *string  `json:"overview"`
	PosterPath       *string  `json:"poster_path"`
	BackdropPath     *string  `json:"backdrop_path"`
	VoteAverage      *float64 `json:"vote_average"`
	VoteCount        *int     `json:"vote_count"`
	Popularity       *float64 `json:"popularity"`
	ReleaseDate      *string  `json:"release_date"`
	OriginalLanguage *string  `json:"original_language"`
	OriginalTitle    *string  `json:"original_title"`
	Adult            *bool    `json:"adult"`
}

// TV is the list-endpoint tv shape.
type TV struct {
	ID               int      `json:"id"`
	Name             *string  `json:"name"`
	Overview         *string  `json:"overview"`
	PosterPath       *string  `json:"poster_path"`
	BackdropPath     *string  `json:"backdrop_path"`
	VoteAverage      *float64 `json:"vote_average"`
	VoteCount        *int     `json:"vote_count"`
	Popularity       *float64 `json:"popularity"`
	FirstAirDate     *string  `json:"first_air_date"`
	OriginalLanguage *string  `json:"original_language"`
	OriginalName     *string  `json:"original_name"`
	Adult            *bool    `json:"adult"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Keywords holds both container shapes: movies use "keywords", tv uses
// "results".
type Keywords struct {
	Keywords []Keyword `json:"keywords"`
	Results  []Keyword `json:"results"`
}

// All returns whichever keyword list the provider populated.
func (k *Keywords) All() []Keyword {
	if len(k.Keywords) > 0 {
		return k.Keywords
	}
	return k.Results
}

type CastMember struct {
	ID                 int     `json:"id"`
	Name               *string `json:"name"`
	ProfilePath        *string `json:"profile_path"`
	Character          *string `json:"character"`
	Order              *int    `json:"order"`
	KnownForDepartment *string `json:"known_for_department"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
}

type ProductionCompany struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ProductionCountry struct {
	ISOCode string `json:"iso_3166_1"`
	Name    string `json:"name"`
}

type SpokenLanguage struct {
	ISOCode string `json:"iso_639_1"`
	Name    string `json:"name"`
}

// MovieDetail is the full movie shape with optional embedded
// sub-resources. Absent collections stay nil.
type MovieDetail struct {
	Movie

	Status              *string             `json:"status"`
	Homepage            *string             `json:"homepage"`
	ImdbID              *string             `json:"imdb_id"`
	Tagline             *string             `json:"tagline"`
	Revenue             *int64              `json:"revenue"`
	Runtime             *int                `json:"runtime"`
	Budget              *int64              `json:"budget"`
	Genres              []Genre             `json:"genres"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`

	Credits         *Credits     `json:"credits"`
	Keywords        *Keywords    `json:"keywords"`
	Recommendations *Page[Movie] `json:"recommendations"`
	Similar         *Page[Movie] `json:"similar"`
}

// TVDetail is the full tv shape.
type TVDetail struct {
	TV

	Status              *string             `json:"status"`
	Homepage            *string             `json:"homepage"`
	Tagline             *string             `json:"tagline"`
	LastAirDate         *string             `json:"last_air_date"`
	NumberOfEpisodes    *int                `json:"number_of_episodes"`
	EpisodeRunTime      []int               `json:"episode_run_time"`
	Genres              []Genre             `json:"genres"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`

	Credits         *Credits  `json:"credits"`
	Keywords        *Keywords `json:"keywords"`
	Recommendations *Page[TV] `json:"recommendations"`
	Similar         *Page[TV] `json:"similar"`
}
