package handlers

import (
	"github.com/ghost/mediabolt/internal/models"
)

// mediaJSON is the wire shape of one catalog item.
type mediaJSON struct {
	ID          int      `json:"id"`
	MediaType   string   `json:"media_type"`
	Source      string   `json:"source"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview,omitempty"`
	PosterURL   *string  `json:"poster_url,omitempty"`
	BackdropURL *string  `json:"backdrop_url,omitempty"`
	VoteAverage *float32 `json:"vote_average,omitempty"`
	VoteCount   *int     `json:"vote_count,omitempty"`
	Popularity  *float32 `json:"popularity,omitempty"`
	ReleaseDate *int64   `json:"release_date,omitempty"`
	FinishDate  *int64   `json:"finish_date,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Tagline     *string  `json:"tagline,omitempty"`
	Homepage    *string  `json:"homepage,omitempty"`
	ImdbID      *string  `json:"imdb_id,omitempty"`
	Runtime     *int     `json:"runtime,omitempty"`
	Budget      *int64   `json:"budget,omitempty"`
	Revenue     *int64   `json:"revenue,omitempty"`
	Episodes    *int     `json:"episodes,omitempty"`
	ThemeColor  *uint32  `json:"theme_color,omitempty"`
	Complete    bool     `json:"complete"`
}

func toMediaJSON(m models.Media) mediaJSON {
	out := mediaJSON{
		ID:          m.ID,
		MediaType:   string(m.MediaType),
		Source:      string(m.MediaSource),
		Title:       m.Title,
		Overview:    m.Overview,
		PosterURL:   m.PosterURL("w500"),
		BackdropURL: m.BackdropURL("w1280"),
		VoteAverage: m.VoteAverage,
		VoteCount:   m.VoteCount,
		Popularity:  m.Popularity,
		ReleaseDate: m.ReleaseDate,
		FinishDate:  m.FinishDate,
		Tagline:     m.Tagline,
		Homepage:    m.Homepage,
		ImdbID:      m.ImdbID,
		Runtime:     m.Runtime,
		Budget:      m.Budget,
		Revenue:     m.Revenue,
		Episodes:    m.Episodes,
		ThemeColor:  m.ThemeColor,
		Complete:    m.Complete(),
	}
	if m.Status != nil {
		s := string(*m.Status)
		out.Status = &s
	}
	return out
}

func toMediaJSONs(media []models.Media) []mediaJSON {
	out := make([]mediaJSON, len(media))
	for i, m := range media {
		out[i] = toMediaJSON(m)
	}
	return out
}

// castJSON is one cast credit on a detail response.
type castJSON struct {
	PersonID      int     `json:"person_id"`
	Name          string  `json:"name"`
	ProfilePath   *string `json:"profile_path,omitempty"`
	CharacterName *string `json:"character_name,omitempty"`
	CreditOrder   int     `json:"credit_order"`
}

type namedJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// detailJSON is the composite detail wire shape.
type detailJSON struct {
	mediaJSON
	Genres          []namedJSON `json:"genres"`
	Keywords        []namedJSON `json:"keywords"`
	Companies       []namedJSON `json:"production_companies"`
	Countries       []string    `json:"production_countries"`
	Languages       []string    `json:"spoken_languages"`
	Cast            []castJSON  `json:"cast"`
	Recommendations []mediaJSON `json:"recommendations"`
	Similar         []mediaJSON `json:"similar"`
}

func toDetailJSON(d *models.MediaDetail) detailJSON {
	out := detailJSON{
		mediaJSON:       toMediaJSON(d.Media),
		Genres:          make([]namedJSON, 0, len(d.Genres)),
		Keywords:        make([]namedJSON, 0, len(d.Keywords)),
		Companies:       make([]namedJSON, 0, len(d.Companies)),
		Countries:       make([]string, 0, len(d.Countries)),
		Languages:       make([]string, 0, len(d.Languages)),
		Cast:            make([]castJSON, 0, len(d.Cast)),
		Recommendations: toMediaJSONs(relatedItems(d.Recommendations)),
		Similar:         toMediaJSONs(relatedItems(d.Similar)),
	}
	for _, g := range d.Genres {
		out.Genres = append(out.Genres, namedJSON{ID: int64(g.ID), Name: g.Name})
	}
	for _, k := range d.Keywords {
		out.Keywords = append(out.Keywords, namedJSON{ID: int64(k.ID), Name: k.Name})
	}
	for _, c := range d.Companies {
		out.Companies = append(out.Companies, namedJSON{ID: int64(c.ID), Name: c.Name})
	}
	for _, c := range d.Countries {
		out.Countries = append(out.Countries, c.Name)
	}
	for _, l := range d.Languages {
		out.Languages = append(out.Languages, l.Name)
	}
	for _, credit := range d.Cast {
		out.Cast = append(out.Cast, castJSON{
			PersonID:      credit.Person.ID,
			Name:          credit.Person.Name,
			ProfilePath:   credit.Person.ProfilePath,
			CharacterName: credit.CharacterName,
			CreditOrder:   credit.CreditOrder,
		})
	}
	return out
}

func relatedItems(related []models.RelatedMedia) []models.Media {
	out := make([]models.Media, len(related))
	for i, r := range related {
		out[i] = r.Media
	}
	return out
}
