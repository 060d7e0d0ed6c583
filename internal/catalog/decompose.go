package catalog

import (
	"github.com/ghost/mediabolt/internal/models"
	"github.com/ghost/mediabolt/internal/services/tmdb"
)

// The decomposer flattens one nested detail response into normalized
// rows. It is pure: no I/O, deterministic keys, absent collections
// treated as empty. The store writes the whole bundle in one
// transaction.

// DecomposeMovie flattens a movie detail response. fetchedAt stamps the
// media row's detail completeness, epoch millis.
func DecomposeMovie(d *tmdb.MovieDetail, fetchedAt int64) models.Decomposition {
	media := movieDetailToMedia(d)
	media.DetailFetchedAt = &fetchedAt

	dec := models.Decomposition{Media: media}
	owner := media.Identity()

	decomposeGenres(&dec, owner, d.Genres)
	if d.Keywords != nil {
		decomposeKeywords(&dec, owner, d.Keywords.All())
	}
	decomposeCompanies(&dec, owner, d.ProductionCompanies)
	decomposeCountries(&dec, owner, d.ProductionCountries)
	decomposeLanguages(&dec, owner, d.SpokenLanguages)
	if d.Credits != nil {
		decomposeCast(&dec, owner, d.Credits.Cast)
	}
	if d.Recommendations != nil {
		decomposeRecommendations(&dec, owner, mapMovies(d.Recommendations.Results))
	}
	if d.Similar != nil {
		decomposeSimilar(&dec, owner, mapMovies(d.Similar.Results))
	}
	return dec
}

// DecomposeTV flattens a tv detail response.
func DecomposeTV(d *tmdb.TVDetail, fetchedAt int64) models.Decomposition {
	media := tvDetailToMedia(d)
	media.DetailFetchedAt = &fetchedAt

	dec := models.Decomposition{Media: media}
	owner := media.Identity()

	decomposeGenres(&dec, owner, d.Genres)
	if d.Keywords != nil {
		decomposeKeywords(&dec, owner, d.Keywords.All())
	}
	decomposeCompanies(&dec, owner, d.ProductionCompanies)
	decomposeCountries(&dec, owner, d.ProductionCountries)
	decomposeLanguages(&dec, owner, d.SpokenLanguages)
	if d.Credits != nil {
		decomposeCast(&dec, owner, d.Credits.Cast)
	}
	if d.Recommendations != nil {
		decomposeRecommendations(&dec, owner, mapTV(d.Recommendations.Results))
	}
	if d.Similar != nil {
		decomposeSimilar(&dec, owner, mapTV(d.Similar.Results))
	}
	return dec
}

func decomposeGenres(dec *models.Decomposition, owner models.Identity, genres []tmdb.Genre) {
	seen := make(map[int]struct{}, len(genres))
	for _, g := range genres {
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		dec.Genres = append(dec.Genres, models.Genre{ID: g.ID, Name: g.Name})
		dec.GenreRefs = append(dec.GenreRefs, models.MediaGenre{
			MediaID: owner.ID, MediaType: owner.MediaType, MediaSource: owner.MediaSource,
			GenreID: g.ID,
		})
	}
}

func decomposeKeywords(dec *models.Decomposition, owner models.Identity, keywords []tmdb.Keyword) {
	seen := make(map[int]struct{}, len(keywords))
	for _, k := range keywords {
		if _, dup := seen[k.ID]; dup {
			continue
		}
		seen[k.ID] = struct{}{}
		dec.Keywords = append(dec.Keywords, models.Keyword{ID: k.ID, Name: k.Name})
		dec.KeywordRefs = append(dec.KeywordRefs, models.MediaKeyword{
			MediaID: owner.ID, MediaType: owner.MediaType, MediaSource: owner.MediaSource,
			KeywordID: k.ID,
		})
	}
}

func decomposeCompanies(dec *models.Decomposition, owner models.Identity, companies []tmdb.ProductionCompany) {
	seen := make(map[int]struct{}, len(companies))
	for _, c := range companies {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		dec.Companies = append(dec.Companies, models.ProductionCompany{ID: c.ID, Name: c.Name})
		dec.CompanyRefs = append(dec.CompanyRefs, models.MediaCompany{
			MediaID: owner.ID, MediaType: owner.MediaType, MediaSource: owner.MediaSource,
			CompanyID: c.ID,
		})
	}
}

func decomposeCountries(dec *models.Decomposition, owner models.Identity, countries []tmdb.ProductionCountry) {
	seen := make(map[int64]struct{}, len(countries))
	for _, c := range countries {
		key := CodeKey(c.ISOCode)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		dec.Countries = append(dec.Countries, models.ProductionCountry{ID: key, Name: c.Name})
		dec.CountryRefs = append(dec.CountryRefs, models.MediaCountry{
			MediaID: owner.ID, MediaType: owner.MediaType, MediaSource: owner.MediaSource,
			CountryID: key,
		})
	}
}

func decomposeLanguages(dec *models.Decomposition, owner models.Identity, languages []tmdb.SpokenLanguage) {
	seen := make(map[int64]struct{}, len(languages))
	for _, l := range languages {
		key := CodeKey(l.ISOCode)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		dec.Languages = append(dec.Languages, models.SpokenLanguage{ID: key, Name: l.Name})
		dec.LanguageRefs = append(dec.LanguageRefs, models.MediaLanguage{
			MediaID: owner.ID, MediaType: owner.MediaType, MediaSource: owner.MediaSource,
			LanguageID: key,
		})
	}
}

func decomposeCast(dec *models.Decomposition, owner models.Identity, cast []tmdb.CastMember) {
	// One edge per person: a person credited twice keeps the first credit.
	seen := make(map[int]struct{}, len(cast))
	for _, member := range cast {
		if _, dup := seen[member.ID]; dup {
			continue
		}
		seen[member.ID] = struct{}{}

		dec.Cast = append(dec.Cast, models.Person{
			ID:                 member.ID,
			Name:               orUnknown(member.Name),
			ProfilePath:        member.ProfilePath,
			KnownForDepartment: member.KnownForDepartment,
		})

		// Missing credit order means "unspecified", not "last": 0.
		order := 0
		if member.Order != nil {
			order = *member.Order
		}
		dec.CastRefs = append(dec.CastRefs, models.MediaCast{
			MediaID: owner.ID, MediaType: owner.MediaType, MediaSource: owner.MediaSource,
			PersonID:      member.ID,
			CharacterName: member.Character,
			CreditOrder:   order,
		})
	}
}

func decomposeRecommendations(dec *models.Decomposition, owner models.Identity, targets []models.Media) {
	seen := make(map[models.Identity]struct{}, len(targets))
	for i, target := range targets {
		if _, dup := seen[target.Identity()]; dup {
			continue
		}
		seen[target.Identity()] = struct{}{}
		dec.Recommendations = append(dec.Recommendations, target)
		dec.RecommendationRefs = append(dec.RecommendationRefs, models.MediaRecommendation{
			SourceID: owner.ID, SourceType: owner.MediaType, SourceOrigin: owner.MediaSource,
			TargetID: target.ID, TargetType: target.MediaType, TargetOrigin: target.MediaSource,
			DisplayOrder: i,
		})
	}
}

func decomposeSimilar(dec *models.Decomposition, owner models.Identity, targets []models.Media) {
	seen := make(map[models.Identity]struct{}, len(targets))
	for i, target := range targets {
		if _, dup := seen[target.Identity()]; dup {
			continue
		}
		seen[target.Identity()] = struct{}{}
		dec.Similar = append(dec.Similar, target)
		dec.SimilarRefs = append(dec.SimilarRefs, models.MediaSimilar{
			SourceID: owner.ID, SourceType: owner.MediaType, SourceOrigin: owner.MediaSource,
			TargetID: target.ID, TargetType: target.MediaType, TargetOrigin: target.MediaSource,
			DisplayOrder: i,
		})
	}
}
