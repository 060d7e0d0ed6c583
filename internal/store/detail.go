package store

import (
	"context"
	"fmt"

	"github.com/ghost/mediabolt/internal/models"
)

// GetMediaDetail assembles the composite detail of one media item: the
// row plus every joined association. It runs inside one read transaction
// so a concurrent refresh is seen fully-old or fully-new, never partial.
// Returns ErrNotFound when the media row is not cached.
func (d *Database) GetMediaDetail(ctx context.Context, id models.Identity) (*models.MediaDetail, error) {
	var detail *models.MediaDetail
	err := d.WithTx(ctx, func(tx *Database) error {
		media, err := tx.GetMedia(ctx, id)
		if err != nil {
			return err
		}
		detail = &models.MediaDetail{Media: *media}

		db := tx.db.WithContext(ctx)
		ownerWhere := "media_id = ? AND media_type = ? AND media_source = ?"
		ownerArgs := []any{id.ID, id.MediaType, id.MediaSource}

		err = db.Model(&models.Genre{}).
			Joins("INNER JOIN media_genres ON media_genres.genre_id = genres.genre_id").
			Where("media_genres."+ownerWhere, ownerArgs...).
			Find(&detail.Genres).Error
		if err != nil {
			return fmt.Errorf("genres: %w", err)
		}

		err = db.Model(&models.Keyword{}).
			Joins("INNER JOIN media_keywords ON media_keywords.keyword_id = keywords.keyword_id").
			Where("media_keywords."+ownerWhere, ownerArgs...).
			Find(&detail.Keywords).Error
		if err != nil {
			return fmt.Errorf("keywords: %w", err)
		}

		err = db.Model(&models.ProductionCompany{}).
			Joins("INNER JOIN media_companies ON media_companies.company_id = production_companies.company_id").
			Where("media_companies."+ownerWhere, ownerArgs...).
			Find(&detail.Companies).Error
		if err != nil {
			return fmt.Errorf("companies: %w", err)
		}

		err = db.Model(&models.ProductionCountry{}).
			Joins("INNER JOIN media_countries ON media_countries.country_id = production_countries.country_id").
			Where("media_countries."+ownerWhere, ownerArgs...).
			Find(&detail.Countries).Error
		if err != nil {
			return fmt.Errorf("countries: %w", err)
		}

		err = db.Model(&models.SpokenLanguage{}).
			Joins("INNER JOIN media_languages ON media_languages.language_id = spoken_languages.language_id").
			Where("media_languages."+ownerWhere, ownerArgs...).
			Find(&detail.Languages).Error
		if err != nil {
			return fmt.Errorf("languages: %w", err)
		}

		detail.Cast, err = tx.castCredits(ctx, id)
		if err != nil {
			return fmt.Errorf("cast: %w", err)
		}

		detail.Recommendations, err = tx.relatedMedia(ctx, id, "media_recommendations")
		if err != nil {
			return fmt.Errorf("recommendations: %w", err)
		}

		detail.Similar, err = tx.relatedMedia(ctx, id, "media_similar")
		if err != nil {
			return fmt.Errorf("similar: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (d *Database) castCredits(ctx context.Context, id models.Identity) ([]models.CastCredit, error) {
	var refs []models.MediaCast
	err := d.db.WithContext(ctx).
		Where("media_id = ? AND media_type = ? AND media_source = ?",
			id.ID, id.MediaType, id.MediaSource).
		Order("credit_order ASC").
		Find(&refs).Error
	if err != nil {
		return nil, err
	}

	credits := make([]models.CastCredit, 0, len(refs))
	for _, ref := range refs {
		var person models.Person
		err := d.db.WithContext(ctx).First(&person, "person_id = ?", ref.PersonID).Error
		if err != nil {
			return nil, err
		}
		credits = append(credits, models.CastCredit{
			Person:        person,
			CharacterName: ref.CharacterName,
			CreditOrder:   ref.CreditOrder,
		})
	}
	return credits, nil
}

// relatedMedia reads the recommendation or similar edges of one media
// item in display order, joined with the target rows.
func (d *Database) relatedMedia(ctx context.Context, id models.Identity, table string) ([]models.RelatedMedia, error) {
	type edge struct {
		TargetID     int
		TargetType   models.MediaType
		TargetOrigin models.MediaSource
		DisplayOrder int
	}
	var edges []edge
	err := d.db.WithContext(ctx).
		Table(table).
		Where("source_id = ? AND source_type = ? AND source_origin = ?",
			id.ID, id.MediaType, id.MediaSource).
		Order("display_order ASC").
		Find(&edges).Error
	if err != nil {
		return nil, err
	}

	related := make([]models.RelatedMedia, 0, len(edges))
	for _, e := range edges {
		target, err := d.GetMedia(ctx, models.Identity{
			ID: e.TargetID, MediaType: e.TargetType, MediaSource: e.TargetOrigin,
		})
		if err != nil {
			return nil, err
		}
		related = append(related, models.RelatedMedia{Media: *target, DisplayOrder: e.DisplayOrder})
	}
	return related, nil
}
