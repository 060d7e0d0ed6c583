package store

import (
	"context"
	"fmt"

	"github.com/ghost/mediabolt/internal/models"
)

// SaveDecomposition writes one detail decomposition atomically: the media
// row, every reference entity (insert-if-absent), the membership-stable
// links (insert-if-absent) and the shrinkable edges (delete-then-insert).
// Partial failure rolls the whole bundle back.
func (d *Database) SaveDecomposition(ctx context.Context, dec models.Decomposition) error {
	owner := dec.Media.Identity()

	err := d.WithTx(ctx, func(tx *Database) error {
		if err := tx.UpsertMedia(ctx, []models.Media{dec.Media}); err != nil {
			return fmt.Errorf("media: %w", err)
		}

		if err := tx.InsertGenres(ctx, dec.Genres); err != nil {
			return fmt.Errorf("genres: %w", err)
		}
		if err := tx.InsertGenreRefs(ctx, dec.GenreRefs); err != nil {
			return fmt.Errorf("genre refs: %w", err)
		}

		if err := tx.InsertKeywords(ctx, dec.Keywords); err != nil {
			return fmt.Errorf("keywords: %w", err)
		}
		if err := tx.InsertKeywordRefs(ctx, dec.KeywordRefs); err != nil {
			return fmt.Errorf("keyword refs: %w", err)
		}

		if err := tx.InsertCompanies(ctx, dec.Companies); err != nil {
			return fmt.Errorf("companies: %w", err)
		}
		if err := tx.InsertCompanyRefs(ctx, dec.CompanyRefs); err != nil {
			return fmt.Errorf("company refs: %w", err)
		}

		if err := tx.InsertCountries(ctx, dec.Countries); err != nil {
			return fmt.Errorf("countries: %w", err)
		}
		if err := tx.InsertCountryRefs(ctx, dec.CountryRefs); err != nil {
			return fmt.Errorf("country refs: %w", err)
		}

		if err := tx.InsertLanguages(ctx, dec.Languages); err != nil {
			return fmt.Errorf("languages: %w", err)
		}
		if err := tx.InsertLanguageRefs(ctx, dec.LanguageRefs); err != nil {
			return fmt.Errorf("language refs: %w", err)
		}

		if err := tx.InsertPersons(ctx, dec.Cast); err != nil {
			return fmt.Errorf("cast: %w", err)
		}
		if err := tx.ReplaceCastRefs(ctx, owner, dec.CastRefs); err != nil {
			return fmt.Errorf("cast refs: %w", err)
		}

		if err := tx.UpsertMedia(ctx, dec.Recommendations); err != nil {
			return fmt.Errorf("recommendations: %w", err)
		}
		if err := tx.ReplaceRecommendationRefs(ctx, owner, dec.RecommendationRefs); err != nil {
			return fmt.Errorf("recommendation refs: %w", err)
		}

		if err := tx.UpsertMedia(ctx, dec.Similar); err != nil {
			return fmt.Errorf("similar: %w", err)
		}
		if err := tx.ReplaceSimilarRefs(ctx, owner, dec.SimilarRefs); err != nil {
			return fmt.Errorf("similar refs: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	d.notifier.Publish(MediaTopic(owner))
	return nil
}

// CommitPage writes one mediator page load atomically: for refreshes it
// first clears the category's placements and the old cursor, then writes
// the new cursor, the media rows and (category feeds only) placement rows
// in fetch order. The placement base is 0 on refresh, last position + 1
// on append.
func (d *Database) CommitPage(ctx context.Context, commit models.PageCommit) error {
	err := d.WithTx(ctx, func(tx *Database) error {
		if commit.Refresh {
			if commit.CategoryID != nil {
				if err := tx.ClearCategoryRefs(ctx, *commit.CategoryID); err != nil {
					return fmt.Errorf("clear placements: %w", err)
				}
			}
			if err := tx.DeleteRemoteKey(ctx, commit.Label); err != nil {
				return fmt.Errorf("delete cursor: %w", err)
			}
		}

		key := models.RemoteKey{
			Label:       commit.Label,
			NextPage:    commit.NextPage,
			LastUpdated: commit.FetchedAt,
		}
		if err := tx.UpsertRemoteKey(ctx, key); err != nil {
			return fmt.Errorf("cursor: %w", err)
		}

		if err := tx.UpsertMedia(ctx, commit.Media); err != nil {
			return fmt.Errorf("media: %w", err)
		}

		if commit.CategoryID == nil {
			return nil
		}

		base := 0
		if !commit.Refresh {
			last, err := tx.LastPositionInCategory(ctx, *commit.CategoryID)
			if err != nil {
				return fmt.Errorf("last position: %w", err)
			}
			if last != nil {
				base = *last + 1
			}
		}

		refs := make([]models.MediaCategory, 0, len(commit.Media))
		for i, m := range commit.Media {
			refs = append(refs, models.MediaCategory{
				MediaID:     m.ID,
				MediaType:   m.MediaType,
				MediaSource: m.MediaSource,
				CategoryID:  *commit.CategoryID,
				Position:    base + i,
			})
		}
		if err := tx.UpsertCategoryRefs(ctx, refs); err != nil {
			return fmt.Errorf("placements: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.notifier.Publish(FeedTopic(commit.Label))
	if commit.CategoryID != nil {
		d.notifier.Publish(CategoryTopic(*commit.CategoryID))
	}
	return nil
}
