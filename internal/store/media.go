package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ghost/mediabolt/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetMedia returns one media row by its identity triple.
func (d *Database) GetMedia(ctx context.Context, id models.Identity) (*models.Media, error) {
	var media models.Media
	err := d.db.WithContext(ctx).
		First(&media, "id = ? AND media_type = ? AND media_source = ?",
			id.ID, id.MediaType, id.MediaSource).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &media, nil
}

// UpsertMedia writes media rows with insert-or-replace semantics on the
// identity triple. A shallow list row replacing a full detail row is the
// expected behavior; the next detail read re-triggers a refresh.
func (d *Database) UpsertMedia(ctx context.Context, media []models.Media) error {
	if len(media) == 0 {
		return nil
	}
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&media).Error
}

// UpdateThemeColor stores the UI-derived poster theme color on one row
// and notifies watchers. ErrNotFound when the row was never cached.
func (d *Database) UpdateThemeColor(ctx context.Context, id models.Identity, color uint32) error {
	result := d.db.WithContext(ctx).
		Model(&models.Media{}).
		Where("id = ? AND media_type = ? AND media_source = ?", id.ID, id.MediaType, id.MediaSource).
		Update("theme_color", color)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	d.notifier.Publish(MediaTopic(id))
	return nil
}

// Reference entities are insert-if-absent: once seen, never overwritten.

func (d *Database) InsertGenres(ctx context.Context, rows []models.Genre) error {
	return insertIgnore(ctx, d.db, rows)
}

func (d *Database) InsertKeywords(ctx context.Context, rows []models.Keyword) error {
	return insertIgnore(ctx, d.db, rows)
}

func (d *Database) InsertPersons(ctx context.Context, rows []models.Person) error {
	return insertIgnore(ctx, d.db, rows)
}

func (d *Database) InsertCompanies(ctx context.Context, rows []models.ProductionCompany) error {
	return insertIgnore(ctx, d.db, rows)
}

func (d *Database) InsertCountries(ctx context.Context, rows []models.ProductionCountry) error {
	return insertIgnore(ctx, d.db, rows)
}

func (d *Database) InsertLanguages(ctx context.Context, rows []models.SpokenLanguage) error {
	return insertIgnore(ctx, d.db, rows)
}

func (d *Database) InsertGenreRefs(ctx context.Context, rows []models.MediaGenre) error {
	return insertIgnore(ctx, d.db, rows)
}

func (d *Database) InsertKeywordRefs(ctx context.Context, rows []models.MediaKeyword) error {
	return insertIgnore(ctx, d.db, rows)
}

func (d *Database) InsertCompanyRefs(ctx context.Context, rows []models.MediaCompany) error {
	return insertIgnore(ctx, d.db, rows)
}

func (d *Database) InsertCountryRefs(ctx context.Context, rows []models.MediaCountry) error {
	return insertIgnore(ctx, d.db, rows)
}

func (d *Database) InsertLanguageRefs(ctx context.Context, rows []models.MediaLanguage) error {
	return insertIgnore(ctx, d.db, rows)
}

func insertIgnore[T any](ctx context.Context, db *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// Cast, recommendation and similar edges can shrink between refreshes, so
// stale rows must disappear: delete everything the source media owns,
// then insert the new set.

func (d *Database) ReplaceCastRefs(ctx context.Context, owner models.Identity, rows []models.MediaCast) error {
	err := d.db.WithContext(ctx).
		Delete(&models.MediaCast{}, "media_id = ? AND media_type = ? AND media_source = ?",
			owner.ID, owner.MediaType, owner.MediaSource).Error
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return d.db.WithContext(ctx).Create(&rows).Error
}

func (d *Database) ReplaceRecommendationRefs(ctx context.Context, owner models.Identity, rows []models.MediaRecommendation) error {
	err := d.db.WithContext(ctx).
		Delete(&models.MediaRecommendation{}, "source_id = ? AND source_type = ? AND source_origin = ?",
			owner.ID, owner.MediaType, owner.MediaSource).Error
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return d.db.WithContext(ctx).Create(&rows).Error
}

func (d *Database) ReplaceSimilarRefs(ctx context.Context, owner models.Identity, rows []models.MediaSimilar) error {
	err := d.db.WithContext(ctx).
		Delete(&models.MediaSimilar{}, "source_id = ? AND source_type = ? AND source_origin = ?",
			owner.ID, owner.MediaType, owner.MediaSource).Error
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return d.db.WithContext(ctx).Create(&rows).Error
}

// Category placement.

// UpsertCategoryRefs writes placement rows, replacing the position when a
// media item is already placed in the category.
func (d *Database) UpsertCategoryRefs(ctx context.Context, rows []models.MediaCategory) error {
	if len(rows) == 0 {
		return nil
	}
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
}

// ClearCategoryRefs removes every placement a category owns, done at the
// start of a full refresh.
func (d *Database) ClearCategoryRefs(ctx context.Context, categoryID int) error {
	return d.db.WithContext(ctx).
		Delete(&models.MediaCategory{}, "category_id = ?", categoryID).Error
}

// LastPositionInCategory returns the max placement position, or nil for
// an empty category. Append loads start at position+1.
func (d *Database) LastPositionInCategory(ctx context.Context, categoryID int) (*int, error) {
	var result struct {
		Max *int
	}
	err := d.db.WithContext(ctx).
		Model(&models.MediaCategory{}).
		Select("MAX(position_in_category) AS max").
		Where("category_id = ?", categoryID).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return result.Max, nil
}

// ListByCategory pages a category's media ordered by placement position.
// mediaType nil means all kinds.
func (d *Database) ListByCategory(ctx context.Context, categoryID int, mediaType *models.MediaType, limit, offset int) ([]models.Media, error) {
	query := d.db.WithContext(ctx).
		Model(&models.Media{}).
		Joins("INNER JOIN media_categories ON media_categories.media_id = media.id"+
			" AND media_categories.media_type = media.media_type"+
			" AND media_categories.media_source = media.media_source").
		Where("media_categories.category_id = ?", categoryID)
	if mediaType != nil {
		query = query.Where("media.media_type = ?", *mediaType)
	}
	var media []models.Media
	err := query.
		Order("media_categories.position_in_category ASC").
		Limit(limit).Offset(offset).
		Find(&media).Error
	return media, err
}

// SearchByTitle pages the local cache by title substring, most popular
// first. This is the paged view behind the search mediator.
func (d *Database) SearchByTitle(ctx context.Context, query string, mediaType *models.MediaType, limit, offset int) ([]models.Media, error) {
	q := d.db.WithContext(ctx).
		Model(&models.Media{}).
		Where("title LIKE ?", "%"+query+"%")
	if mediaType != nil {
		q = q.Where("media_type = ?", *mediaType)
	}
	var media []models.Media
	err := q.Order("popularity DESC").Limit(limit).Offset(offset).Find(&media).Error
	return media, err
}

// LocalFilter narrows a local paged read for discover views. Zero fields
// are ignored.
type LocalFilter struct {
	MediaType    *models.MediaType
	MinVote      *float32
	MinYearMilli *int64
	MaxYearMilli *int64
	IncludeAdult bool
	// A media column name from SortColumns; defaults to popularity.
	SortColumn string
}

// SortColumns are the media columns a LocalFilter may sort by. The
// filter's column is checked against this list before interpolation.
var SortColumns = map[string]struct{}{
	"popularity":   {},
	"vote_average": {},
	"vote_count":   {},
	"release_date": {},
	"revenue":      {},
	"runtime":      {},
}

// ListByFilter pages the local cache with a structured filter, the local
// view behind the discover mediator.
func (d *Database) ListByFilter(ctx context.Context, filter LocalFilter, limit, offset int) ([]models.Media, error) {
	q := d.db.WithContext(ctx).Model(&models.Media{})
	if filter.MediaType != nil {
		q = q.Where("media_type = ?", *filter.MediaType)
	}
	if filter.MinVote != nil {
		q = q.Where("vote_average >= ?", *filter.MinVote)
	}
	if filter.MinYearMilli != nil {
		q = q.Where("release_date >= ?", *filter.MinYearMilli)
	}
	if filter.MaxYearMilli != nil {
		q = q.Where("release_date <= ?", *filter.MaxYearMilli)
	}
	if !filter.IncludeAdult {
		q = q.Where("adult IS NULL OR adult = ?", false)
	}
	column := filter.SortColumn
	if _, ok := SortColumns[column]; !ok {
		column = "popularity"
	}
	var media []models.Media
	err := q.Order(fmt.Sprintf("%s DESC", column)).Limit(limit).Offset(offset).Find(&media).Error
	return media, err
}
