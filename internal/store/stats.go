package store

import (
	"context"

	"github.com/ghost/mediabolt/internal/models"
)

// Stats summarizes the cache for the status endpoint.
type Stats struct {
	TotalMedia int64
	Complete   int64
	Feeds      int64
	ByType     map[string]int64
	BySource   map[string]int64
}

// Stats counts cached rows by kind and provider plus the number of live
// feed cursors.
func (d *Database) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		ByType:   make(map[string]int64),
		BySource: make(map[string]int64),
	}

	if err := d.db.WithContext(ctx).Model(&models.Media{}).Count(&stats.TotalMedia).Error; err != nil {
		return nil, err
	}
	if err := d.db.WithContext(ctx).Model(&models.Media{}).
		Where("detail_fetched_at IS NOT NULL").Count(&stats.Complete).Error; err != nil {
		return nil, err
	}
	if err := d.db.WithContext(ctx).Model(&models.RemoteKey{}).Count(&stats.Feeds).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byType []bucket
	if err := d.db.WithContext(ctx).Model(&models.Media{}).
		Select("media_type AS key, COUNT(*) AS count").
		Group("media_type").Scan(&byType).Error; err != nil {
		return nil, err
	}
	for _, b := range byType {
		stats.ByType[b.Key] = b.Count
	}

	var bySource []bucket
	if err := d.db.WithContext(ctx).Model(&models.Media{}).
		Select("media_source AS key, COUNT(*) AS count").
		Group("media_source").Scan(&bySource).Error; err != nil {
		return nil, err
	}
	for _, b := range bySource {
		stats.BySource[b.Key] = b.Count
	}

	return stats, nil
}
