package routes

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fcreyes/gingereasy/models"
	"github.com/fcreyes/gingereasy/storage"
	"github.com/fcreyes/gingereasy/utils"

	"github.com/kataras/iris/v12"
)

const neighborhoodCacheKey = "neighborhoods"

var bgContext = context.Background()

// GetNeighborhoods lists the distinct neighborhoods that appear on listings,
// served through a short-lived redis cache.
func GetNeighborhoods(ctx iris.Context) {
	if cached := cachedNeighborhoods(); cached != nil {
		ctx.JSON(cached)
		return
	}

	neighborhoods := make([]string, 0)
	err := storage.DB.Model(&models.Listing{}).
		Where("neighborhood <> ''").
		Distinct().
		Order("neighborhood ASC").
		Pluck("neighborhood", &neighborhoods).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	cacheNeighborhoods(neighborhoods)
	ctx.JSON(neighborhoods)
}

func cachedNeighborhoods() []string {
	if storage.Redis == nil {
		return nil
	}
	raw, err := storage.Redis.Get(bgContext, neighborhoodCacheKey).Result()
	if err != nil {
		return nil
	}
	var neighborhoods []string
	if err := json.Unmarshal([]byte(raw), &neighborhoods); err != nil {
		return nil
	}
	return neighborhoods
}

func cacheNeighborhoods(neighborhoods []string) {
	if storage.Redis == nil {
		return
	}
	raw, err := json.Marshal(neighborhoods)
	if err != nil {
		return
	}
	storage.Redis.Set(bgContext, neighborhoodCacheKey, raw, 5*time.Minute)
}

// invalidateNeighborhoodCache drops the cached neighborhood list after a
// listing write so new neighborhoods show up without waiting out the TTL.
func invalidateNeighborhoodCache() {
	if storage.Redis == nil {
		return
	}
	storage.Redis.Del(bgContext, neighborhoodCacheKey)
}
