package routes

import (
	"strconv"
	"strings"

	"github.com/fcreyes/gingereasy/models"
	"github.com/fcreyes/gingereasy/storage"

	"github.com/kataras/iris/v12"
)

// ListListings handles the listing browse endpoint with multiple filters.
// Absent or empty parameters leave the query unconstrained.
func ListListings(ctx iris.Context) {
	q := storage.DB.Model(&models.Listing{})

	if search := strings.TrimSpace(ctx.URLParam("search")); search != "" {
		pattern := "%" + search + "%"
		q = q.Where(
			"lower(title) LIKE lower(?) OR lower(description) LIKE lower(?) OR lower(address) LIKE lower(?) OR lower(neighborhood) LIKE lower(?)",
			pattern, pattern, pattern, pattern)
	}

	if minPrice, err := ctx.URLParamFloat64("min_price"); err == nil && minPrice > 0 {
		q = q.Where("price >= ?", minPrice)
	}
	if maxPrice, err := ctx.URLParamFloat64("max_price"); err == nil && maxPrice > 0 {
		q = q.Where("price <= ?", maxPrice)
	}

	if neighborhood := strings.TrimSpace(ctx.URLParam("neighborhood")); neighborhood != "" {
		q = q.Where("lower(neighborhood) LIKE lower(?)", "%"+neighborhood+"%")
	}
	if listingType := strings.TrimSpace(ctx.URLParam("listing_type")); listingType != "" {
		q = q.Where("listing_type = ?", listingType)
	}
	if status := strings.TrimSpace(ctx.URLParam("status")); status != "" {
		q = q.Where("status = ?", status)
	}

	if minRooms, err := ctx.URLParamInt("min_rooms"); err == nil && minRooms > 0 {
		q = q.Where("num_rooms >= ?", minRooms)
	}

	if garden := ctx.URLParam("has_gumdrop_garden"); garden != "" {
		if hasGarden, err := strconv.ParseBool(garden); err == nil {
			q = q.Where("has_gumdrop_garden = ?", hasGarden)
		}
	}

	skip := ctx.URLParamIntDefault("skip", 0)
	limit := ctx.URLParamIntDefault("limit", 50)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	listings := make([]models.Listing, 0)
	if err := q.Order("created_at DESC").Offset(skip).Limit(limit).Find(&listings).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to search listings"})
		return
	}

	ctx.JSON(listings)
}
