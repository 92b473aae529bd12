package routes

import (
	"github.com/fcreyes/gingereasy/models"
	"github.com/fcreyes/gingereasy/storage"
	"github.com/fcreyes/gingereasy/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func CreateListing(ctx iris.Context) {
	var input ListingInput

	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	ownerID := claims.ID

	listing := models.Listing{
		Title:            input.Title,
		Description:      input.Description,
		Price:            input.Price,
		Address:          input.Address,
		Neighborhood:     input.Neighborhood,
		SquareFeet:       input.SquareFeet,
		NumRooms:         input.NumRooms,
		NumCandyCanes:    input.NumCandyCanes,
		HasGumdropGarden: input.HasGumdropGarden,
		FrostingType:     input.FrostingType,
		ListingType:      input.ListingType,
		Status:           input.Status,
		ImageURL:         input.ImageURL,
		OwnerID:          &ownerID,
	}

	if listing.ListingType == "" {
		listing.ListingType = "cottage"
	}
	if listing.Status == "" {
		listing.Status = "available"
	}

	if err := storage.DB.Create(&listing).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to create listing.", ctx)
		return
	}

	utils.Audit(ctx, "listing.create", "listing", listing.ID, nil, listing)
	invalidateNeighborhoodCache()

	ctx.JSON(listing)
}

func GetListing(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var listing models.Listing
	listingExists := storage.DB.Find(&listing, id)

	if listingExists.Error != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", listingExists.Error.Error(), ctx)
		return
	}
	if listingExists.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found.", ctx)
		return
	}

	ctx.JSON(listing)
}

// UpdateListing replaces the full listing record; partial updates are not
// supported on this endpoint.
func UpdateListing(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var listing models.Listing
	listingExists := storage.DB.Find(&listing, id)

	if listingExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if listingExists.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found.", ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if listing.OwnerID != nil && *listing.OwnerID != claims.ID {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Not authorized to edit this listing.", ctx)
		return
	}

	var input ListingInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := listing

	listing.Title = input.Title
	listing.Description = input.Description
	listing.Price = input.Price
	listing.Address = input.Address
	listing.Neighborhood = input.Neighborhood
	listing.SquareFeet = input.SquareFeet
	listing.NumRooms = input.NumRooms
	listing.NumCandyCanes = input.NumCandyCanes
	listing.HasGumdropGarden = input.HasGumdropGarden
	listing.FrostingType = input.FrostingType
	listing.ImageURL = input.ImageURL
	if input.ListingType != "" {
		listing.ListingType = input.ListingType
	}
	if input.Status != "" {
		listing.Status = input.Status
	}

	if err := storage.DB.Save(&listing).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to update listing.", ctx)
		return
	}

	utils.Audit(ctx, "listing.update", "listing", listing.ID, before, listing)
	invalidateNeighborhoodCache()

	ctx.JSON(listing)
}

func DeleteListing(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var listing models.Listing
	listingExists := storage.DB.Find(&listing, id)

	if listingExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if listingExists.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found.", ctx)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if listing.OwnerID != nil && *listing.OwnerID != claims.ID {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Not authorized to delete this listing.", ctx)
		return
	}

	listingDeleted := storage.DB.Delete(&models.Listing{}, id)
	if listingDeleted.Error != nil {
		utils.CreateError(
			iris.StatusInternalServerError,
			"Error", listingDeleted.Error.Error(), ctx)
		return
	}

	utils.Audit(ctx, "listing.delete", "listing", listing.ID, listing, nil)
	invalidateNeighborhoodCache()

	ctx.JSON(iris.Map{"message": "Listing deleted successfully"})
}

type ListingInput struct {
	Title            string  `json:"title" validate:"required,max=255"`
	Description      string  `json:"description"`
	Price            float64 `json:"price" validate:"required,gt=0"`
	Address          string  `json:"address" validate:"required,max=255"`
	Neighborhood     string  `json:"neighborhood" validate:"max=200"`
	SquareFeet       *int    `json:"square_feet" validate:"omitempty,gt=0"`
	NumRooms         *int    `json:"num_rooms" validate:"omitempty,gt=0"`
	NumCandyCanes    *int    `json:"num_candy_canes" validate:"omitempty,gte=0"`
	HasGumdropGarden bool    `json:"has_gumdrop_garden"`
	FrostingType     string  `json:"frosting_type" validate:"max=500"`
	ListingType      string  `json:"listing_type" validate:"omitempty,oneof=cottage mansion cabin castle townhouse"`
	Status           string  `json:"status" validate:"omitempty,oneof=available pending sold"`
	ImageURL         string  `json:"image_url" validate:"max=500"`
}
