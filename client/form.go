package client

import (
	"context"
	"strconv"
	"strings"

	"github.com/fcreyes/gingereasy/models"

	"golang.org/x/exp/slices"
)

type FormState int

const (
	FormIdle FormState = iota
	FormLoading
	FormEditing
	FormSubmitting
	FormDone
	FormError
)

// ListingForm drives the create/edit screen: it holds the draft as entered
// (strings, as form fields are), hydrates from the server when editing, and
// coerces to a typed payload only on submit.
type ListingForm struct {
	client  *Client
	session *Session

	state     FormState
	listingID uint

	// ErrMessage is the inline message shown next to the form; entered data
	// is kept on failure.
	ErrMessage string

	Title            string
	Description      string
	Price            string
	Address          string
	Neighborhood     string
	SquareFeet       string
	NumRooms         string
	NumCandyCanes    string
	HasGumdropGarden bool
	FrostingType     string
	ListingType      string
	Status           string
	ImageURL         string
}

// NewListingForm returns a create-mode form with the API's defaults.
func NewListingForm(c *Client, s *Session) *ListingForm {
	return &ListingForm{
		client:      c,
		session:     s,
		state:       FormEditing,
		ListingType: "cottage",
		Status:      "available",
	}
}

func (f *ListingForm) State() FormState { return f.state }

// ListingID returns the bound listing id, 0 in create mode.
func (f *ListingForm) ListingID() uint { return f.listingID }

// Load switches the form to edit mode, hydrating the draft from the server.
// A missing listing leaves the form in FormError.
func (f *ListingForm) Load(ctx context.Context, id uint) error {
	f.state = FormLoading

	listing, err := f.client.GetListing(ctx, id)
	if err != nil {
		f.state = FormError
		f.ErrMessage = err.Error()
		return err
	}

	f.listingID = listing.ID
	f.Title = listing.Title
	f.Description = listing.Description
	f.Price = strconv.FormatFloat(listing.Price, 'f', -1, 64)
	f.Address = listing.Address
	f.Neighborhood = listing.Neighborhood
	f.SquareFeet = formatOptionalInt(listing.SquareFeet)
	f.NumRooms = formatOptionalInt(listing.NumRooms)
	f.NumCandyCanes = formatOptionalInt(listing.NumCandyCanes)
	f.HasGumdropGarden = listing.HasGumdropGarden
	f.FrostingType = listing.FrostingType
	f.ListingType = listing.ListingType
	f.Status = listing.Status
	f.ImageURL = listing.ImageURL

	f.state = FormEditing
	f.ErrMessage = ""
	return nil
}

// Submit coerces the draft and dispatches create (no bound id) or full
// replace (bound id). Validation failures never reach the network; save
// failures return the form to editing with the message attached.
func (f *ListingForm) Submit(ctx context.Context) (*models.Listing, error) {
	if f.state != FormEditing {
		return nil, &ValidationError{Message: "Form is not ready to submit."}
	}

	payload, err := f.payload()
	if err != nil {
		f.ErrMessage = err.Error()
		return nil, err
	}

	f.state = FormSubmitting

	var listing *models.Listing
	var saveErr error
	if f.listingID == 0 {
		listing, saveErr = f.client.CreateListing(ctx, f.session.Token(), payload)
	} else {
		listing, saveErr = f.client.UpdateListing(ctx, f.session.Token(), f.listingID, payload)
	}

	if saveErr != nil {
		f.state = FormEditing
		f.ErrMessage = saveErr.Error()
		return nil, saveErr
	}

	f.listingID = listing.ID
	f.state = FormDone
	f.ErrMessage = ""
	return listing, nil
}

// payload coerces the string draft into the typed write shape.
func (f *ListingForm) payload() (ListingPayload, error) {
	var payload ListingPayload

	title := strings.TrimSpace(f.Title)
	if title == "" {
		return payload, &ValidationError{Field: "title", Message: "Title is required."}
	}

	priceStr := strings.TrimSpace(f.Price)
	if priceStr == "" {
		return payload, &ValidationError{Field: "price", Message: "Price is required."}
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return payload, &ValidationError{Field: "price", Message: "Price must be a number."}
	}
	if price <= 0 {
		return payload, &ValidationError{Field: "price", Message: "Price must be greater than zero."}
	}

	address := strings.TrimSpace(f.Address)
	if address == "" {
		return payload, &ValidationError{Field: "address", Message: "Address is required."}
	}

	if f.ListingType != "" && !slices.Contains(models.ListingTypes, f.ListingType) {
		return payload, &ValidationError{
			Field:   "listing_type",
			Message: "Must be one of: " + strings.Join(models.ListingTypes, ", "),
		}
	}
	if f.Status != "" && !slices.Contains(models.ListingStatuses, f.Status) {
		return payload, &ValidationError{
			Field:   "status",
			Message: "Must be one of: " + strings.Join(models.ListingStatuses, ", "),
		}
	}

	squareFeet, err := parseOptionalInt("square_feet", f.SquareFeet)
	if err != nil {
		return payload, err
	}
	numRooms, err := parseOptionalInt("num_rooms", f.NumRooms)
	if err != nil {
		return payload, err
	}
	numCandyCanes, err := parseOptionalInt("num_candy_canes", f.NumCandyCanes)
	if err != nil {
		return payload, err
	}

	payload = ListingPayload{
		Title:            title,
		Description:      f.Description,
		Price:            price,
		Address:          address,
		Neighborhood:     f.Neighborhood,
		SquareFeet:       squareFeet,
		NumRooms:         numRooms,
		NumCandyCanes:    numCandyCanes,
		HasGumdropGarden: f.HasGumdropGarden,
		FrostingType:     f.FrostingType,
		ListingType:      f.ListingType,
		Status:           f.Status,
		ImageURL:         f.ImageURL,
	}
	return payload, nil
}

// parseOptionalInt maps a blank field to nil, never to zero or NaN.
func parseOptionalInt(field, value string) (*int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: "Must be a whole number."}
	}
	return &n, nil
}

func formatOptionalInt(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}
