package routes

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/fcreyes/gingereasy/storage"
	"github.com/fcreyes/gingereasy/utils"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
)

// maxUploadSize caps image uploads at 10 MiB.
const maxUploadSize = 10 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// UploadImage accepts a multipart image, stores it in S3/MinIO and returns
// the public URL the listing should reference.
func UploadImage(ctx iris.Context) {
	file, header, err := ctx.FormFile("file")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Upload Error", "A file field named 'file' is required.", ctx)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !slices.Contains(allowedImageTypes, contentType) {
		utils.CreateError(iris.StatusBadRequest, "Upload Error",
			"Invalid file type. Allowed types: "+strings.Join(allowedImageTypes, ", "), ctx)
		return
	}

	if header.Size > maxUploadSize {
		utils.CreateError(iris.StatusBadRequest, "Upload Error", "File too large. Maximum size is 10 MiB.", ctx)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if len(data) > maxUploadSize {
		utils.CreateError(iris.StatusBadRequest, "Upload Error", "File too large. Maximum size is 10 MiB.", ctx)
		return
	}

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	filename := uuid.New().String() + ext

	url, uploadErr := storage.UploadImage(ctx.Request().Context(), filename, contentType, data)
	if uploadErr != nil {
		utils.CreateError(iris.StatusInternalServerError, "Upload Error", "Failed to upload image.", ctx)
		return
	}

	ctx.JSON(iris.Map{
		"url":      url,
		"filename": filename,
	})
}
