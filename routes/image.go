package routes

import (
	"errors"
	"io"

	"github.com/fcreyes/gingereasy/storage"
	"github.com/fcreyes/gingereasy/utils"

	"github.com/kataras/iris/v12"
)

// GetImage proxies stored images through the API, for deployments where the
// S3/MinIO host is not publicly reachable.
func GetImage(ctx iris.Context) {
	params := ctx.Params()
	filename := params.Get("filename")

	object, contentType, err := storage.GetImage(ctx.Request().Context(), filename)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			utils.CreateError(iris.StatusNotFound, "Not Found", "Image not found.", ctx)
			return
		}
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to retrieve image.", ctx)
		return
	}
	defer object.Close()

	ctx.Header("Cache-Control", "public, max-age=31536000")
	ctx.ContentType(contentType)
	io.Copy(ctx.ResponseWriter(), object)
}
