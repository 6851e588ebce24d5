package document

import (
	"net/http"

	"plmgate/bizerror"

	"github.com/gin-gonic/gin"
)

var (
	PathDrawings = "/v1/drawings"
)

func RegisterDrawingsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathDrawings, middleWares...)
	g.POST("", handleUploadDrawing)
	g.GET(":id", handleDetailDrawing)
	g.GET(":id/content", handleDownloadDrawing)
	g.DELETE(":id", handleDeleteDrawing)
}

// handleUploadDrawing accepts a multipart form: the drawing bytes under
// "file" plus metadata fields.
func handleUploadDrawing(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	creation := DrawingCreation{
		Name:     c.PostForm("name"),
		FileName: fileHeader.Filename,
		PartID:   c.PostForm("partId"),
	}
	if creation.Name == "" {
		creation.Name = fileHeader.Filename
	}

	file, err := fileHeader.Open()
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	defer file.Close()

	record, err := UploadDrawingFunc(c.Request.Context(), creation, file)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDetailDrawing(c *gin.Context) {
	record, err := DetailDrawingFunc(c.Request.Context(), c.Param("id"))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDownloadDrawing(c *gin.Context) {
	content, err := DownloadDrawingFunc(c.Request.Context(), c.Param("id"))
	if err != nil {
		panic(err)
	}
	c.Data(http.StatusOK, "application/octet-stream", content)
}

func handleDeleteDrawing(c *gin.Context) {
	if err := DeleteDrawingFunc(c.Request.Context(), c.Param("id")); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
