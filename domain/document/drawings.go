package document

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"

	"plmgate/bizerror"
	"plmgate/client/oss"
	"plmgate/client/plm"

	aliyunoss "github.com/aliyun/aliyun-oss-go-sdk/oss"
)

var (
	EntityName = "Drawing"

	UploadDrawingFunc   = UploadDrawing
	DetailDrawingFunc   = DetailDrawing
	DownloadDrawingFunc = DownloadDrawing
	DeleteDrawingFunc   = DeleteDrawing
)

type DrawingCreation struct {
	Name     string `json:"name" binding:"required,lte=255"`
	FileName string `json:"fileName"`
	PartID   string `json:"partId"`
}

// Drawing is the metadata record of an uploaded drawing file. The bytes
// themselves live in object storage under the record's id.
type Drawing struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	FileName string         `json:"fileName,omitempty"`
	Part     *plm.Reference `json:"part"`
	Size     int64          `json:"size"`
}

func detailOf(record plm.Entity) (*Drawing, error) {
	partRef, err := record.Reference("part")
	if err != nil {
		return nil, err
	}
	return &Drawing{
		ID:       record.ID(),
		Name:     record.StringField("name"),
		FileName: record.StringField("fileName"),
		Part:     partRef,
		Size:     record.Int64Field("size"),
	}, nil
}

func objectKey(id string) string {
	return "drawings/" + id
}

// UploadDrawing stores the file bytes in object storage and registers the
// metadata record on the backend. The metadata write happens first so a
// storage failure leaves no unreachable object behind.
func UploadDrawing(ctx context.Context, creation DrawingCreation, r io.Reader) (*Drawing, error) {
	content, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	params := map[string]interface{}{
		"name": creation.Name,
		"size": len(content),
	}
	if creation.FileName != "" {
		params["fileName"] = creation.FileName
	}
	if creation.PartID != "" {
		params["part"] = plm.EncodeReference(&plm.Reference{ID: creation.PartID})
	}

	record, err := plm.ActiveGateway.Create(ctx, EntityName, params)
	if err != nil {
		return nil, err
	}
	detail, err := detailOf(record)
	if err != nil {
		return nil, err
	}

	if err := oss.PutObjectFunc(ctx, objectKey(detail.ID), bytes.NewReader(content)); err != nil {
		return nil, err
	}
	return detail, nil
}

func DetailDrawing(ctx context.Context, id string) (*Drawing, error) {
	record, err := plm.ActiveGateway.GetByID(ctx, EntityName, id)
	if err != nil {
		return nil, err
	}
	return detailOf(record)
}

func DownloadDrawing(ctx context.Context, id string) ([]byte, error) {
	r, err := oss.GetObjectFunc(ctx, objectKey(id))
	if err != nil {
		if serErr, ok := err.(aliyunoss.ServiceError); ok && serErr.Code == "NoSuchKey" {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	defer r.Close()
	return ioutil.ReadAll(r)
}

// DeleteDrawing removes the metadata record. The stored object stays: the
// backend may still hold references from released part versions.
func DeleteDrawing(ctx context.Context, id string) error {
	return plm.ActiveGateway.Delete(ctx, EntityName, id)
}
