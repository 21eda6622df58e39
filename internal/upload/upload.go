// Package upload ingests base64-encoded evidence files into the object store
// and returns their storage reference.
package upload

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/autosettled/claims-agent/internal/httpx"
	"github.com/autosettled/claims-agent/internal/objectstore"
	"github.com/autosettled/claims-agent/internal/validate"
)

// Putter stores an object and returns its s3:// URI.
type Putter interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Handler accepts file ingestion requests.
type Handler struct {
	Objects Putter
	Bucket  string
	Now     func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type uploadRequest struct {
	FileContent string `json:"fileContent"`
	FileName    string `json:"fileName"`
	Folder      string `json:"folder"`
	ContentType string `json:"contentType"`
}

type uploadResponse struct {
	URI     string `json:"uri"`
	Bucket  string `json:"bucket"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Handle decodes the upload, validates it and stores it under
// <folder>/<timestamp>_<name>.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.RequestContext.HTTP.Method == "OPTIONS" {
		return httpx.Preflight()
	}

	body := req.Body
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return httpx.Error(400, "invalid request encoding")
		}
		body = string(decoded)
	}

	var in uploadRequest
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return httpx.Error(400, "invalid json")
	}
	if in.FileContent == "" {
		return httpx.Error(400, "fileContent is required")
	}
	if in.FileName == "" {
		in.FileName = "file_" + uuid.NewString()
	}
	if in.Folder == "" {
		in.Folder = "uploads"
	}
	if in.ContentType == "" {
		in.ContentType = "application/octet-stream"
	}

	if err := validate.FolderOK(in.Folder); err != nil {
		return httpx.Error(400, err.Error())
	}
	if err := validate.FileNameOK(in.FileName); err != nil {
		return httpx.Error(400, err.Error())
	}
	if err := validate.ContentTypeOK(in.ContentType); err != nil {
		return httpx.Error(400, err.Error())
	}

	data, err := base64.StdEncoding.DecodeString(in.FileContent)
	if err != nil {
		return httpx.Error(400, "fileContent is not valid base64")
	}
	if err := validate.SizeOK(len(data)); err != nil {
		return httpx.Error(400, err.Error())
	}

	key := objectstore.UploadKey(in.Folder, in.FileName, h.now())
	uri, err := h.Objects.Put(ctx, key, data, in.ContentType)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("upload failed")
		return httpx.Error(500, err.Error())
	}

	return httpx.JSON(200, uploadResponse{
		URI:     uri,
		Bucket:  h.Bucket,
		Key:     key,
		Message: "File uploaded successfully",
	})
}
