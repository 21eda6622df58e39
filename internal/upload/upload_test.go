package upload

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

type fakePutter struct {
	key  string
	body []byte
	ct   string
	err  error
}

func (f *fakePutter) Put(_ context.Context, key string, body []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key, f.body, f.ct = key, body, contentType
	return "s3://claims-bucket/" + key, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 8, 29, 12, 30, 45, 0, time.UTC)
}

func uploadReq(body string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		Body: body,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: "POST", Path: "/file/upload"},
		},
	}
}

func TestUpload(t *testing.T) {
	putter := &fakePutter{}
	h := &Handler{Objects: putter, Bucket: "claims-bucket", Now: fixedNow}

	content := base64.StdEncoding.EncodeToString([]byte("jpeg bytes"))
	body, _ := json.Marshal(map[string]string{
		"fileContent": content,
		"fileName":    "crash.jpg",
		"folder":      "damage-images",
		"contentType": "image/jpeg",
	})

	resp, err := h.Handle(context.Background(), uploadReq(string(body)))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
	}

	var out struct {
		URI     string `json:"uri"`
		Bucket  string `json:"bucket"`
		Key     string `json:"key"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatalf("body: %v", err)
	}
	if out.Key != "damage-images/20260829_123045_crash.jpg" {
		t.Fatalf("key = %q", out.Key)
	}
	if out.URI != "s3://claims-bucket/"+out.Key {
		t.Fatalf("uri = %q", out.URI)
	}
	if out.Message != "File uploaded successfully" {
		t.Fatalf("message = %q", out.Message)
	}
	if string(putter.body) != "jpeg bytes" || putter.ct != "image/jpeg" {
		t.Fatalf("stored %q as %q", putter.body, putter.ct)
	}
}

func TestUploadBase64EncodedEnvelope(t *testing.T) {
	putter := &fakePutter{}
	h := &Handler{Objects: putter, Bucket: "claims-bucket", Now: fixedNow}

	content := base64.StdEncoding.EncodeToString([]byte("pdf bytes"))
	body, _ := json.Marshal(map[string]string{
		"fileContent": content,
		"fileName":    "report.pdf",
		"folder":      "claim-documents",
		"contentType": "application/pdf",
	})
	req := uploadReq(base64.StdEncoding.EncodeToString(body))
	req.IsBase64Encoded = true

	resp, err := h.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
	}
	if string(putter.body) != "pdf bytes" {
		t.Fatalf("stored %q", putter.body)
	}
}

func TestUploadDefaults(t *testing.T) {
	putter := &fakePutter{}
	h := &Handler{Objects: putter, Bucket: "claims-bucket", Now: fixedNow}

	content := base64.StdEncoding.EncodeToString([]byte("data"))
	body, _ := json.Marshal(map[string]string{"fileContent": content})

	resp, err := h.Handle(context.Background(), uploadReq(string(body)))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
	}
	if !strings.HasPrefix(putter.key, "uploads/20260829_123045_file_") {
		t.Fatalf("key = %q", putter.key)
	}
	if putter.ct != "application/octet-stream" {
		t.Fatalf("content type = %q", putter.ct)
	}
}

func TestUploadRejections(t *testing.T) {
	h := &Handler{Objects: &fakePutter{}, Bucket: "claims-bucket", Now: fixedNow}
	content := base64.StdEncoding.EncodeToString([]byte("data"))

	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing content", map[string]string{"fileName": "a.jpg"}},
		{"bad base64", map[string]string{"fileContent": "not base64!!"}},
		{"bad folder", map[string]string{"fileContent": content, "folder": "../etc"}},
		{"bad file name", map[string]string{"fileContent": content, "fileName": "../x"}},
		{"bad content type", map[string]string{"fileContent": content, "contentType": "application/x-msdownload"}},
	}
	for _, c := range cases {
		body, _ := json.Marshal(c.body)
		resp, err := h.Handle(context.Background(), uploadReq(string(body)))
		if err != nil {
			t.Fatalf("%s: handle: %v", c.name, err)
		}
		if resp.StatusCode != 400 {
			t.Errorf("%s: status = %d, body = %s", c.name, resp.StatusCode, resp.Body)
		}
	}
}

func TestUploadPreflight(t *testing.T) {
	h := &Handler{Objects: &fakePutter{}, Bucket: "claims-bucket", Now: fixedNow}
	req := uploadReq("")
	req.RequestContext.HTTP.Method = "OPTIONS"

	resp, err := h.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
