package handler

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"strings"

	"blogapi/blob"
	"blogapi/domain"

	"github.com/aws/aws-lambda-go/events"
)

const maxFormMemory = 10 << 20

// postForm is the multipart body of PUT /posts. Blank fields count as absent;
// Message is otherwise kept exactly as sent.
type postForm struct {
	ID      string
	Message string
	Image   *blob.Image
}

func requestBody(req events.APIGatewayProxyRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}
	body, err := base64.StdEncoding.DecodeString(req.Body)
	if err != nil {
		return nil, domain.MalformedRequest("body is not valid base64")
	}
	return body, nil
}

func parsePostForm(req events.APIGatewayProxyRequest) (postForm, error) {
	var form postForm
	body, err := requestBody(req)
	if err != nil {
		return form, err
	}
	mediaType, params, err := mime.ParseMediaType(header(req.Headers, "Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		return form, domain.MalformedRequest("body must be multipart form data")
	}
	mf, err := multipart.NewReader(bytes.NewReader(body), params["boundary"]).ReadForm(maxFormMemory)
	if err != nil {
		return form, domain.MalformedRequest("malformed multipart body: %v", err)
	}
	defer mf.RemoveAll()

	form.ID = strings.TrimSpace(first(mf.Value["id"]))
	if msg := first(mf.Value["message"]); strings.TrimSpace(msg) != "" {
		form.Message = msg
	}
	if files := mf.File["image"]; len(files) > 0 && files[0].Size > 0 {
		fh := files[0]
		f, err := fh.Open()
		if err != nil {
			return form, err
		}
		defer f.Close()
		content, err := io.ReadAll(f)
		if err != nil {
			return form, err
		}
		form.Image = &blob.Image{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     content,
		}
	}
	return form, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
