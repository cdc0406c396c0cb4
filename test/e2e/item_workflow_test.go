//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/stockroomhq/stockroom-be/internal/adapters/memory"
	"github.com/stockroomhq/stockroom-be/internal/adapters/storage"
	"github.com/stockroomhq/stockroom-be/internal/core/domain"
	"github.com/stockroomhq/stockroom-be/internal/core/services"
	"github.com/stockroomhq/stockroom-be/internal/handlers"
	"github.com/stockroomhq/stockroom-be/test/helpers"
)

type ItemWorkflowSuite struct {
	suite.Suite
	server  *httptest.Server
	client  *http.Client
	baseURL string
}

func (s *ItemWorkflowSuite) SetupSuite() {
	logger := helpers.TestLogger()

	photos, err := storage.NewDiskPhotoStore(s.T().TempDir(), logger)
	s.Require().NoError(err)

	repo := memory.NewItemRepository()
	service := services.NewItemService(repo, photos, logger)
	itemHandler := handlers.NewItemHandler(service, logger, 32<<20)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", itemHandler.Register)
	mux.HandleFunc("GET /inventory", itemHandler.ListItems)
	mux.HandleFunc("GET /inventory/{id}", itemHandler.GetItem)
	mux.HandleFunc("PUT /inventory/{id}", itemHandler.UpdateItem)
	mux.HandleFunc("DELETE /inventory/{id}", itemHandler.DeleteItem)
	mux.HandleFunc("GET /inventory/{id}/photo", itemHandler.GetPhoto)
	mux.HandleFunc("PUT /inventory/{id}/photo", itemHandler.ReplacePhoto)
	mux.HandleFunc("GET /search", itemHandler.Search)
	mux.HandleFunc("POST /search", itemHandler.Search)
	mux.HandleFunc("/", handlers.NotFound)

	s.server = httptest.NewServer(mux)
	s.client = &http.Client{Timeout: 10 * time.Second}
	s.baseURL = s.server.URL
}

func (s *ItemWorkflowSuite) TearDownSuite() {
	s.server.Close()
}

func (s *ItemWorkflowSuite) TestCompleteItemWorkflow() {
	// 1. Register an item with a photo
	id := s.registerItem("E2E Test Item", "Item created in the workflow test", []byte("original-photo"))

	// 2. Fetch it back
	var item domain.Item
	resp := s.doRequest("GET", "/inventory/"+id, nil, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decodeJSON(resp, &item)
	s.Equal("E2E Test Item", item.Name)
	s.Equal("Item created in the workflow test", item.Description)
	s.NotNil(item.Photo)

	// 3. It shows up in the listing
	var items []domain.Item
	resp = s.doRequest("GET", "/inventory", nil, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.decodeJSON(resp, &items)
	s.Len(items, 1)

	// 4. Photo round trip
	resp = s.doRequest("GET", "/inventory/"+id+"/photo", nil, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("image/jpeg", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	s.NoError(err)
	s.Equal([]byte("original-photo"), body)

	// 5. Partial update
	resp = s.doRequest("PUT", "/inventory/"+id,
		strings.NewReader(`{"description":"Updated in the workflow test"}`), "application/json")
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.doRequest("GET", "/inventory/"+id, nil, "")
	s.decodeJSON(resp, &item)
	s.Equal("E2E Test Item", item.Name)
	s.Equal("Updated in the workflow test", item.Description)

	// 6. No-op update keeps the item as is
	resp = s.doRequest("PUT", "/inventory/"+id, strings.NewReader(`{}`), "application/json")
	s.Equal(http.StatusOK, resp.StatusCode)
	var noop struct {
		Message string `json:"message"`
	}
	s.decodeJSON(resp, &noop)
	s.Equal("No changes requested", noop.Message)

	// 7. Replace the photo and read the new bytes back
	s.replacePhoto(id, []byte("replacement-photo"))
	resp = s.doRequest("GET", "/inventory/"+id+"/photo", nil, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	s.NoError(err)
	s.Equal([]byte("replacement-photo"), body)

	// 8. Search, with and without the photo link
	resp = s.doRequest("GET", "/search?id="+id+"&includePhoto=true", nil, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	s.Contains(string(body), "Name: E2E Test Item")
	s.Contains(string(body), "Photo: /inventory/"+id+"/photo")

	// 9. Delete and verify everything is gone
	resp = s.doRequest("DELETE", "/inventory/"+id, nil, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.doRequest("GET", "/inventory/"+id, nil, "")
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = s.doRequest("GET", "/inventory/"+id+"/photo", nil, "")
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *ItemWorkflowSuite) TestUnknownRouteFallsThroughToPlainText404() {
	resp := s.doRequest("GET", "/definitely/not/a/route", nil, "")
	s.Equal(http.StatusNotFound, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	s.Equal("Not Found", string(body))
}

func (s *ItemWorkflowSuite) registerItem(name, description string, photo []byte) string {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	s.Require().NoError(writer.WriteField("name", name))
	s.Require().NoError(writer.WriteField("description", description))
	if photo != nil {
		part, err := writer.CreateFormFile("photo", "photo.jpg")
		s.Require().NoError(err)
		_, err = part.Write(photo)
		s.Require().NoError(err)
	}
	s.Require().NoError(writer.Close())

	resp := s.doRequest("POST", "/register", &buf, writer.FormDataContentType())
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	s.decodeJSON(resp, &created)
	s.Require().NotEmpty(created.ID)
	return created.ID
}

func (s *ItemWorkflowSuite) replacePhoto(id string, photo []byte) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("photo", "replacement.png")
	s.Require().NoError(err)
	_, err = part.Write(photo)
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	resp := s.doRequest("PUT", "/inventory/"+id+"/photo", &buf, writer.FormDataContentType())
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func (s *ItemWorkflowSuite) doRequest(method, path string, body io.Reader, contentType string) *http.Response {
	req, err := http.NewRequest(method, s.baseURL+path, body)
	s.Require().NoError(err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err, fmt.Sprintf("%s %s failed", method, path))
	return resp
}

func (s *ItemWorkflowSuite) decodeJSON(resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

func TestItemWorkflowSuite(t *testing.T) {
	suite.Run(t, new(ItemWorkflowSuite))
}
