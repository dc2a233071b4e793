package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"cruxlog/auth"
	"cruxlog/ingest"
	"cruxlog/models"
	"cruxlog/registry"
	"cruxlog/store"
	"cruxlog/transcode"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cruxlog-routes-test")
	if err != nil {
		panic(err)
	}
	if err := store.Init(filepath.Join(dir, "test.db")); err != nil {
		panic(err)
	}

	code := m.Run()

	store.Close()
	os.RemoveAll(dir)
	os.Exit(code)
}

func registerAndLogin(t *testing.T, username string) (*models.User, string) {
	t.Helper()
	hash, err := auth.HashPassword("GoodPass1")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user, err := store.CreateUser(username, hash)
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	token, err := auth.Login(username, "GoodPass1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return user, token
}

func TestRegisterHandler(t *testing.T) {
	body := `{"username":"routeuser1","password":"GoodPass1"}`
	r := httptest.NewRequest("POST", "/register", strings.NewReader(body))
	w := httptest.NewRecorder()
	RegisterHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	user, err := store.GetUserByName("routeuser1")
	if err != nil || user == nil {
		t.Fatalf("User not created: %v", err)
	}
	if user.HashedPassword == "GoodPass1" {
		t.Error("Password stored in plaintext")
	}
}

func TestRegisterHandlerWeakPassword(t *testing.T) {
	body := `{"username":"routeuser2","password":"weak"}`
	r := httptest.NewRequest("POST", "/register", strings.NewReader(body))
	w := httptest.NewRecorder()
	RegisterHandler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for weak password, got %d", w.Code)
	}
}

func TestRegisterHandlerDuplicate(t *testing.T) {
	body := `{"username":"routeuser3","password":"GoodPass1"}`
	r := httptest.NewRequest("POST", "/register", strings.NewReader(body))
	RegisterHandler(httptest.NewRecorder(), r)

	r = httptest.NewRequest("POST", "/register", strings.NewReader(body))
	w := httptest.NewRecorder()
	RegisterHandler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for duplicate username, got %d", w.Code)
	}
}

func TestRegisterHandlerMethodGate(t *testing.T) {
	r := httptest.NewRequest("GET", "/register", nil)
	w := httptest.NewRecorder()
	RegisterHandler(w, r)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
}

func TestTokenHandler(t *testing.T) {
	registerAndLogin(t, "tokenuser1")

	form := "username=tokenuser1&password=GoodPass1"
	r := httptest.NewRequest("POST", "/token", strings.NewReader(form))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	TokenHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp tokenResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.AccessToken == "" || resp.TokenType != "bearer" {
		t.Errorf("Unexpected token response: %+v", resp)
	}
}

func TestTokenHandlerBadCredentials(t *testing.T) {
	form := "username=no-such-user&password=GoodPass1"
	r := httptest.NewRequest("POST", "/token", strings.NewReader(form))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	TokenHandler(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
	if w.Header().Get("WWW-Authenticate") == "" {
		t.Error("Expected WWW-Authenticate header on 401")
	}
}

func TestMeHandlerRequiresAuth(t *testing.T) {
	r := httptest.NewRequest("GET", "/users/me", nil)
	w := httptest.NewRecorder()
	MeHandler(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}
}

func TestMeHandler(t *testing.T) {
	_, token := registerAndLogin(t, "meuser1")

	r := httptest.NewRequest("GET", "/users/me", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	MeHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var user models.User
	if err := json.NewDecoder(w.Body).Decode(&user); err != nil {
		t.Fatalf("Failed to decode user: %v", err)
	}
	if user.Username != "meuser1" {
		t.Errorf("Expected meuser1, got %s", user.Username)
	}
	if strings.Contains(w.Body.String(), "GoodPass1") {
		t.Error("Response leaked the password")
	}
}

func TestCreateRouteIgnoresBodyOwnership(t *testing.T) {
	user, token := registerAndLogin(t, "climbuser1")

	// The body claims someone else's user id; the token wins.
	body := `{"user_id":99999,"gym_name":"Boulder Barn","difficulty":"V4","characteristics":["crimpy"]}`
	r := httptest.NewRequest("POST", "/routes", strings.NewReader(body))
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	CreateRouteHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var route models.Route
	if err := json.NewDecoder(w.Body).Decode(&route); err != nil {
		t.Fatalf("Failed to decode route: %v", err)
	}
	if route.UserID != user.ID {
		t.Errorf("Route owner should come from the token: got %d, want %d", route.UserID, user.ID)
	}
	if route.ID == 0 {
		t.Error("Expected assigned route id")
	}
}

func multipartUpload(t *testing.T, routeID string, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if routeID != "" {
		if err := mw.WriteField("route_id", routeID); err != nil {
			t.Fatalf("Failed to write field: %v", err)
		}
	}
	fw, err := mw.CreateFormFile("video", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	fw.Write([]byte(content))
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadFlow(t *testing.T) {
	user, token := registerAndLogin(t, "uploaduser1")

	route := &models.Route{UserID: user.ID, GymName: "Crux Cave", Difficulty: "V6"}
	if err := store.InsertRoute(route); err != nil {
		t.Fatalf("Failed to insert route: %v", err)
	}

	worker := &transcode.Worker{
		Transcode: func(ctx context.Context, input, output string) error {
			return os.WriteFile(output, []byte("compressed"), 0644)
		},
	}
	UseIngestor(&ingest.Ingestor{VideosDir: t.TempDir(), Worker: worker})

	body, contentType := multipartUpload(t, formatID(route.ID), "send.mp4", "raw clip bytes")
	r := httptest.NewRequest("POST", "/upload", body)
	r.Header.Set("Content-Type", contentType)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	UploadHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp uploadResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.VideoID == 0 {
		t.Fatal("Expected video id in response")
	}
	worker.Wait()
	defer registry.Remove(resp.VideoID)

	video, err := store.GetVideo(resp.VideoID)
	if err != nil || video == nil {
		t.Fatalf("Video record missing: %v", err)
	}
	if !video.Completed {
		t.Errorf("Expected completed video, got %+v", video)
	}

	updated, err := store.GetRoute(route.ID)
	if err != nil {
		t.Fatalf("Failed to reload route: %v", err)
	}
	if updated.VideoID != resp.VideoID {
		t.Errorf("Route not linked to video: got %d, want %d", updated.VideoID, resp.VideoID)
	}
}

func TestUploadRejectsForeignRoute(t *testing.T) {
	owner, _ := registerAndLogin(t, "owneruser1")
	_, intruderToken := registerAndLogin(t, "intruder1")

	route := &models.Route{UserID: owner.ID, GymName: "Private Wall"}
	if err := store.InsertRoute(route); err != nil {
		t.Fatalf("Failed to insert route: %v", err)
	}

	UseIngestor(&ingest.Ingestor{VideosDir: t.TempDir(), Worker: &transcode.Worker{
		Transcode: func(ctx context.Context, input, output string) error { return nil },
	}})

	body, contentType := multipartUpload(t, formatID(route.ID), "send.mp4", "clip")
	r := httptest.NewRequest("POST", "/upload", body)
	r.Header.Set("Content-Type", contentType)
	r.Header.Set("Authorization", "Bearer "+intruderToken)
	w := httptest.NewRecorder()
	UploadHandler(w, r)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for foreign route, got %d", w.Code)
	}
}

func TestUploadMissingFile(t *testing.T) {
	user, token := registerAndLogin(t, "nofileuser1")

	route := &models.Route{UserID: user.ID, GymName: "Gym"}
	if err := store.InsertRoute(route); err != nil {
		t.Fatalf("Failed to insert route: %v", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("route_id", formatID(route.ID))
	mw.Close()

	r := httptest.NewRequest("POST", "/upload", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	UploadHandler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing file, got %d", w.Code)
	}
}

func TestVideoFileHandlerNotReady(t *testing.T) {
	_, token := registerAndLogin(t, "pendinguser1")

	video := &models.Video{Path: "/nowhere/pending.mp4"}
	if err := store.InsertVideo(video); err != nil {
		t.Fatalf("Failed to insert video: %v", err)
	}

	r := httptest.NewRequest("GET", "/videos/"+formatID(video.ID)+"/file", nil)
	r.SetPathValue("id", formatID(video.ID))
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	VideoFileHandler(w, r)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for pending video, got %d", w.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	r := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	HealthHandler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Expected healthy status, got %s", resp.Status)
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
