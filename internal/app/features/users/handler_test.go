package users_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/strand/internal/app/features/users"
	"github.com/dalemusser/strand/internal/testutil"
	"go.uber.org/zap"
)

func TestUpsert_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := users.NewHandler(db, zap.NewNop())

	body := `{
		"auth_id": "auth-handler-1",
		"name": "Grace Hopper",
		"username": "Grace_Hopper",
		"bio": "compilers",
		"avatar_url": "https://example.com/grace.png"
	}`
	req := httptest.NewRequest("POST", "/users", strings.NewReader(body))
	rec := httptest.NewRecorder()

	users.Routes(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var response struct {
		Username  string `json:"username"`
		Onboarded bool   `json:"onboarded"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Username != "grace_hopper" {
		t.Errorf("username: got %q, want folded %q", response.Username, "grace_hopper")
	}
	if !response.Onboarded {
		t.Error("expected onboarded=true")
	}
}

func TestUpsert_StripsMarkup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := users.NewHandler(db, zap.NewNop())

	body := `{
		"auth_id": "auth-handler-2",
		"name": "Plain Name",
		"username": "plain_name",
		"bio": "hello <script>alert(1)</script>world",
		"avatar_url": "https://example.com/p.png"
	}`
	req := httptest.NewRequest("POST", "/users", strings.NewReader(body))
	rec := httptest.NewRecorder()

	users.Routes(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var response struct {
		Bio string `json:"bio"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if strings.Contains(response.Bio, "<script>") {
		t.Errorf("bio kept markup: %q", response.Bio)
	}
}

func TestUpsert_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := users.NewHandler(db, zap.NewNop())

	cases := []struct {
		name string
		body string
	}{
		{"missing auth_id", `{"name":"Valid Name","username":"valid","avatar_url":"https://example.com/a.png"}`},
		{"short name", `{"auth_id":"a1","name":"ab","username":"valid","avatar_url":"https://example.com/a.png"}`},
		{"blank username", `{"auth_id":"a1","name":"Valid Name","username":"","avatar_url":"https://example.com/a.png"}`},
		{"relative avatar", `{"auth_id":"a1","name":"Valid Name","username":"valid","avatar_url":"avatar.png"}`},
		{"malformed body", `{"name": `},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/users", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			users.Routes(handler).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("expected status %d, got %d: %s", http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := users.NewHandler(db, zap.NewNop())

	req := httptest.NewRequest("GET", "/users/no-such-user", nil)
	rec := httptest.NewRecorder()

	users.Routes(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestGet_Degraded(t *testing.T) {
	handler := users.NewHandler(nil, zap.NewNop())

	req := httptest.NewRequest("GET", "/users/anyone", nil)
	rec := httptest.NewRecorder()

	users.Routes(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}

func TestSearch_Directory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := users.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	caller := fixtures.CreateUser(ctx, "Caller")
	fixtures.CreateUser(ctx, "Findable Friend")
	fixtures.CreateUser(ctx, "Unrelated Person")

	req := httptest.NewRequest("GET", "/?search=findable&exclude="+caller.AuthID, nil)
	rec := httptest.NewRecorder()

	users.Routes(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var response struct {
		Users []struct {
			Name string `json:"name"`
		} `json:"users"`
		HasNextPage bool `json:"has_next_page"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(response.Users) != 1 || response.Users[0].Name != "Findable Friend" {
		t.Errorf("got %+v, want Findable Friend only", response.Users)
	}
	if response.HasNextPage {
		t.Error("one matching user cannot have a next page")
	}
}

func TestSearch_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := users.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"Member One", "Member Two", "Member Three"} {
		fixtures.CreateUser(ctx, name)
	}

	req := httptest.NewRequest("GET", "/?page=1&size=2", nil)
	rec := httptest.NewRecorder()
	users.Routes(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	var response struct {
		Users       []json.RawMessage `json:"users"`
		HasNextPage bool              `json:"has_next_page"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(response.Users) != 2 {
		t.Errorf("page 1: got %d users, want 2", len(response.Users))
	}
	if !response.HasNextPage {
		t.Error("3 users at size 2 must report a next page")
	}
}

func TestActivity_EndToEnd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := users.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner")
	replier := fixtures.CreateUser(ctx, "Replier")
	post := fixtures.CreateThread(ctx, owner, "notify me")
	fixtures.CreateReply(ctx, replier, post.ID, "pinging you")

	req := httptest.NewRequest("GET", "/users/"+owner.AuthID+"/activity", nil)
	rec := httptest.NewRecorder()

	users.Routes(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var response struct {
		Replies []struct {
			Text   string `json:"text"`
			Author *struct {
				Username string `json:"username"`
			} `json:"author"`
		} `json:"replies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(response.Replies) != 1 {
		t.Fatalf("got %d replies, want 1", len(response.Replies))
	}
	if response.Replies[0].Author == nil || response.Replies[0].Author.Username != replier.Username {
		t.Errorf("reply author: got %+v, want %q", response.Replies[0].Author, replier.Username)
	}
}
