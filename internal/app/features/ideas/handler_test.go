package ideas

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/skillswap/skillswap/internal/domain/models"
	"github.com/skillswap/skillswap/internal/testutil"
	"go.uber.org/zap"
)

func validBody() map[string]any {
	return map[string]any{
		"ideaName":     "SkillSwap",
		"description":  "learn together",
		"category":     "software",
		"teamSize":     4,
		"skillsNeeded": "go",
		"rolesNeeded":  "backend",
		"email":        "owner@test.com",
	}
}

func TestServeCreate(t *testing.T) {
	store := testutil.NewMemIdeas()
	h := NewHandler(store, zap.NewNop())

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/ideas", validBody())
	rec := httptest.NewRecorder()
	h.ServeCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var created models.Idea
	testutil.DecodeJSON(t, rec, &created)
	if created.ID.IsZero() {
		t.Error("id not assigned")
	}
	if created.MembersFilled != 1 {
		t.Errorf("members filled: got %d, want 1", created.MembersFilled)
	}
}

func TestServeCreateSanitizesDescription(t *testing.T) {
	store := testutil.NewMemIdeas()
	h := NewHandler(store, zap.NewNop())

	body := validBody()
	body["description"] = `<script>alert(1)</script><b>build</b> things`
	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/ideas", body)
	rec := httptest.NewRecorder()
	h.ServeCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d", rec.Code)
	}
	var created models.Idea
	testutil.DecodeJSON(t, rec, &created)
	if strings.Contains(created.Description, "<script>") {
		t.Errorf("script tag survived: %q", created.Description)
	}
	if !strings.Contains(created.Description, "<b>build</b>") {
		t.Errorf("benign formatting stripped: %q", created.Description)
	}
}

func TestServeCreateMissingFields(t *testing.T) {
	h := NewHandler(testutil.NewMemIdeas(), zap.NewNop())

	for _, field := range []string{"ideaName", "description", "category", "email"} {
		body := validBody()
		delete(body, field)
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/ideas", body)
		rec := httptest.NewRecorder()
		h.ServeCreate(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("missing %s: got %d, want 400", field, rec.Code)
		}
	}
}

func TestServeListByUser(t *testing.T) {
	store := testutil.NewMemIdeas()
	store.Put(models.Idea{IdeaName: "A", Email: "owner@test.com"})
	store.Put(models.Idea{IdeaName: "B", Email: "other@test.com"})
	h := NewHandler(store, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/ideas/user?email=owner@test.com", nil)
	rec := httptest.NewRecorder()
	h.ServeListByUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var ideas []models.Idea
	testutil.DecodeJSON(t, rec, &ideas)
	if len(ideas) != 1 || ideas[0].IdeaName != "A" {
		t.Errorf("ideas: %+v", ideas)
	}
}
