package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tntanvir/eastmondvillas/models"
	"github.com/tntanvir/eastmondvillas/storage"
)

func TestListPropertiesRoleScope(t *testing.T) {
	app := buildTestApp(t)

	agent := models.User{Name: "Agent", Email: "agent@example.com", Role: models.RoleAgent}
	manager := models.User{Name: "Mgr", Email: "mgr3@example.com", Role: models.RoleManager}
	storage.DB.Create(&agent)
	storage.DB.Create(&manager)

	published := models.Property{Title: "Villa Pub", Status: models.PropertyStatusPublished}
	draft := models.Property{Title: "Villa Draft", Status: models.PropertyStatusDraft, AssignedAgentID: &agent.ID}
	storage.DB.Create(&published)
	storage.DB.Create(&draft)

	decode := func(resp *httptest.ResponseRecorder) []models.Property {
		var out []models.Property
		json.Unmarshal(resp.Body.Bytes(), &out)
		return out
	}

	// anonymous callers only see published listings
	resp := doJSON(app, http.MethodGet, "/api/properties", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 anonymous, got %d: %s", resp.Code, resp.Body.String())
	}
	got := decode(resp)
	if len(got) != 1 || got[0].Title != "Villa Pub" {
		t.Fatalf("anonymous: unexpected listing %+v", got)
	}

	// a manager's token must widen the scope to every listing, drafts
	// included
	resp = doJSON(app, http.MethodGet, "/api/properties", signTestToken(manager.ID, manager.Role), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 manager, got %d: %s", resp.Code, resp.Body.String())
	}
	got = decode(resp)
	if len(got) != 2 {
		t.Fatalf("manager: expected 2 properties, got %d", len(got))
	}

	// agents see their assignments only
	resp = doJSON(app, http.MethodGet, "/api/properties", signTestToken(agent.ID, agent.Role), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 agent, got %d: %s", resp.Code, resp.Body.String())
	}
	got = decode(resp)
	if len(got) != 1 || got[0].Title != "Villa Draft" {
		t.Fatalf("agent: unexpected listing %+v", got)
	}
}
