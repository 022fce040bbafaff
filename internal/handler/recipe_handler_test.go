package handler_test

import (
	"fmt"
	"net/http"
	"testing"
)

func TestStoreRecipeChecksReferences(t *testing.T) {
	e, _ := setupTestApp(t)
	token, personID := registerAndLogin(t, e, "recrefs@example.com", "35420430440")
	businessID := createBusiness(t, e, token, "Receitas", "41424344000173")

	rec := doJSON(t, e, http.MethodPost, "/api/recipe", map[string]interface{}{
		"business_id": 9999,
		"person_id":   personID,
		"name":        "Bolo de Cenoura",
	}, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing business, got %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodPost, "/api/recipe", map[string]interface{}{
		"business_id": businessID,
		"person_id":   9999,
		"name":        "Bolo de Cenoura",
	}, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing person, got %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["msg"]; msg != "PersonNotFound" {
		t.Fatalf("unexpected message %v", msg)
	}
}

func TestRecipeLifecycleAndUniqueName(t *testing.T) {
	e, _ := setupTestApp(t)
	token, personID := registerAndLogin(t, e, "reclife@example.com", "36430440450")
	businessID := createBusiness(t, e, token, "Doceria", "51525354000184")

	rec := doJSON(t, e, http.MethodPost, "/api/recipe", map[string]interface{}{
		"business_id": businessID,
		"person_id":   personID,
		"name":        "Brigadeiro",
		"description": "classico",
	}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create recipe: status %d body %s", rec.Code, rec.Body.String())
	}
	recipe := decodeBody(t, rec)["recipe"].(map[string]interface{})
	recipeID := uint(recipe["id"].(float64))

	rec = doJSON(t, e, http.MethodPost, "/api/recipe", map[string]interface{}{
		"business_id": businessID,
		"person_id":   personID,
		"name":        "Brigadeiro",
	}, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on duplicate recipe name, got %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodPut, "/api/recipe", map[string]interface{}{
		"id":          recipeID,
		"description": "com granulado",
	}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update recipe: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, e, http.MethodGet, fmt.Sprintf("/api/recipe/%d", recipeID), nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("show recipe: status %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodDelete, fmt.Sprintf("/api/recipe/%d", recipeID), nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("destroy recipe: status %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodGet, fmt.Sprintf("/api/recipe/%d", recipeID), nil, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after destroy, got %d", rec.Code)
	}
}

func TestBusinessRecipesCursorPagination(t *testing.T) {
	e, _ := setupTestApp(t)
	token, personID := registerAndLogin(t, e, "reccursor@example.com", "37440450460")
	businessID := createBusiness(t, e, token, "Paginada", "61626364000195")

	for i := 0; i < 7; i++ {
		rec := doJSON(t, e, http.MethodPost, "/api/recipe", map[string]interface{}{
			"business_id": businessID,
			"person_id":   personID,
			"name":        fmt.Sprintf("Receita %02d", i),
		}, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed recipe %d: status %d body %s", i, rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, e, http.MethodPost, "/api/recipe/business", map[string]interface{}{
		"business_id": businessID,
		"pageSize":    5,
	}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("first page: status %d body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	first := body["recipe"].([]interface{})
	if len(first) != 5 {
		t.Fatalf("expected 5 recipes on first page, got %d", len(first))
	}
	cursor := body["pagination"].(map[string]interface{})["nextCursor"]
	if cursor == nil {
		t.Fatalf("expected a nextCursor on a full page")
	}

	rec = doJSON(t, e, http.MethodPost, "/api/recipe/business", map[string]interface{}{
		"business_id": businessID,
		"pageSize":    5,
		"cursor":      cursor,
	}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("second page: status %d", rec.Code)
	}
	body = decodeBody(t, rec)
	second := body["recipe"].([]interface{})
	if len(second) != 2 {
		t.Fatalf("expected 2 recipes on second page, got %d", len(second))
	}

	lastFirst := first[len(first)-1].(map[string]interface{})["id"].(float64)
	firstSecond := second[0].(map[string]interface{})["id"].(float64)
	if firstSecond <= lastFirst {
		t.Fatalf("pages overlap: %v then %v", lastFirst, firstSecond)
	}
}
