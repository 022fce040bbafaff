package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jimmbo89/api-sweetspot/internal/model"
	"github.com/jimmbo89/api-sweetspot/pkg/database"
)

func TestStoreBusinessPersonChecksReferences(t *testing.T) {
	e, _ := setupTestApp(t)
	token, personID := registerAndLogin(t, e, "bprefs@example.com", "21290300310")
	businessID := createBusiness(t, e, token, "Refs", "60708090000105")

	cases := []struct {
		name    string
		payload map[string]interface{}
		msg     string
	}{
		{"missing business", map[string]interface{}{"business_id": 9999, "person_id": personID, "role_id": 1}, "BusinessNotFound"},
		{"missing person", map[string]interface{}{"business_id": businessID, "person_id": 9999, "role_id": 1}, "PersonNotFound"},
		{"missing role", map[string]interface{}{"business_id": businessID, "person_id": personID, "role_id": 9999}, "RoleNotFound"},
	}
	for _, tc := range cases {
		rec := doJSON(t, e, http.MethodPost, "/api/business-person", tc.payload, token)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d body %s", tc.name, rec.Code, rec.Body.String())
		}
		if msg := decodeBody(t, rec)["msg"]; msg != tc.msg {
			t.Fatalf("%s: unexpected message %v", tc.name, msg)
		}
	}
}

func TestStoreBusinessPersonRejectsDuplicatePair(t *testing.T) {
	e, _ := setupTestApp(t)
	token, personID := registerAndLogin(t, e, "bpdup@example.com", "22300310320")
	businessID := createBusiness(t, e, token, "Dupla", "70809010000116")
	roleID := createRole(t, e, token, "Confeiteiro")

	payload := map[string]interface{}{
		"business_id": businessID,
		"person_id":   personID,
		"role_id":     roleID,
	}

	rec := doJSON(t, e, http.MethodPost, "/api/business-person", payload, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first affiliation: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, e, http.MethodPost, "/api/business-person", payload, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on duplicate pair, got %d body %s", rec.Code, rec.Body.String())
	}
	if errName := decodeBody(t, rec)["error"]; errName != "Conflict" {
		t.Fatalf("unexpected error %v", errName)
	}

	var count int64
	database.GetDB().Model(&model.BusinessPerson{}).
		Where("business_id = ? AND person_id = ?", businessID, personID).
		Count(&count)
	if count != 1 {
		t.Fatalf("expected a single affiliation row, got %d", count)
	}
}

func TestBusinessPersonLifecycle(t *testing.T) {
	e, _ := setupTestApp(t)
	token, personID := registerAndLogin(t, e, "bplife@example.com", "23310320330")
	businessID := createBusiness(t, e, token, "Vida", "80901020000127")
	roleID := createRole(t, e, token, "Atendente")
	otherRoleID := createRole(t, e, token, "Caixa")

	rec := doJSON(t, e, http.MethodPost, "/api/business-person", map[string]interface{}{
		"business_id": businessID,
		"person_id":   personID,
		"role_id":     roleID,
		"pix":         "chave-pix",
		"bank":        "001",
	}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create affiliation: status %d body %s", rec.Code, rec.Body.String())
	}
	bp := decodeBody(t, rec)["businessPerson"].(map[string]interface{})
	bpID := uint(bp["id"].(float64))
	if bp["active"].(float64) != 1 {
		t.Fatalf("expected active default 1, got %v", bp["active"])
	}

	rec = doJSON(t, e, http.MethodGet, fmt.Sprintf("/api/business-person/business/%d", businessID), nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list affiliations: status %d", rec.Code)
	}
	listed := decodeBody(t, rec)["businessPerson"].([]interface{})
	if len(listed) != 1 {
		t.Fatalf("expected 1 affiliation listed, got %d", len(listed))
	}

	rec = doJSON(t, e, http.MethodPut, "/api/business-person", map[string]interface{}{
		"id":      bpID,
		"role_id": otherRoleID,
		"active":  0,
	}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update affiliation: status %d body %s", rec.Code, rec.Body.String())
	}

	var stored model.BusinessPerson
	if err := database.GetDB().First(&stored, bpID).Error; err != nil {
		t.Fatalf("load affiliation: %v", err)
	}
	if stored.RoleID != otherRoleID || stored.Active != 0 {
		t.Fatalf("update not applied: %+v", stored)
	}

	rec = doJSON(t, e, http.MethodDelete, fmt.Sprintf("/api/business-person/%d", bpID), nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("destroy affiliation: status %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodGet, fmt.Sprintf("/api/business-person/%d", bpID), nil, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after destroy, got %d", rec.Code)
	}
}
