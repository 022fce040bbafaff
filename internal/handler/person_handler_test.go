package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jimmbo89/api-sweetspot/internal/model"
	"github.com/jimmbo89/api-sweetspot/pkg/database"
)

func TestStorePersonWithAffiliation(t *testing.T) {
	e, sender := setupTestApp(t)
	token, _ := registerAndLogin(t, e, "owner@example.com", "24320330340")
	businessID := createBusiness(t, e, token, "Equipe", "90102030000138")
	roleID := createRole(t, e, token, "Padeiro")

	before := sender.sentCount()
	rec := doJSON(t, e, http.MethodPost, "/api/person", map[string]interface{}{
		"name":        "Novo Funcionario",
		"email":       "funcionario@example.com",
		"password":    "secret123",
		"cpf":         "25330340350",
		"business_id": businessID,
		"role_id":     roleID,
		"pix":         "pix-func",
	}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("store person: status %d body %s", rec.Code, rec.Body.String())
	}
	person := decodeBody(t, rec)["person"].(map[string]interface{})
	personID := uint(person["id"].(float64))

	if sender.sentCount() != before+1 {
		t.Fatalf("expected a welcome email for the new person")
	}

	var bp model.BusinessPerson
	err := database.GetDB().
		Where("business_id = ? AND person_id = ?", businessID, personID).
		First(&bp).Error
	if err != nil {
		t.Fatalf("affiliation not created: %v", err)
	}
	if bp.RoleID != roleID {
		t.Fatalf("unexpected role %d", bp.RoleID)
	}

	var account model.User
	if err := database.GetDB().Where("email = ?", "funcionario@example.com").First(&account).Error; err != nil {
		t.Fatalf("backing account not created: %v", err)
	}
}

func TestStorePersonRequiresRoleWithBusiness(t *testing.T) {
	e, _ := setupTestApp(t)
	token, _ := registerAndLogin(t, e, "norole@example.com", "26340350360")
	businessID := createBusiness(t, e, token, "SemPapel", "11213141000149")

	rec := doJSON(t, e, http.MethodPost, "/api/person", map[string]interface{}{
		"name":        "Sem Papel",
		"email":       "sempapel@example.com",
		"password":    "secret123",
		"cpf":         "27350360370",
		"business_id": businessID,
	}, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without role, got %d body %s", rec.Code, rec.Body.String())
	}

	var count int64
	database.GetDB().Model(&model.Person{}).Where("cpf = ?", "27350360370").Count(&count)
	if count != 0 {
		t.Fatalf("person row created despite rejected request")
	}
}

func TestStorePersonRollsBackOnDuplicateAccount(t *testing.T) {
	e, _ := setupTestApp(t)
	token, _ := registerAndLogin(t, e, "taken@example.com", "28360370380")

	rec := doJSON(t, e, http.MethodPost, "/api/person", map[string]interface{}{
		"name":     "Repetido",
		"email":    "taken@example.com",
		"password": "secret123",
		"cpf":      "29370380390",
	}, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on duplicate email, got %d body %s", rec.Code, rec.Body.String())
	}

	var count int64
	database.GetDB().Model(&model.Person{}).Where("cpf = ?", "29370380390").Count(&count)
	if count != 0 {
		t.Fatalf("person row survived a rolled-back creation")
	}
}

func TestIndexPeopleFiltersByBusiness(t *testing.T) {
	e, _ := setupTestApp(t)
	token, _ := registerAndLogin(t, e, "filter@example.com", "31380390400")
	businessID := createBusiness(t, e, token, "Filtro", "21222324000151")
	roleID := createRole(t, e, token, "Auxiliar")

	rec := doJSON(t, e, http.MethodPost, "/api/person", map[string]interface{}{
		"name":        "Dentro",
		"email":       "dentro@example.com",
		"password":    "secret123",
		"cpf":         "32390400410",
		"business_id": businessID,
		"role_id":     roleID,
	}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("store affiliated person: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, e, http.MethodPost, "/api/person/index", map[string]interface{}{
		"business_id": businessID,
	}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("index people: status %d body %s", rec.Code, rec.Body.String())
	}
	people := decodeBody(t, rec)["person"].([]interface{})
	if len(people) != 1 {
		t.Fatalf("expected 1 affiliated person, got %d", len(people))
	}
	if name := people[0].(map[string]interface{})["name"]; name != "Dentro" {
		t.Fatalf("unexpected person %v", name)
	}

	// Unfiltered, both the owner and the new person show up.
	rec = doJSON(t, e, http.MethodPost, "/api/person/index", map[string]interface{}{}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("index all people: status %d", rec.Code)
	}
	people = decodeBody(t, rec)["person"].([]interface{})
	if len(people) != 2 {
		t.Fatalf("expected 2 people, got %d", len(people))
	}
}

func TestDestroyPersonRemovesAffiliations(t *testing.T) {
	e, _ := setupTestApp(t)
	token, personID := registerAndLogin(t, e, "gone@example.com", "33400410420")
	businessID := createBusiness(t, e, token, "Saida", "31323334000162")
	roleID := createRole(t, e, token, "Temporario")

	rec := doJSON(t, e, http.MethodPost, "/api/business-person", map[string]interface{}{
		"business_id": businessID,
		"person_id":   personID,
		"role_id":     roleID,
	}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create affiliation: status %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodDelete, fmt.Sprintf("/api/person/%d", personID), nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("destroy person: status %d body %s", rec.Code, rec.Body.String())
	}

	var count int64
	database.GetDB().Model(&model.BusinessPerson{}).Where("person_id = ?", personID).Count(&count)
	if count != 0 {
		t.Fatalf("expected affiliations removed with the person, got %d", count)
	}

	rec = doJSON(t, e, http.MethodGet, fmt.Sprintf("/api/person/%d", personID), nil, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after destroy, got %d", rec.Code)
	}
}
