package crm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAuthGoesInQueryString - apitoken e i vão na query de toda chamada,
// nunca em header
func TestAuthGoesInQueryString(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token-123", r.URL.Query().Get("apitoken"))
		assert.Equal(t, "inst-9", r.URL.Query().Get("i"))
		assert.Empty(t, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"leads":[],"total":0}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "token-123", "inst-9")
	leads, err := client.SearchLeads(context.Background(), "+5511988887777")

	assert.NoError(t, err)
	assert.Empty(t, leads)
}

// TestGetLeadNotFound - 404 é "não existe", não erro
func TestGetLeadNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/leads/42", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("allFields"))
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", "i")
	lead, err := client.GetLead(context.Background(), 42)

	assert.NoError(t, err)
	assert.Nil(t, lead)
}

// TestListOpportunitiesBadRequestMeansEmpty - o CRM responde 400 para
// lead sem oportunidades; tem que virar lista vazia
func TestListOpportunitiesBadRequestMeansEmpty(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/listopportunitysleadcomplete/10", r.URL.Path)
			w.WriteHeader(status)
		}))

		client := NewClient(server.URL, "t", "i")
		opportunities, err := client.ListOpportunities(context.Background(), 10)

		assert.NoError(t, err)
		assert.Empty(t, opportunities)
		server.Close()
	}
}

// TestListOpportunitiesServerErrorPropagates - 500 continua sendo erro
func TestListOpportunitiesServerErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "kaput")
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", "i")
	_, err := client.ListOpportunities(context.Background(), 10)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

// TestCreateOpportunitySerializesNumbersAsText - value e sequence saem
// como string no JSON e o funil vai como query param id
func TestCreateOpportunitySerializesNumbersAsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crmopportunity", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("id"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "149.90", body["value"])
		assert.Equal(t, "2", body["sequence"])
		assert.Equal(t, "open", body["status"])
		assert.Equal(t, float64(3), body["crm_column"])

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":500}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", "i")
	input := NewOpportunityInput("Maria Santos", 149.9, 3, 10, 2, nil)
	id, err := client.CreateOpportunity(context.Background(), 7, input)

	assert.NoError(t, err)
	assert.Equal(t, 500, id)
}

// TestCreateLeadOmitsArchivedByDefault - archived só aparece no JSON
// quando o chamador setar o ponteiro
func TestCreateLeadOmitsArchivedByDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, present := body["archived"]
		assert.False(t, present)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":99}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", "i")
	id, err := client.CreateLead(context.Background(), LeadInput{FirstName: "Maria"})

	assert.NoError(t, err)
	assert.Equal(t, 99, id)
}

// TestUpdateLeadSendsArchivedFalse - desarquivamento vai explícito
func TestUpdateLeadSendsArchivedFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/leads/10", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, false, body["archived"])

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	unarchive := false
	client := NewClient(server.URL, "t", "i")
	err := client.UpdateLead(context.Background(), 10, LeadInput{FirstName: "Maria", Archived: &unarchive})

	assert.NoError(t, err)
}

// TestAPIErrorCarriesStatusAndBody
func TestAPIErrorCarriesStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"error":"telefone inválido"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "t", "i")
	_, err := client.CreateLead(context.Background(), LeadInput{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "telefone inválido")
}
