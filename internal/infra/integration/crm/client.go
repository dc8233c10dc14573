package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/xavierca1/ligue-crm-sync/internal/entity"
)

// APIError carrega o status HTTP e o corpo cru de qualquer resposta
// não-2xx que não tenha tratamento local.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("crm api retornou status %d: %s", e.StatusCode, e.Body)
}

// Client é o binding fino e stateless sobre a API REST do CRM.
// A autenticação vai em TODA chamada como query string (apitoken + i),
// nunca como header — o CRM foi desenhado para chamada direta do
// browser e só aceita credenciais na URL.
type Client struct {
	baseURL    string
	apiToken   string
	instanceID string
	http       *http.Client
}

func NewClient(baseURL, apiToken, instanceID string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiToken:   apiToken,
		instanceID: instanceID,
		http:       &http.Client{Timeout: 15 * time.Second},
	}
}

// SearchLeads busca leads por texto livre (telefone, email, nome).
func (c *Client) SearchLeads(ctx context.Context, query string) ([]entity.Lead, error) {
	body := searchLeadsRequest{Query: query, Search: true, Page: 1, Limit: 20}

	var response searchLeadsResponse
	if err := c.do(ctx, http.MethodPost, "/leadsadvanced", nil, body, &response); err != nil {
		return nil, fmt.Errorf("erro ao buscar leads: %w", err)
	}

	leads := make([]entity.Lead, 0, len(response.Leads))
	for _, r := range response.Leads {
		leads = append(leads, r.toEntity())
	}
	return leads, nil
}

// GetLead busca um lead pelo id com projeção completa.
// 404 significa "lead não existe" e vira nil, não erro.
func (c *Client) GetLead(ctx context.Context, id int) (*entity.Lead, error) {
	params := url.Values{}
	params.Set("allFields", "true")

	var record leadRecord
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/leads/%d", id), params, nil, &record)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar lead %d: %w", id, err)
	}

	lead := record.toEntity()
	return &lead, nil
}

// CreateLead cria o lead e retorna o id atribuído pelo CRM.
func (c *Client) CreateLead(ctx context.Context, input LeadInput) (int, error) {
	var response idResponse
	if err := c.do(ctx, http.MethodPost, "/leads", nil, input, &response); err != nil {
		return 0, fmt.Errorf("erro ao criar lead: %w", err)
	}
	if response.ID == 0 {
		return 0, fmt.Errorf("crm não retornou id do lead criado")
	}
	return response.ID, nil
}

func (c *Client) UpdateLead(ctx context.Context, id int, input LeadInput) error {
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/leads/%d", id), nil, input, nil); err != nil {
		return fmt.Errorf("erro ao atualizar lead %d: %w", id, err)
	}
	return nil
}

// UpdateLeadTags usa o mesmo endpoint de update, só que com o corpo
// restrito ao conjunto de tags.
func (c *Client) UpdateLeadTags(ctx context.Context, id int, tagIDs []int) error {
	body := updateTagsRequest{Tags: tagIDs}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/leads/%d", id), nil, body, nil); err != nil {
		return fmt.Errorf("erro ao atualizar tags do lead %d: %w", id, err)
	}
	return nil
}

func (c *Client) ListTags(ctx context.Context) ([]entity.Tag, error) {
	var records []tagRecord
	if err := c.do(ctx, http.MethodGet, "/tags", nil, nil, &records); err != nil {
		return nil, fmt.Errorf("erro ao listar tags: %w", err)
	}

	tags := make([]entity.Tag, 0, len(records))
	for _, r := range records {
		tags = append(tags, entity.Tag{ID: r.ID, Name: r.Name})
	}
	return tags, nil
}

// ListOpportunities lista as oportunidades de um lead.
//
// 400 e 404 viram lista vazia por compatibilidade com o comportamento
// histórico do CRM: a API responde 400 para lead sem oportunidades.
// Isso confunde "não tem nenhuma" com "requisição malformada" — é uma
// ambiguidade conhecida, preservada de propósito.
func (c *Client) ListOpportunities(ctx context.Context, leadID int) ([]entity.Opportunity, error) {
	var records []opportunityRecord
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/listopportunitysleadcomplete/%d", leadID), nil, nil, &records)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) &&
			(apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao listar oportunidades do lead %d: %w", leadID, err)
	}

	opportunities := make([]entity.Opportunity, 0, len(records))
	for _, r := range records {
		opportunities = append(opportunities, r.toEntity())
	}
	return opportunities, nil
}

// CreateOpportunity cria a oportunidade sob o funil informado na query.
func (c *Client) CreateOpportunity(ctx context.Context, funnelID int, input OpportunityInput) (int, error) {
	params := url.Values{}
	params.Set("id", fmt.Sprintf("%d", funnelID))

	var response idResponse
	if err := c.do(ctx, http.MethodPost, "/crmopportunity", params, input, &response); err != nil {
		return 0, fmt.Errorf("erro ao criar oportunidade: %w", err)
	}
	return response.ID, nil
}

// CreateCustomObject cria um objeto customizado sob a definição dada.
func (c *Client) CreateCustomObject(ctx context.Context, definitionID string, fields map[string]any) (string, error) {
	var response objectResponse
	path := fmt.Sprintf("/customobjects/objects/%s", url.PathEscape(definitionID))
	if err := c.do(ctx, http.MethodPost, path, nil, fields, &response); err != nil {
		return "", fmt.Errorf("erro ao criar objeto customizado: %w", err)
	}
	return response.ID, nil
}

// LinkCustomObject vincula o objeto criado ao lead.
func (c *Client) LinkCustomObject(ctx context.Context, objectID string, leadID int, amount float64) error {
	body := linkObjectRequest{
		ObjectID: objectID,
		LinkType: "lead",
		TargetID: leadID,
		Amount:   amount,
	}
	if err := c.do(ctx, http.MethodPost, "/customobjects/link", nil, body, nil); err != nil {
		return fmt.Errorf("erro ao vincular objeto ao lead %d: %w", leadID, err)
	}
	return nil
}

// do centraliza request, autenticação, checagem de status e decode.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apitoken", c.apiToken)
	params.Set("i", c.instanceID)

	fullURL := c.baseURL + path + "?" + params.Encode()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("erro ao serializar corpo: %w", err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("erro de conexão com o crm: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("erro ao decodificar resposta do crm: %w", err)
		}
	}
	return nil
}
