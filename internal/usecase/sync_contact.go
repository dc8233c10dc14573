package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/xavierca1/ligue-crm-sync/internal/entity"
	"github.com/xavierca1/ligue-crm-sync/internal/infra/integration/crm"
)

// SyncContactUseCase executa o pipeline de um contato:
// resolver → reconciliar lead → tags → pedidos → oportunidade.
// Os passos são sequenciais porque cada um depende do lead id produzido
// antes; cada passo captura o próprio erro e anexa ao resultado do
// contato, sem vazar exceção para os vizinhos do lote.
type SyncContactUseCase struct {
	CRM       CRMGateway
	Ledger    entity.LedgerInterface
	Customers entity.CustomerReaderInterface
	Resolver  *LeadResolver
}

func NewSyncContactUseCase(
	crmGateway CRMGateway,
	ledger entity.LedgerInterface,
	customers entity.CustomerReaderInterface,
) *SyncContactUseCase {
	return &SyncContactUseCase{
		CRM:       crmGateway,
		Ledger:    ledger,
		Customers: customers,
		Resolver:  NewLeadResolver(crmGateway),
	}
}

func (uc *SyncContactUseCase) Execute(ctx context.Context, contact entity.Contact, cfg SyncConfig) entity.ContactSyncResult {
	result := entity.ContactSyncResult{CustomerID: contact.CustomerID}

	// 1. Lead: sem ele nenhum passo seguinte faz sentido.
	leadID, leadStatus, err := uc.ensureLead(ctx, contact)
	if err != nil {
		result.AddError("lead", err)
		return result
	}
	result.LeadID = leadID
	result.LeadStatus = leadStatus

	// 2. Grava o id externo de volta na base de origem (melhor esforço,
	// é só cruzamento — não entra nos erros do item).
	if err := uc.Customers.UpdateCRMLeadID(ctx, contact.CustomerID, leadID); err != nil {
		log.Printf("⚠️ Falha ao gravar crm_lead_id do cliente %s: %v", contact.CustomerID, err)
	}

	// 3. Tags. Falha aqui não impede pedidos nem oportunidade.
	if err := uc.reconcileTags(ctx, leadID, contact, cfg); err != nil {
		result.AddError("tags", err)
	} else {
		result.TagsSynced = true
	}

	// 4. Pedidos, cada um com desfecho independente.
	result.Orders = uc.syncOrders(ctx, leadID, contact, cfg)
	for _, o := range result.Orders {
		if o.Status == entity.OrderFailed {
			result.AddError("order "+o.OrderID, errors.New(o.Error))
		}
	}

	// 5. Oportunidade.
	oppID, oppStatus, err := uc.ensureOpportunity(ctx, leadID, contact, cfg)
	if err != nil {
		result.AddError("opportunity", err)
		return result
	}
	result.OpportunityID = oppID
	result.OpportunityStatus = oppStatus

	return result
}

// ensureLead garante exatamente um lead ativo e atualizado para o
// contato: atualiza (desarquivando se preciso) quando existe, cria
// quando não existe.
func (uc *SyncContactUseCase) ensureLead(ctx context.Context, contact entity.Contact) (int, string, error) {
	lead, err := uc.Resolver.Resolve(ctx, contact)
	if err != nil {
		return 0, "", err
	}

	input := leadInputFromContact(contact)

	if lead == nil {
		if uc.alreadySucceeded(ctx, "lead", contact.CustomerID, "create", input) {
			// Já criamos esse lead exato antes mas a busca não o achou
			// (indexação do CRM atrasada). Criar de novo duplicaria.
			log.Printf("⚠️ Criação do lead de %s já registrada no ledger, busca não retornou; pulando", contact.CustomerID)
			return 0, "", fmt.Errorf("lead criado anteriormente ainda não indexado pelo crm")
		}

		id, err := uc.CRM.CreateLead(ctx, input)
		if err != nil {
			return 0, "", err
		}
		uc.recordSuccess(ctx, "lead", contact.CustomerID, "create", input, map[string]int{"id": id})
		log.Printf("✅ Lead criado #%d para cliente %s", id, contact.CustomerID)
		return id, entity.LeadCreated, nil
	}

	status := entity.LeadUpdated

	// Checagem de arquivamento na projeção completa: a busca pode não
	// trazer o flag. Erro aqui não bloqueia o update dos campos — o
	// desarquivamento é melhor esforço.
	archived := lead.Archived
	if full, err := uc.CRM.GetLead(ctx, lead.ID); err != nil {
		log.Printf("⚠️ Falha ao checar arquivamento do lead %d, seguindo com update: %v", lead.ID, err)
	} else if full != nil {
		archived = full.Archived
	}

	if archived {
		unarchive := false
		input.Archived = &unarchive
		status = entity.LeadUpdatedUnarchived
	}

	if uc.alreadySucceeded(ctx, "lead", strconv.Itoa(lead.ID), "update", input) {
		log.Printf("📥 Update do lead %d idêntico já aplicado, pulando escrita", lead.ID)
		return lead.ID, status, nil
	}

	if err := uc.CRM.UpdateLead(ctx, lead.ID, input); err != nil {
		return 0, "", err
	}
	uc.recordSuccess(ctx, "lead", strconv.Itoa(lead.ID), "update", input, nil)
	log.Printf("✅ Lead %d atualizado (%s)", lead.ID, status)
	return lead.ID, status, nil
}

// reconcileTags monta o conjunto de tags do lead: as derivadas das
// origens do contato mais, sempre, a tag de reserva configurada.
func (uc *SyncContactUseCase) reconcileTags(ctx context.Context, leadID int, contact entity.Contact, cfg SyncConfig) error {
	var tagIDs []int

	if len(contact.Sources) > 0 {
		tags, err := uc.CRM.ListTags(ctx)
		if err != nil {
			return err
		}
		byName := make(map[string]int, len(tags))
		for _, t := range tags {
			byName[strings.ToLower(t.Name)] = t.ID
		}
		for _, source := range contact.Sources {
			if id, ok := byName[strings.ToLower(source)]; ok {
				tagIDs = append(tagIDs, id)
			}
		}
	}

	if cfg.ReservationTagID > 0 {
		present := false
		for _, id := range tagIDs {
			if id == cfg.ReservationTagID {
				present = true
				break
			}
		}
		if !present {
			tagIDs = append(tagIDs, cfg.ReservationTagID)
		}
	}

	if len(tagIDs) == 0 {
		return nil
	}
	return uc.CRM.UpdateLeadTags(ctx, leadID, tagIDs)
}

// syncOrders projeta cada pedido em um objeto customizado, no máximo
// uma vez por (lead, pedido) em todas as execuções. A falha de um
// pedido não derruba os irmãos.
func (uc *SyncContactUseCase) syncOrders(ctx context.Context, leadID int, contact entity.Contact, cfg SyncConfig) []entity.OrderSyncResult {
	results := make([]entity.OrderSyncResult, 0, len(contact.Orders))

	for _, order := range contact.Orders {
		entityID := fmt.Sprintf("%d:%s", leadID, order.ID)
		payload := orderPayload(order, cfg.OrderFieldMap)

		if uc.alreadySucceeded(ctx, "custom_object", entityID, "create", payload) {
			results = append(results, entity.OrderSyncResult{OrderID: order.ID, Status: entity.OrderSkipped})
			continue
		}

		objectID, err := uc.CRM.CreateCustomObject(ctx, cfg.OrderDefinitionID, payload)
		if err != nil {
			results = append(results, entity.OrderSyncResult{
				OrderID: order.ID, Status: entity.OrderFailed, Error: err.Error(),
			})
			continue
		}

		if err := uc.CRM.LinkCustomObject(ctx, objectID, leadID, order.Value); err != nil {
			results = append(results, entity.OrderSyncResult{
				OrderID: order.ID, Status: entity.OrderFailed, Error: err.Error(),
			})
			continue
		}

		uc.recordSuccess(ctx, "custom_object", entityID, "create", payload, map[string]string{"object_id": objectID})
		results = append(results, entity.OrderSyncResult{OrderID: order.ID, Status: entity.OrderSynced})
	}

	return results
}

// ensureOpportunity garante no máximo uma oportunidade aberta por
// (lead, funil, etapa). Se já existe uma aberta no alvo, nenhuma
// escrita acontece. A checagem é do lado do cliente e é melhor
// esforço: um ator externo concorrente ainda pode corrê-la.
func (uc *SyncContactUseCase) ensureOpportunity(ctx context.Context, leadID int, contact entity.Contact, cfg SyncConfig) (int, string, error) {
	if cfg.FunnelID <= 0 {
		return 0, "", &DomainError{
			Code:    "MISSING_FUNNEL",
			Message: "funnel_id é obrigatório para criar oportunidade",
		}
	}

	opportunities, err := uc.CRM.ListOpportunities(ctx, leadID)
	if err != nil {
		return 0, "", err
	}

	for _, o := range opportunities {
		if o.IsOpenAt(cfg.FunnelID, cfg.StageID) {
			log.Printf("📥 Lead %d já tem oportunidade aberta #%d na etapa %d", leadID, o.ID, cfg.StageID)
			return o.ID, entity.OpportunityAlreadyExists, nil
		}
	}

	var totalValue float64
	for _, order := range contact.Orders {
		totalValue += order.Value
	}

	input := crm.NewOpportunityInput(
		contact.FullName,
		totalValue,
		cfg.StageID,
		leadID,
		len(opportunities)+1,
		map[string]string{"customer_id": contact.CustomerID},
	)

	if uc.alreadySucceeded(ctx, "opportunity", strconv.Itoa(leadID), "create", input) {
		log.Printf("📥 Criação de oportunidade para lead %d já registrada no ledger, pulando", leadID)
		return 0, entity.OpportunityAlreadyExists, nil
	}

	id, err := uc.CRM.CreateOpportunity(ctx, cfg.FunnelID, input)
	if err != nil {
		return 0, "", err
	}
	uc.recordSuccess(ctx, "opportunity", strconv.Itoa(leadID), "create", input, map[string]int{"id": id})
	log.Printf("✅ Oportunidade #%d criada para lead %d (funil %d, etapa %d)", id, leadID, cfg.FunnelID, cfg.StageID)
	return id, entity.OpportunityCreated, nil
}

// alreadySucceeded consulta o ledger. Erro na consulta é logado e
// tratado como "não sucedeu": o ledger é rede de segurança, não
// pré-condição.
func (uc *SyncContactUseCase) alreadySucceeded(ctx context.Context, entityType, entityID, action string, payload any) bool {
	ok, err := uc.Ledger.IsAlreadySucceeded(ctx, entityType, entityID, action, payload)
	if err != nil {
		log.Printf("⚠️ Falha ao consultar ledger (%s/%s/%s): %v", entityType, entityID, action, err)
		return false
	}
	return ok
}

// recordSuccess grava a operação confirmada. Só marca sucesso depois
// de resposta 2xx confirmada; falha de persistência degrada a
// idempotência mas nunca bloqueia o negócio.
func (uc *SyncContactUseCase) recordSuccess(ctx context.Context, entityType, entityID, action string, payload, response any) {
	entry := entity.NewLedgerEntry(entityType, entityID, action, payload)
	entry.MarkSuccess(response)

	if err := uc.Ledger.Record(ctx, entry); err != nil {
		log.Printf("⚠️ Falha ao gravar ledger (%s/%s/%s): %v", entityType, entityID, action, err)
	}
}

func leadInputFromContact(contact entity.Contact) crm.LeadInput {
	first, last := SplitName(contact.FullName)
	return crm.LeadInput{
		FirstName: first,
		LastName:  last,
		Email:     contact.Email,
		Whatsapp:  SanitizePhone(contact.Whatsapp),
		Mobile:    SanitizePhone(contact.Mobile),
		Phone:     SanitizePhone(contact.Phone),
		Street:    contact.Street,
		Number:    contact.Number,
		District:  contact.District,
		City:      contact.City,
		State:     contact.State,
		ZipCode:   contact.ZipCode,
	}
}

// orderPayload aplica o de-para de nomes de campo configurado.
// Campos numéricos que o CRM espera como texto vão serializados como
// string.
func orderPayload(order entity.Order, fieldMap map[string]string) map[string]any {
	name := func(key string) string {
		if mapped, ok := fieldMap[key]; ok && mapped != "" {
			return mapped
		}
		return key
	}

	items := make([]map[string]any, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, map[string]any{
			"description": item.Description,
			"quantity":    strconv.Itoa(item.Quantity),
			"unit_value":  strconv.FormatFloat(item.UnitValue, 'f', 2, 64),
		})
	}

	return map[string]any{
		name("order_id"): order.ID,
		name("kind"):     order.Kind,
		name("date"):     order.Date.Format("2006-01-02"),
		name("value"):    strconv.FormatFloat(order.Value, 'f', 2, 64),
		name("status"):   order.Status,
		name("items"):    items,
	}
}
