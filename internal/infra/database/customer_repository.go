package database

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/xavierca1/ligue-crm-sync/internal/entity"
)

// CustomerRepository é o acessor read-only da base de origem: devolve
// o contato normalizado e o histórico de pedidos de cada cliente.
// A única escrita permitida é o crm_lead_id, para cruzamento.
type CustomerRepository struct {
	DB *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func (r *CustomerRepository) FindContactsByIDs(ctx context.Context, ids []string) ([]entity.Contact, error) {
	contacts := make([]entity.Contact, 0, len(ids))

	for _, id := range ids {
		contact, err := r.findContact(ctx, id)
		if err == sql.ErrNoRows {
			// Cliente inexistente vira ausência, o chamador decide.
			continue
		}
		if err != nil {
			log.Printf("Erro crítico no banco: %v", err)
			return nil, err
		}

		orders, err := r.findOrders(ctx, id)
		if err != nil {
			log.Printf("Erro crítico no banco: %v", err)
			return nil, err
		}
		contact.Orders = orders

		contacts = append(contacts, *contact)
	}

	return contacts, nil
}

func (r *CustomerRepository) findContact(ctx context.Context, id string) (*entity.Contact, error) {
	query := `
		SELECT id, full_name,
			COALESCE(email, ''), COALESCE(whatsapp, ''),
			COALESCE(mobile, ''), COALESCE(phone, ''),
			COALESCE(tax_id, ''),
			COALESCE(street, ''), COALESCE(number, ''),
			COALESCE(district, ''), COALESCE(city, ''),
			COALESCE(state, ''), COALESCE(zip_code, ''),
			COALESCE(sources, ''),
			COALESCE(crm_lead_id, 0)
		FROM customers
		WHERE id = $1
	`

	var c entity.Contact
	var sources string

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.CustomerID,
		&c.FullName,
		&c.Email,
		&c.Whatsapp,
		&c.Mobile,
		&c.Phone,
		&c.TaxID,
		&c.Street,
		&c.Number,
		&c.District,
		&c.City,
		&c.State,
		&c.ZipCode,
		&sources,
		&c.CRMLeadID,
	)
	if err != nil {
		return nil, err
	}
	c.Sources = splitSources(sources)

	return &c, nil
}

// splitSources quebra a coluna de origens (texto separado por vírgula).
func splitSources(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	sources := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			sources = append(sources, trimmed)
		}
	}
	return sources
}

func (r *CustomerRepository) findOrders(ctx context.Context, customerID string) ([]entity.Order, error) {
	query := `
		SELECT id, kind, order_date, total_value, status
		FROM orders
		WHERE customer_id = $1
		ORDER BY order_date
	`

	rows, err := r.DB.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.Kind, &o.Date, &o.Value, &o.Status); err != nil {
			return nil, err
		}

		items, err := r.findOrderItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items

		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func (r *CustomerRepository) findOrderItems(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	query := `
		SELECT description, quantity, unit_value
		FROM order_items
		WHERE order_id = $1
	`

	rows, err := r.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		var item entity.OrderItem
		if err := rows.Scan(&item.Description, &item.Quantity, &item.UnitValue); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// UpdateCRMLeadID guarda o id externo do lead no cliente de origem.
func (r *CustomerRepository) UpdateCRMLeadID(ctx context.Context, customerID string, leadID int) error {
	query := `
		UPDATE customers
		SET crm_lead_id = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.DB.ExecContext(ctx, query, leadID, customerID)
	return err
}
