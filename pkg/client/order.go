package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"grafik/pkg/model"
)

type OrderClient struct {
	httpClient *HttpClient
}

func NewOrderClient(baseUrl string) *OrderClient {
	return &OrderClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *OrderClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/orders", body)
}

func (c *OrderClient) GetAll(limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/orders?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(path)
}

func (c *OrderClient) Search(autoServiceID string, masterID string, date string, status string, limit int, offset int64) (*Response, error) {
	q := url.Values{}

	if autoServiceID != "" {
		q.Set("auto_service_id", autoServiceID)
	}
	if masterID != "" {
		q.Set("master_id", masterID)
	}
	if date != "" {
		q.Set("date", date)
	}
	if status != "" {
		q.Set("status", status)
	}

	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	path := "/api/v1/orders/search?" + q.Encode()
	return c.httpClient.GET(path)
}

func (c *OrderClient) GetByID(id string) (*Response, error) {
	path := "/api/v1/orders/id/" + url.PathEscape(id)
	return c.httpClient.GET(path)
}

func (c *OrderClient) Update(id string, body any) (*Response, error) {
	path := "/api/v1/orders/id/" + url.PathEscape(id)
	return c.httpClient.PATCH(path, body)
}

func (c *OrderClient) Delete(id string) (*Response, error) {
	path := "/api/v1/orders/id/" + url.PathEscape(id)
	return c.httpClient.DELETE(path)
}

// Assign asks the orders service to place the order with a master. The
// service answers 200 with an AssignmentDecision either way; a disallowed
// assignment is not an HTTP error.
func (c *OrderClient) Assign(id string, masterID string) (*Response, error) {
	path := "/api/v1/orders/id/" + url.PathEscape(id) + "/assign"
	return c.httpClient.POST(path, map[string]string{"master_id": masterID})
}

func (c *OrderClient) CreateRaw(rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw("/api/v1/orders", rawBody)
}

func (c *OrderClient) UpdateRaw(id string, rawBody []byte) (*Response, error) {
	path := "/api/v1/orders/id/" + url.PathEscape(id)
	return c.httpClient.PATCHRaw(path, rawBody)
}

func (c *OrderClient) DecodeOrder(resp *Response) (*model.Order, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode order wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var order model.Order
	if err := json.Unmarshal(wrapper.Data, &order); err != nil {
		return nil, fmt.Errorf("could not decode order json:\n%+v\n%s", resp.ToString(), err)
	}

	return &order, nil
}

func (c *OrderClient) DecodeOrders(resp *Response) ([]*model.Order, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var orders []*model.Order
	if err := json.Unmarshal(wrapper.Data, &orders); err != nil {
		return nil, nil, fmt.Errorf("could not decode order list:\n%+v\n%s", resp.ToString(), err)
	}

	metadata := &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}

	return orders, metadata, nil
}

func (c *OrderClient) DecodeDecision(resp *Response) (*model.AssignmentDecision, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode decision wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var decision model.AssignmentDecision
	if err := json.Unmarshal(wrapper.Data, &decision); err != nil {
		return nil, fmt.Errorf("could not decode decision json:\n%+v\n%s", resp.ToString(), err)
	}

	return &decision, nil
}
