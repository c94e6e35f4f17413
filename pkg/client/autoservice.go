package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"grafik/pkg/model"
)

type AutoServiceClient struct {
	httpClient *HttpClient
}

func NewAutoServiceClient(baseUrl string) *AutoServiceClient {
	return &AutoServiceClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *AutoServiceClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/auto-services", body)
}

func (c *AutoServiceClient) GetAll(limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/auto-services?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(path)
}

func (c *AutoServiceClient) Search(regionID string, active string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	q.Set("region_id", regionID)

	if active != "" {
		q.Set("active", active)
	}

	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	path := "/api/v1/auto-services/search?" + q.Encode()
	return c.httpClient.GET(path)
}

func (c *AutoServiceClient) GetByID(id string) (*Response, error) {
	path := "/api/v1/auto-services/id/" + url.PathEscape(id)
	return c.httpClient.GET(path)
}

func (c *AutoServiceClient) Update(id string, body any) (*Response, error) {
	path := "/api/v1/auto-services/id/" + url.PathEscape(id)
	return c.httpClient.PATCH(path, body)
}

func (c *AutoServiceClient) Delete(id string) (*Response, error) {
	path := "/api/v1/auto-services/id/" + url.PathEscape(id)
	return c.httpClient.DELETE(path)
}

// SearchMasters lists an auto service's roster. specializations takes
// comma-separated tokens and narrows the roster to masters holding any of
// them; empty means no narrowing.
func (c *AutoServiceClient) SearchMasters(autoServiceID string, active string, specializations string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	q.Set("auto_service_id", autoServiceID)

	if active != "" {
		q.Set("active", active)
	}
	if specializations != "" {
		q.Set("specializations", specializations)
	}

	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	path := "/api/v1/masters/search?" + q.Encode()
	return c.httpClient.GET(path)
}

func (c *AutoServiceClient) GetMasterByID(id string) (*Response, error) {
	path := "/api/v1/masters/id/" + url.PathEscape(id)
	return c.httpClient.GET(path)
}

func (c *AutoServiceClient) DecodeAutoService(resp *Response) (*model.AutoService, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode auto service wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var svc model.AutoService
	if err := json.Unmarshal(wrapper.Data, &svc); err != nil {
		return nil, fmt.Errorf("could not decode auto service json:\n%+v\n%s", resp.ToString(), err)
	}

	return &svc, nil
}

func (c *AutoServiceClient) DecodeAutoServices(resp *Response) ([]*model.AutoService, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var services []*model.AutoService
	if err := json.Unmarshal(wrapper.Data, &services); err != nil {
		return nil, nil, fmt.Errorf("could not decode auto service list:\n%+v\n%s", resp.ToString(), err)
	}

	metadata := &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}

	return services, metadata, nil
}

func (c *AutoServiceClient) DecodeMaster(resp *Response) (*model.Master, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode master wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var master model.Master
	if err := json.Unmarshal(wrapper.Data, &master); err != nil {
		return nil, fmt.Errorf("could not decode master json:\n%+v\n%s", resp.ToString(), err)
	}

	return &master, nil
}

func (c *AutoServiceClient) DecodeMasters(resp *Response) ([]*model.Master, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var masters []*model.Master
	if err := json.Unmarshal(wrapper.Data, &masters); err != nil {
		return nil, nil, fmt.Errorf("could not decode master list:\n%+v\n%s", resp.ToString(), err)
	}

	metadata := &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}

	return masters, metadata, nil
}
