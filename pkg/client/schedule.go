package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"grafik/pkg/model"
)

type ScheduleClient struct {
	httpClient *HttpClient
}

func NewScheduleClient(baseUrl string) *ScheduleClient {
	return &ScheduleClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *ScheduleClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/schedules", body)
}

func (c *ScheduleClient) GetAll(limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/schedules?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(path)
}

func (c *ScheduleClient) Search(masterID string, active string, date string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	q.Set("master_id", masterID)

	if active != "" {
		q.Set("active", active)
	}
	if date != "" {
		q.Set("date", date)
	}

	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	path := "/api/v1/schedules/search?" + q.Encode()
	return c.httpClient.GET(path)
}

// Applicable asks for the first active schedule covering the date. The data
// field is null when the master has no applicable schedule.
func (c *ScheduleClient) Applicable(masterID string, date string) (*Response, error) {
	q := url.Values{}
	q.Set("master_id", masterID)
	q.Set("date", date)

	path := "/api/v1/schedules/applicable?" + q.Encode()
	return c.httpClient.GET(path)
}

func (c *ScheduleClient) Availability(masterID string, date string, clock string) (*Response, error) {
	q := url.Values{}
	q.Set("master_id", masterID)
	q.Set("date", date)
	if clock != "" {
		q.Set("time", clock)
	}

	path := "/api/v1/schedules/availability?" + q.Encode()
	return c.httpClient.GET(path)
}

func (c *ScheduleClient) GetByID(id string) (*Response, error) {
	path := "/api/v1/schedules/id/" + url.PathEscape(id)
	return c.httpClient.GET(path)
}

func (c *ScheduleClient) Update(id string, body any) (*Response, error) {
	path := "/api/v1/schedules/id/" + url.PathEscape(id)
	return c.httpClient.PATCH(path, body)
}

func (c *ScheduleClient) Delete(id string) (*Response, error) {
	path := "/api/v1/schedules/id/" + url.PathEscape(id)
	return c.httpClient.DELETE(path)
}

func (c *ScheduleClient) CreateRaw(rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw("/api/v1/schedules", rawBody)
}

func (c *ScheduleClient) UpdateRaw(id string, rawBody []byte) (*Response, error) {
	path := "/api/v1/schedules/id/" + url.PathEscape(id)
	return c.httpClient.PATCHRaw(path, rawBody)
}

// DecodeSchedule unwraps a single-schedule envelope. A null data field
// decodes to nil without error.
func (c *ScheduleClient) DecodeSchedule(resp *Response) (*model.WorkSchedule, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode schedule wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	if len(wrapper.Data) == 0 || string(wrapper.Data) == "null" {
		return nil, nil
	}

	var schedule model.WorkSchedule
	if err := json.Unmarshal(wrapper.Data, &schedule); err != nil {
		return nil, fmt.Errorf("could not decode schedule json:\n%+v\n%s", resp.ToString(), err)
	}

	return &schedule, nil
}

func (c *ScheduleClient) DecodeSchedules(resp *Response) ([]*model.WorkSchedule, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var schedules []*model.WorkSchedule
	if err := json.Unmarshal(wrapper.Data, &schedules); err != nil {
		return nil, nil, fmt.Errorf("could not decode schedule list:\n%+v\n%s", resp.ToString(), err)
	}

	metadata := &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}

	return schedules, metadata, nil
}

func (c *ScheduleClient) DecodeAvailability(resp *Response) (*model.AvailabilityStatus, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode availability wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var status model.AvailabilityStatus
	if err := json.Unmarshal(wrapper.Data, &status); err != nil {
		return nil, fmt.Errorf("could not decode availability json:\n%+v\n%s", resp.ToString(), err)
	}

	return &status, nil
}
