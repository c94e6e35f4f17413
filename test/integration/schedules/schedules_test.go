package schedules_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"grafik/pkg/model"
	"grafik/test/integration/testutil"
)

const (
	masterID      = "507f1f77bcf86cd799439011"
	otherMasterID = "507f1f77bcf86cd799439012"
)

type scheduleResponse struct {
	Data model.WorkSchedule `json:"data"`
}

type schedulePage struct {
	Data       []model.WorkSchedule `json:"data"`
	TotalCount int64                `json:"total_count"`
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
}

type availabilityResponse struct {
	Data model.AvailabilityStatus `json:"data"`
}

func TestWorkScheduleLifecycle(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	start := testutil.NextWeekday(time.Monday)
	end := testutil.ShiftDate(start, 13)
	sunday := testutil.ShiftDate(start, 6)

	var created model.WorkSchedule

	t.Run("create weekly schedule", func(t *testing.T) {
		body := testutil.NewWorkScheduleBuilder(masterID).
			WithPeriod(start, end).
			WithWindow("09:00", "18:00").
			Build()

		resp := client.POST(t, "/api/v1/schedules", body)
		testutil.AssertStatusCode(t, resp, http.StatusCreated)

		var out scheduleResponse
		if err := resp.DecodeJSON(&out); err != nil {
			t.Fatalf("failed to decode created schedule: %v", err)
		}
		created = out.Data

		if created.ID == "" {
			t.Fatal("created schedule has no id")
		}
		if !created.IsActive {
			t.Error("new schedules must be active")
		}
		if created.ScheduleType != model.ScheduleTypeWeekly {
			t.Errorf("schedule_type = %q, want weekly", created.ScheduleType)
		}
	})

	t.Run("get by id round-trips", func(t *testing.T) {
		resp := client.GET(t, "/api/v1/schedules/id/"+created.ID)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var out scheduleResponse
		if err := resp.DecodeJSON(&out); err != nil {
			t.Fatalf("failed to decode schedule: %v", err)
		}
		if out.Data.MasterID != masterID {
			t.Errorf("master_id = %q, want %q", out.Data.MasterID, masterID)
		}
		if out.Data.StartTime != "09:00" || out.Data.EndTime != "18:00" {
			t.Errorf("window = %s..%s, want 09:00..18:00", out.Data.StartTime, out.Data.EndTime)
		}
	})

	t.Run("availability inside working hours", func(t *testing.T) {
		resp := client.GET(t, fmt.Sprintf("/api/v1/schedules/availability?master_id=%s&date=%s&time=10:00", masterID, start))
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var out availabilityResponse
		if err := resp.DecodeJSON(&out); err != nil {
			t.Fatalf("failed to decode availability: %v", err)
		}
		if !out.Data.Working {
			t.Error("master should be working Monday 10:00")
		}
		if out.Data.ScheduleID != created.ID {
			t.Errorf("schedule_id = %q, want %q", out.Data.ScheduleID, created.ID)
		}
	})

	t.Run("weekly schedule rests on Sunday", func(t *testing.T) {
		resp := client.GET(t, fmt.Sprintf("/api/v1/schedules/availability?master_id=%s&date=%s", masterID, sunday))
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var out availabilityResponse
		if err := resp.DecodeJSON(&out); err != nil {
			t.Fatalf("failed to decode availability: %v", err)
		}
		if out.Data.Working {
			t.Error("weekly schedules must not cover Sunday")
		}
	})

	t.Run("applicable is null outside the period", func(t *testing.T) {
		after := testutil.ShiftDate(end, 7)
		resp := client.GET(t, fmt.Sprintf("/api/v1/schedules/applicable?master_id=%s&date=%s", masterID, after))
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var out struct {
			Data *model.WorkSchedule `json:"data"`
		}
		if err := resp.DecodeJSON(&out); err != nil {
			t.Fatalf("failed to decode applicable: %v", err)
		}
		if out.Data != nil {
			t.Errorf("expected null data, got schedule %s", out.Data.ID)
		}
	})

	t.Run("search by master paginates", func(t *testing.T) {
		resp := client.GET(t, fmt.Sprintf("/api/v1/schedules/search?master_id=%s&active=true&limit=10&offset=0", masterID))
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var page schedulePage
		if err := resp.DecodeJSON(&page); err != nil {
			t.Fatalf("failed to decode page: %v", err)
		}
		if page.TotalCount != 1 {
			t.Errorf("total_count = %d, want 1", page.TotalCount)
		}
		if len(page.Data) != 1 || page.Data[0].ID != created.ID {
			t.Errorf("unexpected page contents: %+v", page.Data)
		}
	})

	t.Run("update shrinks the working window", func(t *testing.T) {
		resp := client.PATCH(t, "/api/v1/schedules/id/"+created.ID, model.WorkScheduleUpdate{
			StartTime: "10:00",
			EndTime:   "17:00",
		})
		if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
			t.Fatalf("update returned %d: %s", resp.StatusCode, string(resp.Body))
		}

		check := client.GET(t, fmt.Sprintf("/api/v1/schedules/availability?master_id=%s&date=%s&time=09:30", masterID, start))
		testutil.AssertStatusCode(t, check, http.StatusOK)

		var out availabilityResponse
		if err := check.DecodeJSON(&out); err != nil {
			t.Fatalf("failed to decode availability: %v", err)
		}
		if out.Data.Working {
			t.Error("09:30 should be outside the updated window")
		}
	})

	t.Run("delete then 404", func(t *testing.T) {
		resp := client.DELETE(t, "/api/v1/schedules/id/"+created.ID)
		testutil.AssertStatusCode(t, resp, http.StatusNoContent)

		gone := client.GET(t, "/api/v1/schedules/id/"+created.ID)
		testutil.AssertStatusCode(t, gone, http.StatusNotFound)
	})
}

func TestWorkScheduleConflicts(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	start := testutil.NextWeekday(time.Monday)
	end := testutil.ShiftDate(start, 13)

	first := client.POST(t, "/api/v1/schedules", testutil.NewWorkScheduleBuilder(masterID).
		WithPeriod(start, end).
		Build())
	testutil.AssertStatusCode(t, first, http.StatusCreated)

	t.Run("overlapping period is rejected", func(t *testing.T) {
		resp := client.POST(t, "/api/v1/schedules", testutil.NewWorkScheduleBuilder(masterID).
			WithPeriod(testutil.ShiftDate(start, 7), testutil.ShiftDate(end, 7)).
			Build())
		testutil.AssertStatusCode(t, resp, http.StatusConflict)

		if code := testutil.GetErrorCode(t, resp); code != "CONFLICT" {
			t.Errorf("error code = %q, want CONFLICT", code)
		}
	})

	t.Run("another master is unaffected", func(t *testing.T) {
		resp := client.POST(t, "/api/v1/schedules", testutil.NewWorkScheduleBuilder(otherMasterID).
			WithPeriod(start, end).
			Build())
		testutil.AssertStatusCode(t, resp, http.StatusCreated)
	})

	t.Run("concurrent identical creates admit exactly one", func(t *testing.T) {
		mongo.CleanCollection(t, testutil.WorkSchedulesCollection)

		const attempts = 6
		results := make(chan int, attempts)
		body := testutil.NewWorkScheduleBuilder(masterID).
			WithPeriod(start, end).
			Build()

		for i := 0; i < attempts; i++ {
			go func() {
				resp := client.POST(t, "/api/v1/schedules", body)
				results <- resp.StatusCode
			}()
		}

		createdCount := 0
		for i := 0; i < attempts; i++ {
			if <-results == http.StatusCreated {
				createdCount++
			}
		}
		if createdCount != 1 {
			t.Errorf("%d creates succeeded, want exactly 1", createdCount)
		}
		if n := mongo.CountDocuments(t, testutil.WorkSchedulesCollection); n != 1 {
			t.Errorf("%d schedules stored, want 1", n)
		}
	})
}

func TestWorkScheduleValidation(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	cases := []struct {
		name    string
		mutate  func(ws *model.WorkSchedule)
		status  int
		errCode string
	}{
		{
			name:    "end time before start time",
			mutate:  func(ws *model.WorkSchedule) { ws.StartTime = "18:00"; ws.EndTime = "09:00" },
			status:  http.StatusUnprocessableEntity,
			errCode: "VALIDATION_ERROR",
		},
		{
			name:    "malformed clock value",
			mutate:  func(ws *model.WorkSchedule) { ws.StartTime = "9am" },
			status:  http.StatusUnprocessableEntity,
			errCode: "VALIDATION_ERROR",
		},
		{
			name:    "unknown schedule type",
			mutate:  func(ws *model.WorkSchedule) { ws.ScheduleType = "biweekly" },
			status:  http.StatusUnprocessableEntity,
			errCode: "VALIDATION_ERROR",
		},
		{
			name:    "period end before start",
			mutate:  func(ws *model.WorkSchedule) { ws.StartDate, ws.EndDate = ws.EndDate, ws.StartDate },
			status:  http.StatusUnprocessableEntity,
			errCode: "VALIDATION_ERROR",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ws := testutil.NewWorkScheduleBuilder(masterID).Build()
			tc.mutate(&ws)

			resp := client.POST(t, "/api/v1/schedules", ws)
			testutil.AssertStatusCode(t, resp, tc.status)
			if code := testutil.GetErrorCode(t, resp); code != tc.errCode {
				t.Errorf("error code = %q, want %q", code, tc.errCode)
			}
		})
	}

	if n := mongo.CountDocuments(t, testutil.WorkSchedulesCollection); n != 0 {
		t.Errorf("%d schedules stored after rejected creates, want 0", n)
	}
}
