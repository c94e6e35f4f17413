package flows

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"

	"grafik/internal/dispatch/cache"
	"grafik/internal/dispatch/core"
	"grafik/pkg/client"
	apperrors "grafik/pkg/errors"
	httputil "grafik/pkg/http"
	"grafik/pkg/logger"
	"grafik/pkg/model"
	"grafik/pkg/sealer"
)

const (
	testMasterID      = "507f1f77bcf86cd799439011"
	otherMasterID     = "507f1f77bcf86cd799439012"
	thirdMasterID     = "507f1f77bcf86cd799439013"
	testOrderID       = "65b1c2d3e4f5a6b7c8d9e0f1"
	otherOrderID      = "65b1c2d3e4f5a6b7c8d9e0f2"
	testScheduleID    = "65a1b2c3d4e5f6a7b8c9d0e1"
	testAutoServiceID = "65d4e5f6a7b8c9d0e1f2a3b4"

	// 2026-03-16 is a Monday, safely inside every fixture's open period.
	monday = "2026-03-16"
)

// fakeBackend stands in for the schedules, orders and auto services APIs.
// All three clients point at the same server; the route sets never collide.
type fakeBackend struct {
	mu sync.Mutex

	schedules map[string][]*model.WorkSchedule
	orders    map[string][]*model.Order
	orderByID map[string]*model.Order
	roster    []*model.Master

	scheduleFailFor map[string]bool
	assignDecision  *model.AssignmentDecision
	updateStatus    int

	scheduleSearchCalls int
	orderSearchCalls    int
	assignCalls         int
	assignedMaster      string
	updateCalls         int
	lastUpdate          model.OrderUpdate
	masterQuery         url.Values
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		schedules:       map[string][]*model.WorkSchedule{},
		orders:          map[string][]*model.Order{},
		orderByID:       map[string]*model.Order{},
		scheduleFailFor: map[string]bool{},
	}
}

func (b *fakeBackend) start(t *testing.T) *httptest.Server {
	t.Helper()
	router := httprouter.New()

	router.GET("/api/v1/schedules/search", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.scheduleSearchCalls++
		masterID := r.URL.Query().Get("master_id")
		if b.scheduleFailFor[masterID] {
			httputil.WriteError(w, apperrors.Internal("Schedules are unavailable", nil))
			return
		}
		list := b.schedules[masterID]
		if list == nil {
			list = []*model.WorkSchedule{}
		}
		httputil.WritePaginated(w, list, int64(len(list)), len(list), 0)
	})

	router.GET("/api/v1/orders/search", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.orderSearchCalls++
		masterID := r.URL.Query().Get("master_id")
		date := r.URL.Query().Get("date")
		list := []*model.Order{}
		for _, o := range b.orders[masterID] {
			if date == "" || o.PreferredDate == date {
				list = append(list, o)
			}
		}
		httputil.WritePaginated(w, list, int64(len(list)), len(list), 0)
	})

	router.GET("/api/v1/orders/id/:id", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		b.mu.Lock()
		defer b.mu.Unlock()
		o, ok := b.orderByID[ps.ByName("id")]
		if !ok {
			httputil.WriteError(w, apperrors.NotFoundWithID("Order", ps.ByName("id")))
			return
		}
		httputil.WriteSuccess(w, o)
	})

	router.PATCH("/api/v1/orders/id/:id", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.updateCalls++
		_ = json.NewDecoder(r.Body).Decode(&b.lastUpdate)
		if b.updateStatus != 0 {
			httputil.WriteError(w, apperrors.Conflict("The master is not available at the requested time"))
			return
		}
		if o, ok := b.orderByID[ps.ByName("id")]; ok {
			if b.lastUpdate.PreferredDate != "" {
				o.PreferredDate = b.lastUpdate.PreferredDate
			}
			if b.lastUpdate.PreferredTime != "" {
				o.PreferredTime = b.lastUpdate.PreferredTime
			}
		}
		httputil.WriteNoContent(w)
	})

	router.POST("/api/v1/orders/id/:id/assign", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.assignCalls++
		var body struct {
			MasterID string `json:"master_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.assignedMaster = body.MasterID
		decision := b.assignDecision
		if decision == nil {
			decision = &model.AssignmentDecision{Allowed: true, ScheduleID: testScheduleID}
		}
		httputil.WriteSuccess(w, decision)
	})

	router.GET("/api/v1/masters/search", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.masterQuery = r.URL.Query()
		list := b.roster
		if list == nil {
			list = []*model.Master{}
		}
		httputil.WritePaginated(w, list, int64(len(list)), len(list), 0)
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// newTestDeps wires flow dependencies against the fake backend. The redis
// address points at nothing, which exercises the cache's degrade-to-origin
// path on every lookup.
func newTestDeps(t *testing.T, b *fakeBackend) *Deps {
	t.Helper()
	srv := b.start(t)
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	clients := client.NewSet(srv.URL, srv.URL, srv.URL)

	return &Deps{
		Clients:            clients,
		Schedules:          cache.NewScheduleCache(rdb, clients.Schedules, time.Minute, log),
		Sealer:             sealer.New("dispatch-test-secret"),
		Limiter:            core.NewLimiter(4),
		Log:                log,
		DefaultDurationMin: 60,
		SlotStepMin:        60,
	}
}

func runFlow(t *testing.T, deps *Deps, name string, input map[string]any) (*core.FlowContext, error) {
	t.Helper()
	engine := core.NewEngine(deps.Log, All(deps)...)
	ctx := core.NewFlowContext(context.Background(), input, deps.Log)
	return ctx, engine.Run(name, ctx)
}

func weeklySchedule(masterID, start, end string) *model.WorkSchedule {
	return &model.WorkSchedule{
		ID:           testScheduleID,
		MasterID:     masterID,
		ScheduleType: model.ScheduleTypeWeekly,
		StartTime:    start,
		EndTime:      end,
		IsActive:     true,
	}
}

func confirmedOrder(id, masterID, date, clock string, durationMin int) *model.Order {
	return &model.Order{
		ID:                   id,
		AutoServiceID:        testAutoServiceID,
		MasterID:             masterID,
		ClientName:           "Oleg",
		ClientPhone:          "+79161234567",
		CarInfo:              "Lada Vesta",
		PreferredDate:        date,
		PreferredTime:        clock,
		EstimatedDurationMin: durationMin,
		Status:               model.OrderStatusConfirmed,
	}
}

func pendingOrder(id, date, clock string) *model.Order {
	return &model.Order{
		ID:            id,
		AutoServiceID: testAutoServiceID,
		ClientName:    "Oleg",
		ClientPhone:   "+79161234567",
		CarInfo:       "Lada Vesta",
		PreferredDate: date,
		PreferredTime: clock,
		Status:        model.OrderStatusNew,
	}
}
