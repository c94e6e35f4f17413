package testutil

import (
	"time"

	"grafik/pkg/model"
)

// NextWeekday returns the next occurrence of the given weekday strictly
// after today, formatted as the wire date. Fixtures anchor on it so runs
// stay deterministic regardless of the calendar.
func NextWeekday(day time.Weekday) string {
	d := time.Now().UTC()
	for {
		d = d.AddDate(0, 0, 1)
		if d.Weekday() == day {
			return d.Format(model.DateLayout)
		}
	}
}

// ShiftDate moves a wire-format date by the given number of days.
func ShiftDate(date string, days int) string {
	d, err := model.ParseDate(date)
	if err != nil {
		return date
	}
	return d.AddDate(0, 0, days).Format(model.DateLayout)
}

type WorkScheduleBuilder struct {
	ws model.WorkSchedule
}

func NewWorkScheduleBuilder(masterID string) *WorkScheduleBuilder {
	start := NextWeekday(time.Monday)
	return &WorkScheduleBuilder{
		ws: model.WorkSchedule{
			MasterID:     masterID,
			ScheduleType: model.ScheduleTypeWeekly,
			StartDate:    start,
			EndDate:      ShiftDate(start, 13),
			StartTime:    "09:00",
			EndTime:      "18:00",
		},
	}
}

func (b *WorkScheduleBuilder) WithType(scheduleType string) *WorkScheduleBuilder {
	b.ws.ScheduleType = scheduleType
	return b
}

func (b *WorkScheduleBuilder) WithPeriod(startDate, endDate string) *WorkScheduleBuilder {
	b.ws.StartDate = startDate
	b.ws.EndDate = endDate
	return b
}

func (b *WorkScheduleBuilder) WithWindow(startTime, endTime string) *WorkScheduleBuilder {
	b.ws.StartTime = startTime
	b.ws.EndTime = endTime
	return b
}

func (b *WorkScheduleBuilder) WithCustomDays(days string) *WorkScheduleBuilder {
	b.ws.ScheduleType = model.ScheduleTypeCustom
	b.ws.CustomDays = days
	return b
}

func (b *WorkScheduleBuilder) Build() model.WorkSchedule {
	return b.ws
}

// Seed returns a copy ready for direct insertion into Mongo, with the
// fields the service would normally stamp.
func (b *WorkScheduleBuilder) Seed() model.WorkSchedule {
	ws := b.ws
	ws.IsActive = true
	ws.CreatedAt = time.Now().UTC()
	ws.UpdatedAt = ws.CreatedAt
	return ws
}

type OrderBuilder struct {
	o model.Order
}

func NewOrderBuilder(autoServiceID string) *OrderBuilder {
	return &OrderBuilder{
		o: model.Order{
			AutoServiceID: autoServiceID,
			ClientName:    "Ivan Petrov",
			ClientPhone:   "+79161234567",
			CarInfo:       "Lada Vesta 2019",
			PreferredDate: NextWeekday(time.Monday),
			PreferredTime: "10:00",
		},
	}
}

func (b *OrderBuilder) WithClient(name, phone string) *OrderBuilder {
	b.o.ClientName = name
	b.o.ClientPhone = phone
	return b
}

func (b *OrderBuilder) WithCar(carInfo string) *OrderBuilder {
	b.o.CarInfo = carInfo
	return b
}

func (b *OrderBuilder) WithPreferred(date, clock string) *OrderBuilder {
	b.o.PreferredDate = date
	b.o.PreferredTime = clock
	return b
}

func (b *OrderBuilder) WithDuration(minutes int) *OrderBuilder {
	b.o.EstimatedDurationMin = minutes
	return b
}

func (b *OrderBuilder) WithDescription(description string) *OrderBuilder {
	b.o.Description = description
	return b
}

func (b *OrderBuilder) Build() model.Order {
	return b.o
}
