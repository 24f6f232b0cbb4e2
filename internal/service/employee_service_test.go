package service

import (
	"context"
	"testing"
	"time"

	"sigrap/internal/apperr"
	"sigrap/internal/model"
	"sigrap/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeEmployeeRepo stubs just the calls the schedule and attendance paths use
type fakeEmployeeRepo struct {
	repository.EmployeeRepository

	employee   *model.Employee
	schedules  []model.Schedule
	open       *model.Attendance
	created    []*model.Attendance
	newEntries []*model.Schedule
}

func (f *fakeEmployeeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Employee, error) {
	if f.employee != nil && f.employee.ID == id {
		return f.employee, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepo) CreateSchedule(_ context.Context, schedule *model.Schedule) error {
	schedule.ID = uuid.New()
	f.newEntries = append(f.newEntries, schedule)
	return nil
}

func (f *fakeEmployeeRepo) ListSchedules(_ context.Context, _ uuid.UUID) ([]model.Schedule, error) {
	return f.schedules, nil
}

func (f *fakeEmployeeRepo) FindOpenAttendance(_ context.Context, _ uuid.UUID) (*model.Attendance, error) {
	if f.open != nil {
		return f.open, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepo) CreateAttendance(_ context.Context, attendance *model.Attendance) error {
	attendance.ID = uuid.New()
	f.created = append(f.created, attendance)
	return nil
}

func newFakeEmployeeService() (*fakeEmployeeRepo, EmployeeService) {
	repo := &fakeEmployeeRepo{
		employee: &model.Employee{ID: uuid.New(), FullName: "Ana Pérez", DocumentNumber: "1001"},
	}
	return repo, NewEmployeeService(repo)
}

func TestAddScheduleValidatesPeriod(t *testing.T) {
	repo, svc := newFakeEmployeeService()
	employeeID := repo.employee.ID.String()

	tests := []struct {
		name    string
		req     CreateScheduleRequest
		wantErr bool
	}{
		{"valid shift", CreateScheduleRequest{Weekday: 1, StartTime: "08:00", EndTime: "17:00"}, false},
		{"start equals end", CreateScheduleRequest{Weekday: 1, StartTime: "09:00", EndTime: "09:00"}, true},
		{"start after end", CreateScheduleRequest{Weekday: 1, StartTime: "18:00", EndTime: "09:00"}, true},
		{"garbage time", CreateScheduleRequest{Weekday: 1, StartTime: "8am", EndTime: "17:00"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddSchedule(context.Background(), employeeID, tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.Validation(""))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAddScheduleUnknownEmployee(t *testing.T) {
	_, svc := newFakeEmployeeService()
	_, err := svc.AddSchedule(context.Background(), uuid.NewString(),
		CreateScheduleRequest{Weekday: 1, StartTime: "08:00", EndTime: "17:00"})
	assert.ErrorIs(t, err, apperr.NotFound(""))
}

func TestClockInRejectsDoubleEntry(t *testing.T) {
	repo, svc := newFakeEmployeeService()
	repo.open = &model.Attendance{ID: uuid.New(), EmployeeID: repo.employee.ID, ClockIn: time.Now()}

	_, err := svc.ClockIn(context.Background(), repo.employee.ID.String(), ClockInRequest{})
	assert.ErrorIs(t, err, apperr.Conflict(""))
}

func TestClockInOpensAttendance(t *testing.T) {
	repo, svc := newFakeEmployeeService()

	record, err := svc.ClockIn(context.Background(), repo.employee.ID.String(), ClockInRequest{Notes: "opening shift"})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, model.AttendancePresent, record.Status)
	assert.Nil(t, record.ClockOut)
}
