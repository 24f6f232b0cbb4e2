package service

import (
	"context"
	"time"

	"sigrap/internal/apperr"
	"sigrap/internal/model"
	"sigrap/internal/repository"

	"github.com/google/uuid"
)

type CreateEmployeeRequest struct {
	FullName       string `json:"full_name" binding:"required"`
	DocumentNumber string `json:"document_number" binding:"required"`
	Position       string `json:"position"`
	Phone          string `json:"phone"`
	Email          string `json:"email" binding:"omitempty,email"`
	HireDate       string `json:"hire_date"`
	UserID         string `json:"user_id"`
}

type UpdateEmployeeRequest struct {
	FullName string `json:"full_name"`
	Position string `json:"position"`
	Phone    string `json:"phone"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type EmployeeResponse struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	DocumentNumber string `json:"document_number"`
	Position       string `json:"position"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	HireDate       string `json:"hire_date,omitempty"`
	UserID         string `json:"user_id,omitempty"`
}

type CreateScheduleRequest struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type ScheduleResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Weekday    int    `json:"weekday"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

type ClockInRequest struct {
	Notes string `json:"notes"`
}

type AttendanceResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	ClockIn    string  `json:"clock_in"`
	ClockOut   *string `json:"clock_out"`
	Status     string  `json:"status"`
	Notes      string  `json:"notes"`
}

// EmployeeService manages staff records, weekly schedules and attendance
type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (*EmployeeResponse, error)
	ListEmployees(ctx context.Context, page, limit int) ([]EmployeeResponse, int64, error)
	UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (*EmployeeResponse, error)
	DeleteEmployee(ctx context.Context, id string) error

	AddSchedule(ctx context.Context, employeeID string, req CreateScheduleRequest) (*ScheduleResponse, error)
	RemoveSchedule(ctx context.Context, employeeID, scheduleID string) error
	ListSchedules(ctx context.Context, employeeID string) ([]ScheduleResponse, error)

	ClockIn(ctx context.Context, employeeID string, req ClockInRequest) (*AttendanceResponse, error)
	ClockOut(ctx context.Context, employeeID string) (*AttendanceResponse, error)
	ListAttendance(ctx context.Context, employeeID, from, to string) ([]AttendanceResponse, error)
}

type employeeService struct {
	repo repository.EmployeeRepository
}

// NewEmployeeService returns a new instance of EmployeeService
func NewEmployeeService(repo repository.EmployeeRepository) EmployeeService {
	return &employeeService{repo: repo}
}

func mapToEmployeeResponse(employee *model.Employee) *EmployeeResponse {
	resp := &EmployeeResponse{
		ID:             employee.ID.String(),
		FullName:       employee.FullName,
		DocumentNumber: employee.DocumentNumber,
		Position:       employee.Position,
		Phone:          employee.Phone,
		Email:          employee.Email,
	}
	if employee.HireDate != nil {
		resp.HireDate = employee.HireDate.Format("2006-01-02")
	}
	if employee.UserID != nil {
		resp.UserID = employee.UserID.String()
	}
	return resp
}

func mapToScheduleResponse(schedule *model.Schedule) *ScheduleResponse {
	return &ScheduleResponse{
		ID:         schedule.ID.String(),
		EmployeeID: schedule.EmployeeID.String(),
		Weekday:    schedule.Weekday,
		StartTime:  schedule.StartTime,
		EndTime:    schedule.EndTime,
	}
}

func mapToAttendanceResponse(attendance *model.Attendance) *AttendanceResponse {
	resp := &AttendanceResponse{
		ID:         attendance.ID.String(),
		EmployeeID: attendance.EmployeeID.String(),
		ClockIn:    attendance.ClockIn.Format(time.RFC3339),
		Status:     attendance.Status,
		Notes:      attendance.Notes,
	}
	if attendance.ClockOut != nil {
		out := attendance.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &out
	}
	return resp
}

func (s *employeeService) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	if _, err := s.repo.FindByDocument(ctx, req.DocumentNumber); err == nil {
		return nil, apperr.Validation("document number already registered")
	}

	employee := &model.Employee{
		FullName:       req.FullName,
		DocumentNumber: req.DocumentNumber,
		Position:       req.Position,
		Phone:          req.Phone,
		Email:          req.Email,
	}

	if req.HireDate != "" {
		parsed, err := time.Parse("2006-01-02", req.HireDate)
		if err != nil {
			return nil, apperr.Validation("hire_date must be YYYY-MM-DD")
		}
		employee.HireDate = &parsed
	}
	if req.UserID != "" {
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			return nil, apperr.Validation("invalid user_id")
		}
		employee.UserID = &userID
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, err
	}
	return mapToEmployeeResponse(employee), nil
}

func (s *employeeService) GetEmployee(ctx context.Context, id string) (*EmployeeResponse, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid employee id")
	}
	employee, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, apperr.NotFound("employee not found")
	}
	return mapToEmployeeResponse(employee), nil
}

func (s *employeeService) ListEmployees(ctx context.Context, page, limit int) ([]EmployeeResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	employees, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		responses = append(responses, *mapToEmployeeResponse(&employees[i]))
	}
	return responses, total, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, id string, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid employee id")
	}
	employee, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, apperr.NotFound("employee not found")
	}

	if req.FullName != "" {
		employee.FullName = req.FullName
	}
	if req.Position != "" {
		employee.Position = req.Position
	}
	if req.Phone != "" {
		employee.Phone = req.Phone
	}
	if req.Email != "" {
		employee.Email = req.Email
	}

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, err
	}
	return mapToEmployeeResponse(employee), nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, id string) error {
	employeeID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid employee id")
	}
	if _, err := s.repo.FindByID(ctx, employeeID); err != nil {
		return apperr.NotFound("employee not found")
	}
	return s.repo.Delete(ctx, employeeID)
}

// AddSchedule validates the shift period before persisting. Times are wall
// clock "15:04" strings and the start must strictly precede the end.
func (s *employeeService) AddSchedule(ctx context.Context, employeeID string, req CreateScheduleRequest) (*ScheduleResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, apperr.Validation("invalid employee id")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, apperr.NotFound("employee not found")
	}

	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		return nil, apperr.Validation("start_time must be HH:MM")
	}
	end, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		return nil, apperr.Validation("end_time must be HH:MM")
	}
	if !start.Before(end) {
		return nil, apperr.Validation("start_time must be before end_time")
	}
	if req.Weekday < 0 || req.Weekday > 6 {
		return nil, apperr.Validation("weekday must be between 0 and 6")
	}

	schedule := &model.Schedule{
		EmployeeID: id,
		Weekday:    req.Weekday,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}
	if err := s.repo.CreateSchedule(ctx, schedule); err != nil {
		return nil, err
	}
	return mapToScheduleResponse(schedule), nil
}

func (s *employeeService) RemoveSchedule(ctx context.Context, employeeID, scheduleID string) error {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return apperr.Validation("invalid employee id")
	}
	sid, err := uuid.Parse(scheduleID)
	if err != nil {
		return apperr.Validation("invalid schedule id")
	}

	schedules, err := s.repo.ListSchedules(ctx, id)
	if err != nil {
		return err
	}
	for _, schedule := range schedules {
		if schedule.ID == sid {
			return s.repo.DeleteSchedule(ctx, sid)
		}
	}
	return apperr.NotFound("schedule not found")
}

func (s *employeeService) ListSchedules(ctx context.Context, employeeID string) ([]ScheduleResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, apperr.Validation("invalid employee id")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, apperr.NotFound("employee not found")
	}

	schedules, err := s.repo.ListSchedules(ctx, id)
	if err != nil {
		return nil, err
	}
	responses := make([]ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		responses = append(responses, *mapToScheduleResponse(&schedules[i]))
	}
	return responses, nil
}

// ClockIn opens an attendance period. A second clock-in without a clock-out is
// rejected. Arrival after the scheduled shift start marks the record LATE.
func (s *employeeService) ClockIn(ctx context.Context, employeeID string, req ClockInRequest) (*AttendanceResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, apperr.Validation("invalid employee id")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, apperr.NotFound("employee not found")
	}

	if _, err := s.repo.FindOpenAttendance(ctx, id); err == nil {
		return nil, apperr.Conflict("employee already clocked in")
	}

	now := time.Now()
	status := model.AttendancePresent

	schedules, err := s.repo.ListSchedules(ctx, id)
	if err == nil {
		for _, schedule := range schedules {
			if schedule.Weekday != int(now.Weekday()) {
				continue
			}
			if start, parseErr := time.Parse("15:04", schedule.StartTime); parseErr == nil {
				shiftStart := time.Date(now.Year(), now.Month(), now.Day(),
					start.Hour(), start.Minute(), 0, 0, now.Location())
				if now.After(shiftStart.Add(5 * time.Minute)) {
					status = model.AttendanceLate
				}
			}
			break
		}
	}

	attendance := &model.Attendance{
		EmployeeID: id,
		ClockIn:    now,
		Status:     status,
		Notes:      req.Notes,
	}
	if err := s.repo.CreateAttendance(ctx, attendance); err != nil {
		return nil, err
	}
	return mapToAttendanceResponse(attendance), nil
}

func (s *employeeService) ClockOut(ctx context.Context, employeeID string) (*AttendanceResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, apperr.Validation("invalid employee id")
	}

	attendance, err := s.repo.FindOpenAttendance(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("no open attendance record")
	}

	now := time.Now()
	attendance.ClockOut = &now
	if err := s.repo.UpdateAttendance(ctx, attendance); err != nil {
		return nil, err
	}
	return mapToAttendanceResponse(attendance), nil
}

func (s *employeeService) ListAttendance(ctx context.Context, employeeID, from, to string) ([]AttendanceResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, apperr.Validation("invalid employee id")
	}

	fromDate := time.Now().AddDate(0, -1, 0)
	if from != "" {
		fromDate, err = time.Parse("2006-01-02", from)
		if err != nil {
			return nil, apperr.Validation("from must be YYYY-MM-DD")
		}
	}
	toDate := time.Now()
	if to != "" {
		toDate, err = time.Parse("2006-01-02", to)
		if err != nil {
			return nil, apperr.Validation("to must be YYYY-MM-DD")
		}
		toDate = toDate.AddDate(0, 0, 1)
	}

	records, err := s.repo.ListAttendance(ctx, id, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	responses := make([]AttendanceResponse, 0, len(records))
	for i := range records {
		responses = append(responses, *mapToAttendanceResponse(&records[i]))
	}
	return responses, nil
}
